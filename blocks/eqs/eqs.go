/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package eqs implements a structure-preserving signature on equivalence
// classes (the Crites-Lysyanskaya "mercurial signature"): a signature on a
// vector of G1 points that can be ChgRep'd to sign any scalar-multiple of
// that vector, without the signer's involvement. IUT uses this to let a
// sanitizer carry a valid outer signature over rerandomized pk1/pk2 pairs
// after replacing the blocks it is admissible for.
package eqs

import (
	"github.com/be-ys/ksan/blocks/bg"
	"github.com/be-ys/ksan/internal"
	"github.com/drand/kyber"
)

// SecretKey holds one scalar per message-vector coordinate.
type SecretKey struct {
	X []kyber.Scalar
}

// PublicKey holds X_i = x_i * P2 in G2, one per coordinate.
type PublicKey struct {
	X []kyber.Point
}

// Signature is (Z, Y, Ytilde): Z in G1, Y in G1, Ytilde in G2.
type Signature struct {
	Z      kyber.Point
	Y      kyber.Point
	Ytilde kyber.Point
}

// KeyGen draws a secret/public key pair for message vectors of length n.
func KeyGen(ctx *bg.BG, n int) (*SecretKey, *PublicKey) {
	sk := &SecretKey{X: make([]kyber.Scalar, n)}
	pk := &PublicKey{X: make([]kyber.Point, n)}

	for i := 0; i < n; i++ {
		sk.X[i] = ctx.RandomScalar()
		pk.X[i] = ctx.Suite.G2().Point().Mul(sk.X[i], ctx.P2)
	}

	return sk, pk
}

// Sign signs message vector m (a slice of G1 points), matching sk in length.
func Sign(ctx *bg.BG, sk *SecretKey, m []kyber.Point) (*Signature, error) {
	if len(m) != len(sk.X) {
		return nil, internal.ErrLengthMismatch
	}

	y := ctx.RandomScalar()

	sum := ctx.Suite.G1().Point().Null()
	for i, mi := range m {
		term := ctx.Suite.G1().Point().Mul(sk.X[i], mi)
		sum = sum.Add(sum, term)
	}
	z := ctx.Suite.G1().Point().Mul(y, sum)

	yInv := ctx.Suite.G1().Scalar().Inv(y)
	yPoint := ctx.Suite.G1().Point().Mul(yInv, ctx.P1)
	yTilde := ctx.Suite.G2().Point().Mul(yInv, ctx.P2)

	return &Signature{Z: z, Y: yPoint, Ytilde: yTilde}, nil
}

// Verify checks a signature over message vector m under pk:
//
//	e(Z, Ytilde) == prod_i e(M_i, X_i)
//	e(Y, P2)     == e(P1, Ytilde)
func Verify(ctx *bg.BG, pk *PublicKey, m []kyber.Point, s *Signature) bool {
	if len(m) != len(pk.X) {
		return false
	}

	left := ctx.Suite.Pair(s.Z, s.Ytilde)
	right := ctx.Suite.GT().Point().Null()
	for i, mi := range m {
		right = right.Add(right, ctx.Suite.Pair(mi, pk.X[i]))
	}
	if !left.Equal(right) {
		return false
	}

	return ctx.Suite.Pair(s.Y, ctx.P2).Equal(ctx.Suite.Pair(ctx.P1, s.Ytilde))
}

// ChgRep changes the representative of the equivalence class: it rescales
// message vector m by mu, rerandomizes the signature with a fresh internal
// randomizer, and returns the pair (new signature, new message vector)
// under the unchanged public key.
func ChgRep(ctx *bg.BG, m []kyber.Point, s *Signature, mu kyber.Scalar) ([]kyber.Point, *Signature) {
	psi := ctx.RandomScalar()
	psiInv := ctx.Suite.G1().Scalar().Inv(psi)

	mp := make([]kyber.Point, len(m))
	for i, mi := range m {
		mp[i] = ctx.Suite.G1().Point().Mul(mu, mi)
	}

	psiMu := ctx.Suite.G1().Scalar().Mul(psi, mu)
	zp := ctx.Suite.G1().Point().Mul(psiMu, s.Z)
	yp := ctx.Suite.G1().Point().Mul(psiInv, s.Y)
	ytildep := ctx.Suite.G2().Point().Mul(psiInv, s.Ytilde)

	return mp, &Signature{Z: zp, Y: yp, Ytilde: ytildep}
}
