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

// Package bls implements BLS signatures over BLS12-381: signatures live in
// G2, keys in G1, following the two-level key structure the IUT
// construction needs (pk1 = sk1*P1, pk2 = sk1*sk2*P1) so a sanitizer
// holding only sk2 can re-sign a changed block under the same pk1.
package bls

import (
	"github.com/be-ys/ksan/blocks/bg"
	"github.com/drand/kyber"
)

// hashablePoint is implemented by kyber points that support hashing a
// message directly onto the curve, the same interface drand's own
// sign/bls package type-asserts against.
type hashablePoint interface {
	Hash([]byte) kyber.Point
}

// KeyGen draws the two-level BLS key material: sk1, sk2 scalars and their
// corresponding G1 points pk1 = sk1*P1, pk2 = sk2*pk1.
func KeyGen(ctx *bg.BG) (sk1, sk2 kyber.Scalar, pk1, pk2 kyber.Point) {
	sk1 = ctx.RandomScalar()
	sk2 = ctx.RandomScalar()
	pk1 = ctx.Suite.G1().Point().Mul(sk1, ctx.P1)
	pk2 = ctx.Suite.G1().Point().Mul(sk2, pk1)
	return sk1, sk2, pk1, pk2
}

// Sign signs message m with the sk2 share, returning a G2 point.
func Sign(ctx *bg.BG, sk2 kyber.Scalar, m []byte) kyber.Point {
	h := hashToG2(ctx, m)
	return ctx.Suite.G2().Point().Mul(sk2, h)
}

// Verify checks that s is a valid signature of m under (pk1, pk2) via
// e(pk1, s) == e(pk2, H(m)). A key with pk2 == P1 (that is, sk1*sk2 == 1)
// is rejected outright.
func Verify(ctx *bg.BG, pk1, pk2 kyber.Point, m []byte, s kyber.Point) bool {
	if pk2.Equal(ctx.P1) {
		return false
	}
	h := hashToG2(ctx, m)
	left := ctx.Suite.Pair(pk1, s)
	right := ctx.Suite.Pair(pk2, h)
	return left.Equal(right)
}

// RandomizeG2 rescales a G2 signature by scalar r, used by IUT's Sanitize
// to keep an unchanged block's signature tied to a freshly randomized key.
func RandomizeG2(ctx *bg.BG, s kyber.Point, r kyber.Scalar) kyber.Point {
	return ctx.Suite.G2().Point().Mul(r, s)
}

// RandomizeG1 rescales a G1 point by scalar r.
func RandomizeG1(ctx *bg.BG, p kyber.Point, r kyber.Scalar) kyber.Point {
	return ctx.Suite.G1().Point().Mul(r, p)
}

func hashToG2(ctx *bg.BG, m []byte) kyber.Point {
	hp := ctx.Suite.G2().Point().(hashablePoint)
	return hp.Hash(m)
}
