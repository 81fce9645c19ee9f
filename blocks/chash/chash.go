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

// Package chash implements a discrete-log chameleon hash over a safe-prime
// Schnorr group: the trapdoor holder can Adapt a commitment (h, r) to open
// to any message m' of their choosing, without changing h. FSV uses this to
// let the sanitizer change a block's content while preserving the outer
// signature over the block's chameleon-hash digest.
package chash

import (
	"math/big"

	"github.com/be-ys/ksan/internal/keygen"
	"github.com/be-ys/ksan/sample"
)

// PublicParams is the shared Schnorr group: p = 2q+1 prime, g generates the
// order-q subgroup of quadratic residues mod p.
type PublicParams struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// Setup generates a fresh Schnorr group of the requested modulus bit length.
func Setup(bits int) (*PublicParams, error) {
	p, q, g, err := keygen.GetSchnorrGroup(bits)
	if err != nil {
		return nil, err
	}
	return &PublicParams{P: p, Q: q, G: g}, nil
}

// KeyGen draws a trapdoor key pair (sk, pk = g^sk mod p).
func KeyGen(pp *PublicParams) (sk, pk *big.Int, err error) {
	sampler := sample.NewUniformRange(big.NewInt(1), pp.Q)
	sk, err = sampler.Sample()
	if err != nil {
		return nil, nil, err
	}
	pk = new(big.Int).Exp(pp.G, sk, pp.P)
	return sk, pk, nil
}

// Hash commits to message m under public key pk, returning the digest h
// and the randomness r used to form it.
func Hash(pp *PublicParams, pk, m *big.Int) (h, r *big.Int, err error) {
	sampler := sample.NewUniformRange(big.NewInt(1), pp.Q)
	r, err = sampler.Sample()
	if err != nil {
		return nil, nil, err
	}

	gm := new(big.Int).Exp(pp.G, m, pp.P)
	pkr := new(big.Int).Exp(pk, r, pp.P)
	h = new(big.Int).Mul(gm, pkr)
	h.Mod(h, pp.P)

	return h, r, nil
}

// Check verifies that (r, h) is a valid opening of message m under pk.
func Check(pp *PublicParams, pk, m, r, h *big.Int) bool {
	gm := new(big.Int).Exp(pp.G, m, pp.P)
	pkr := new(big.Int).Exp(pk, r, pp.P)
	hp := new(big.Int).Mul(gm, pkr)
	hp.Mod(hp, pp.P)

	return hp.Cmp(h) == 0
}

// Adapt uses trapdoor sk to find randomness r' that opens the existing
// digest h to a new message m', given the original opening (m, r).
func Adapt(pp *PublicParams, sk, m, r, mp *big.Int) *big.Int {
	diff := new(big.Int).Sub(m, mp)
	diff.Add(diff, pp.Q)
	diff.Mod(diff, pp.Q)

	skr := new(big.Int).Mul(sk, r)
	skr.Mod(skr, pp.Q)

	lhs := new(big.Int).Add(diff, skr)
	lhs.Mod(lhs, pp.Q)

	skInv := new(big.Int).ModInverse(sk, pp.Q)
	rp := new(big.Int).Mul(lhs, skInv)
	rp.Mod(rp, pp.Q)

	return rp
}
