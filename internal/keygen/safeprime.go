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

// Package keygen holds key-material generation helpers reused across the
// blocks that need a safe-prime modulus: CHash and VRS share a Schnorr
// group of order q with p = 2q+1 prime, and PKE needs a safe-prime factor
// for its Paillier modulus.
package keygen

import (
	"crypto/rand"
	"math/big"
)

// GetSafePrime returns a random prime p of the requested bit length such
// that q = (p-1)/2 is also prime. It draws candidates with crypto/rand and
// checks both p and q with Miller-Rabin via big.Int.ProbablyPrime, retrying
// until a safe prime is found.
func GetSafePrime(bitLen int) (*big.Int, error) {
	one := big.NewInt(1)
	two := big.NewInt(2)

	for {
		q, err := rand.Prime(rand.Reader, bitLen-1)
		if err != nil {
			return nil, err
		}

		p := new(big.Int).Mul(q, two)
		p.Add(p, one)

		if p.ProbablyPrime(20) {
			return p, nil
		}
	}
}

// GetSchnorrGroup returns a safe-prime modulus p of the requested bit
// length together with a generator g of the order-q subgroup of quadratic
// residues mod p, where q = (p-1)/2.
func GetSchnorrGroup(bitLen int) (p, q, g *big.Int, err error) {
	p, err = GetSafePrime(bitLen)
	if err != nil {
		return nil, nil, nil, err
	}

	one := big.NewInt(1)
	two := big.NewInt(2)
	q = new(big.Int).Sub(p, one)
	q.Div(q, two)
	pMinusOne := new(big.Int).Sub(p, one)

	for {
		h, err := rand.Int(rand.Reader, pMinusOne)
		if err != nil {
			return nil, nil, nil, err
		}
		h.Add(h, two)
		if h.Cmp(pMinusOne) >= 0 {
			continue
		}

		g = new(big.Int).Exp(h, two, p)
		if g.Cmp(one) == 0 || g.Cmp(pMinusOne) == 0 {
			continue
		}
		if new(big.Int).Exp(g, q, p).Cmp(one) != 0 {
			continue
		}

		return p, q, g, nil
	}
}
