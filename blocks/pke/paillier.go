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

// Package pke implements the classic Paillier public-key encryption scheme.
// Its additive homomorphism is exposed here as scalar Multiply, which is
// what the sanitizable-signature constructions use to
// let a sanitizer rewrite a committed block without learning its secret
// share.
package pke

import (
	"crypto/rand"
	"math/big"

	"github.com/be-ys/ksan/internal/keygen"
	"github.com/pkg/errors"
)

// PublicKey holds the Paillier modulus N and its square N^2, precomputed
// since every Encrypt and Multiply call needs it.
type PublicKey struct {
	N  *big.Int
	NN *big.Int
}

// SecretKey holds the Paillier trapdoor: Lambda = lcm(p-1, q-1) and its
// modular inverse under L(g^Lambda mod N^2), the classic (Lambda, Mu) pair.
type SecretKey struct {
	Lambda *big.Int
	Mu     *big.Int
}

// GenerateKeys runs Paillier key generation over two independently sampled
// safe primes of bits/2 bits each, so that the modulus N has the requested
// bit length, matching the
// "keypair_safe_primes_with_modulus_size" construction used by the reference
// implementation: N is guaranteed hard to factor via both p-1 and q-1
// methods since (p-1)/2 and (q-1)/2 are themselves prime.
func GenerateKeys(bits int) (*PublicKey, *SecretKey, error) {
	if bits < 16 {
		return nil, nil, errors.New("modulus length too small")
	}

	p, err := keygen.GetSafePrime(bits / 2)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate first safe prime")
	}
	q, err := keygen.GetSafePrime(bits / 2)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate second safe prime")
	}
	for q.Cmp(p) == 0 {
		q, err = keygen.GetSafePrime(bits / 2)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to generate second safe prime")
		}
	}

	one := big.NewInt(1)
	n := new(big.Int).Mul(p, q)
	nn := new(big.Int).Mul(n, n)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	lambda := new(big.Int).Mul(pMinus1, qMinus1)
	lambda.Div(lambda, new(big.Int).GCD(nil, nil, pMinus1, qMinus1))

	// g = N+1, the standard simplified generator; L(g^Lambda mod N^2) = Lambda,
	// so Mu is simply Lambda's inverse mod N.
	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, nil, errors.New("failed to invert lambda mod n")
	}

	return &PublicKey{N: n, NN: nn}, &SecretKey{Lambda: lambda, Mu: mu}, nil
}

// Encrypt computes a fresh Paillier ciphertext of m under pk, drawing its
// own random blinding factor.
func Encrypt(pk *PublicKey, m *big.Int) (*big.Int, error) {
	r, err := rand.Int(rand.Reader, pk.N)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sample blinding factor")
	}
	for r.Sign() == 0 {
		r, err = rand.Int(rand.Reader, pk.N)
		if err != nil {
			return nil, errors.Wrap(err, "failed to sample blinding factor")
		}
	}

	n1 := new(big.Int).Add(pk.N, big.NewInt(1))
	gm := new(big.Int).Exp(n1, m, pk.NN)
	rn := new(big.Int).Exp(r, pk.N, pk.NN)

	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pk.NN)

	return c, nil
}

// Decrypt recovers the plaintext underlying ciphertext c.
func Decrypt(pk *PublicKey, sk *SecretKey, c *big.Int) *big.Int {
	u := new(big.Int).Exp(c, sk.Lambda, pk.NN)
	l := lFunction(u, pk.N)
	m := new(big.Int).Mul(l, sk.Mu)
	m.Mod(m, pk.N)
	return m
}

// Multiply homomorphically scales the plaintext underlying c by s, without
// decrypting: Dec(Multiply(pk, c, s)) == s * Dec(c) mod N.
func Multiply(pk *PublicKey, c *big.Int, s *big.Int) *big.Int {
	sMod := new(big.Int).Mod(s, pk.N)
	cp := new(big.Int).Exp(c, sMod, pk.NN)
	return cp
}

// lFunction computes L(x) = (x-1)/n, the standard Paillier decryption
// helper.
func lFunction(x, n *big.Int) *big.Int {
	l := new(big.Int).Sub(x, big.NewInt(1))
	l.Div(l, n)
	return l
}
