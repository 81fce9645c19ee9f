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

// Package vrs implements a verifiable ring signature over a safe-prime
// Schnorr group: any ring member can Sign anonymously on the ring's behalf,
// but a claimed signer can later Prove authorship, and a judge can then
// settle a dispute between two conflicting claims with Judge. Both k-SAN
// constructions use this as the sanitizer-identifying building block: the
// ring is every sanitizer's public key (FSV), or every sanitizer's public
// key plus the signer's (IUT).
//
// All group arithmetic in this package is carried out modulo q, the
// subgroup order, not modulo p: this mirrors the one-time-pad-like
// structure of the non-interactive OR-proof below, where q also bounds the
// exponents. See leProve for the OR-proof construction itself.
package vrs

import (
	"math/big"
	"strconv"

	"github.com/be-ys/ksan/internal"
	"github.com/be-ys/ksan/internal/keygen"
	"github.com/be-ys/ksan/ksan/hash"
	"github.com/be-ys/ksan/sample"
)

// PublicParams is the shared Schnorr group: p = 2q+1 prime, g generates the
// order-q subgroup of quadratic residues mod p.
type PublicParams struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// logEqElement is one ring member's view of the discrete-log-equality
// statement being proven: "h^sk mod q == z, given pk = g^sk mod q".
type logEqElement struct {
	h, z, g, y *big.Int
}

// logEqProof is one ring member's leg of the non-interactive OR-proof.
type logEqProof struct {
	r, s, c, l *big.Int
}

// Signature is a ring signature: the chameleon randomness r used to derive
// the per-message base h, the signer's commitment z = h^sk, and one
// OR-proof leg per ring member.
type Signature struct {
	R *big.Int
	Z *big.Int
	P []logEqProof
}

// Proof is what Prove produces and Judge consumes: a singleton-ring
// discrete-log-equality proof binding the claimed signer's own key to z.
type Proof struct {
	Z *big.Int
	P []logEqProof
}

// Setup generates a fresh Schnorr group of the requested modulus bit length.
func Setup(bits int) (*PublicParams, error) {
	p, q, g, err := keygen.GetSchnorrGroup(bits)
	if err != nil {
		return nil, err
	}
	return &PublicParams{P: p, Q: q, G: g}, nil
}

// KeyGen draws a ring member's key pair. Note the idiosyncrasy inherited
// from the reference construction: pk = g^sk mod q, reduced modulo the
// subgroup order q rather than modulo p.
func KeyGen(pp *PublicParams) (sk, pk *big.Int, err error) {
	sampler := sample.NewUniformRange(big.NewInt(1), pp.Q)
	sk, err = sampler.Sample()
	if err != nil {
		return nil, nil, err
	}
	pk = new(big.Int).Exp(pp.G, sk, pp.Q)
	return sk, pk, nil
}

// Sign produces a ring signature of message m under sk, where pk = g^sk mod
// q must appear somewhere in ring.
func Sign(pp *PublicParams, sk *big.Int, ring []*big.Int, m string) (*Signature, error) {
	if err := validateRing(pp, ring); err != nil {
		return nil, err
	}

	sampler := sample.NewUniformRange(big.NewInt(1), pp.Q)
	r, err := sampler.Sample()
	if err != nil {
		return nil, err
	}

	h := vrsHash(pp.P, pp.Q, m+r.Text(36))
	z := new(big.Int).Exp(h, sk, pp.Q)
	pk := new(big.Int).Exp(pp.G, sk, pp.Q)

	j := -1
	for i, y := range ring {
		if y.Cmp(pk) == 0 {
			j = i
			break
		}
	}
	if j == -1 {
		return nil, internal.ErrMalformedSignature
	}

	d := make([]logEqElement, len(ring))
	for i, y := range ring {
		d[i] = logEqElement{h: h, z: z, g: pp.G, y: y}
	}

	proof, err := leProve(pp.Q, d, sk, j)
	if err != nil {
		return nil, err
	}

	return &Signature{R: r, Z: z, P: proof}, nil
}

// Verify checks ring signature s of message m against ring.
func Verify(pp *PublicParams, ring []*big.Int, m string, s *Signature) bool {
	if validateRing(pp, ring) != nil {
		return false
	}

	h := vrsHash(pp.P, pp.Q, m+s.R.Text(36))

	d := make([]logEqElement, len(ring))
	for i, y := range ring {
		d[i] = logEqElement{h: h, z: s.Z, g: pp.G, y: y}
	}

	return leVerif(pp.Q, d, s.P)
}

// Prove lets the claimed signer (pk, sk) demonstrate authorship of
// signature s over message m, without revealing sk to the judge.
func Prove(pp *PublicParams, m string, s *Signature, pk, sk *big.Int) (*Proof, error) {
	h := vrsHash(pp.P, pp.Q, m+s.R.Text(36))
	z := new(big.Int).Exp(h, sk, pp.Q)

	d := []logEqElement{{h: h, z: z, g: pp.G, y: pk}}
	proof, err := leProve(pp.Q, d, sk, 0)
	if err != nil {
		return nil, err
	}

	return &Proof{Z: z, P: proof}, nil
}

// Judge settles a signer-authorship dispute: it returns an error if the
// proof itself is malformed, otherwise true iff pk is the signer's key.
func Judge(pp *PublicParams, m string, s *Signature, pk *big.Int, pr *Proof) (bool, error) {
	if err := validateRing(pp, []*big.Int{pk}); err != nil {
		return false, err
	}

	h := vrsHash(pp.P, pp.Q, m+s.R.Text(36))

	d := []logEqElement{{h: h, z: pr.Z, g: pp.G, y: pk}}
	if !leVerif(pp.Q, d, pr.P) {
		return false, internal.ErrMalformedSignature
	}

	return pr.Z.Cmp(s.Z) == 0, nil
}

// leProve builds the non-interactive OR-proof that the signer at index j
// knows sk such that g^sk == d[j].y and h^sk == d[j].z, while every other
// index's branch is simulated: its (c, l) pair is drawn uniformly and (r,
// s) derived backwards from the verification equations, which is
// indistinguishable from an honest transcript. The honest branch's
// challenge c_j is then fixed by Fiat-Shamir so that the product of all
// challenges equals the hash of every (r, s) pair, and l_j = w + c_j*sk is
// left as an integer (not reduced mod q), matching the reference
// construction.
func leProve(q *big.Int, d []logEqElement, sk *big.Int, j int) ([]logEqProof, error) {
	sampler := sample.NewUniformRange(big.NewInt(1), q)

	w, err := sampler.Sample()
	if err != nil {
		return nil, err
	}

	pr := make([]logEqProof, len(d))
	cProd := big.NewInt(1)

	for i, v := range d {
		if i == j {
			r := new(big.Int).Exp(v.g, w, q)
			s := new(big.Int).Exp(v.h, w, q)
			pr[i] = logEqProof{r: r, s: s, c: big.NewInt(0), l: big.NewInt(0)}
			continue
		}

		c, err := sampler.Sample()
		if err != nil {
			return nil, err
		}
		l, err := sampler.Sample()
		if err != nil {
			return nil, err
		}

		yc := new(big.Int).Exp(v.y, c, q)
		ycInv := new(big.Int).ModInverse(yc, q)
		r := new(big.Int).Exp(v.g, l, q)
		r.Mul(r, ycInv)
		r.Mod(r, q)

		zc := new(big.Int).Exp(v.z, c, q)
		zcInv := new(big.Int).ModInverse(zc, q)
		s := new(big.Int).Exp(v.h, l, q)
		s.Mul(s, zcInv)
		s.Mod(s, q)

		pr[i] = logEqProof{r: r, s: s, c: c, l: l}
		cProd.Mul(cProd, c)
		cProd.Mod(cProd, q)
	}

	c := leHash(pr)
	cProdInv := new(big.Int).ModInverse(cProd, q)
	cj := new(big.Int).Mul(c, cProdInv)
	cj.Mod(cj, q)

	lj := new(big.Int).Mul(cj, sk)
	lj.Add(lj, w)

	pr[j].c = cj
	pr[j].l = lj

	return pr, nil
}

// leVerif checks every ring member's OR-proof leg against the public
// verification equations and that the Fiat-Shamir challenge recomputes.
func leVerif(q *big.Int, d []logEqElement, pr []logEqProof) bool {
	if len(d) != len(pr) {
		return false
	}

	cProd := big.NewInt(1)
	for i := range pr {
		gl := new(big.Int).Exp(d[i].g, pr[i].l, q)
		ryc := new(big.Int).Exp(d[i].y, pr[i].c, q)
		ryc.Mul(ryc, pr[i].r)
		ryc.Mod(ryc, q)
		if gl.Cmp(ryc) != 0 {
			return false
		}

		hl := new(big.Int).Exp(d[i].h, pr[i].l, q)
		szc := new(big.Int).Exp(d[i].z, pr[i].c, q)
		szc.Mul(szc, pr[i].s)
		szc.Mod(szc, q)
		if hl.Cmp(szc) != 0 {
			return false
		}

		cProd.Mul(cProd, pr[i].c)
		cProd.Mod(cProd, q)
	}

	c := new(big.Int).Mod(leHash(pr), q)
	return cProd.Cmp(c) == 0
}

// leHash is the Fiat-Shamir challenge binding every (r, s) commitment pair.
func leHash(pr []logEqProof) *big.Int {
	m := ""
	for _, v := range pr {
		m += v.r.String() + v.s.String()
	}
	return hash.Hash(m)
}

// validateRing rejects any ring member outside [0, q), the range every
// honestly-generated pk = g^sk mod q is confined to. A ring member received
// from a peer outside this range is not an element of the expected subgroup
// and must never reach the OR-proof arithmetic below.
func validateRing(pp *PublicParams, ring []*big.Int) error {
	for _, y := range ring {
		if y.Sign() < 0 || y.Cmp(pp.Q) >= 0 {
			return internal.ErrSubgroupMembership
		}
	}
	return nil
}

// vrsHash hashes m onto the order-q subgroup by rejection sampling: it
// prefixes m with an incrementing counter until SHA-256(counter||m),
// interpreted as an integer mod p, lands in the subgroup of order q.
func vrsHash(p, q *big.Int, m string) *big.Int {
	one := big.NewInt(1)
	for c := 0; ; c++ {
		candidate := strconv.Itoa(c) + m
		h := hash.Hash(candidate)
		if new(big.Int).Exp(h, q, p).Cmp(one) == 0 {
			return h
		}
	}
}
