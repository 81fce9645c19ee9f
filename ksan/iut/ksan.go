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

package iut

import (
	"math/big"
	"strconv"

	"github.com/be-ys/ksan/blocks/bg"
	"github.com/be-ys/ksan/blocks/bls"
	"github.com/be-ys/ksan/blocks/eqs"
	"github.com/be-ys/ksan/blocks/pke"
	"github.com/be-ys/ksan/blocks/vrs"
	"github.com/be-ys/ksan/internal"
	"github.com/be-ys/ksan/ksan/hash"
	"github.com/drand/kyber"
	"github.com/pkg/errors"
)

// minVRSModulus bounds the VRS group from below so the judge-accountability
// transcript hash has enough room to avoid collisions across rings; the
// reference construction retries VRS.Setup until its modulus clears this
// floor.
var minVRSModulus = new(big.Int).Lsh(big.NewInt(1), 256)

// Setup builds a fresh PublicParams for sec.N content blocks: the
// bilinear-group context holds sec.N+1 slots, the extra one reserved
// internally for the sanitizer-set binding block.
func Setup(sec SecParams) (*PublicParams, error) {
	ctx := bg.Setup(sec.N+1, sec.DST)

	var p, q, g *big.Int
	for {
		pp, err := vrs.Setup(sec.BitsVRS)
		if err != nil {
			return nil, errors.Wrap(err, "failed to set up VRS group")
		}
		if pp.P.Cmp(minVRSModulus) > 0 {
			p, q, g = pp.P, pp.Q, pp.G
			break
		}
	}

	return &PublicParams{Sec: sec, BG: ctx, P: p, Q: q, G: g}, nil
}

// KeyGenSigner draws a signer's long-term EQS and VRS key pair.
func KeyGenSigner(pp *PublicParams) (*SignerSecretKey, *SignerPublicKey, error) {
	skEQS, pkEQS := eqs.KeyGen(pp.BG, int(pp.BG.N))
	skp, pkp, err := vrs.KeyGen(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G})
	if err != nil {
		return nil, nil, err
	}
	return &SignerSecretKey{SKEQS: skEQS, SKP: skp}, &SignerPublicKey{PKEQS: pkEQS, PKP: pkp}, nil
}

// KeyGenSanitizer draws a sanitizer's Paillier and VRS key pair.
func KeyGenSanitizer(pp *PublicParams) (*SanitizerSecretKey, *SanitizerPublicKey, error) {
	pkE, skE, err := pke.GenerateKeys(pp.Sec.BitsPKE)
	if err != nil {
		return nil, nil, err
	}
	skp, pkp, err := vrs.KeyGen(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G})
	if err != nil {
		return nil, nil, err
	}
	return &SanitizerSecretKey{SKE: skE, SKP: skp}, &SanitizerPublicKey{PKE: pkE, PKP: pkp}, nil
}

// Sign produces a fresh IUT signature over the n-1 content blocks in m,
// admissible per adm[sanitizer][block].
func Sign(pp *PublicParams, skS *SignerSecretKey, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, adm [][]bool) (*Signature, error) {
	k := len(sanPKs)
	n := int(pp.BG.N)
	if len(m) != n-1 {
		return nil, internal.ErrLengthMismatch
	}

	mFull := append(append([]string(nil), m...), pkzToString(sanPKs))
	admFull := make([][]bool, k)
	for i := range adm {
		admFull[i] = append(append([]bool(nil), adm[i]...), false)
	}

	secrets := make([][]*big.Int, k)
	for i := range secrets {
		secrets[i] = make([]*big.Int, n)
	}

	pk1BLS := make([]kyber.Point, n)
	pk2BLS := make([]kyber.Point, n)
	sBLS := make([]kyber.Point, n)

	for j := 0; j < n; j++ {
		_, sk2, pk1, pk2 := bls.KeyGen(pp.BG)
		pk1BLS[j] = pk1
		pk2BLS[j] = pk2

		mj := strconv.Itoa(j) + mFull[j]
		sBLS[j] = bls.Sign(pp.BG, sk2, []byte(mj))

		sk2Int := scalarToBigInt(sk2)
		for i := 0; i < k; i++ {
			var c *big.Int
			var err error
			if admFull[i][j] {
				c, err = pke.Encrypt(sanPKs[i].PKE, sk2Int)
			} else {
				c, err = pke.Encrypt(sanPKs[i].PKE, big.NewInt(0))
			}
			if err != nil {
				return nil, errors.Wrap(err, "failed to encrypt BLS share")
			}
			secrets[i][j] = c
		}
	}

	sXEQS, err := eqs.Sign(pp.BG, skS.SKEQS, pk1BLS)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign pk1 vector")
	}
	sYEQS, err := eqs.Sign(pp.BG, skS.SKEQS, pk2BLS)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign pk2 vector")
	}

	ss := SignatureSS{
		SXEQS:   sXEQS,
		SYEQS:   sYEQS,
		SBLS:    sBLS,
		PK1BLS:  pk1BLS,
		PK2BLS:  pk2BLS,
		Secrets: secrets,
	}

	t := generateT(pkS, mFull, &ss)
	ring := ringOf(sanPKs, pkS.PKP)
	sVRS, err := vrs.Sign(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}, skS.SKP, ring, t)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign VRS transcript")
	}

	return &Signature{SS: ss, SVRS: sVRS}, nil
}

// Sanitize rewrites the blocks named in modif, provided sanitizer skZ/pkZ is
// admissible for each of them, and re-randomizes every block's key material
// so the result is indistinguishable from a fresh Sign.
func Sanitize(pp *PublicParams, skZ *SanitizerSecretKey, pkS *SignerPublicKey, pkZ *SanitizerPublicKey, sanPKs []*SanitizerPublicKey, m []string, modif []Mod, sig *Signature) (*Signature, error) {
	n := int(pp.BG.N)
	k := len(sanPKs)

	mFull := append(append([]string(nil), m...), pkzToString(sanPKs))
	mp := append([]string(nil), mFull...)
	for _, md := range modif {
		mp[md.I] = md.M
	}

	ip := -1
	for i, san := range sanPKs {
		if san.PKP.Cmp(pkZ.PKP) == 0 {
			ip = i
			break
		}
	}
	if ip == -1 {
		return nil, internal.ErrNotAdmissible
	}

	r := pp.BG.RandomScalar()
	s := pp.BG.RandomScalar()
	rs := pp.BG.Suite.G1().Scalar().Mul(r, s)

	pk1BLS, sXEQS := eqs.ChgRep(pp.BG, sig.SS.PK1BLS, sig.SS.SXEQS, r)
	pk2BLS, sYEQS := eqs.ChgRep(pp.BG, sig.SS.PK2BLS, sig.SS.SYEQS, rs)

	sBLS := make([]kyber.Point, n)
	secrets := make([][]*big.Int, k)
	for i := range secrets {
		secrets[i] = make([]*big.Int, n)
	}

	for j := 0; j < n; j++ {
		if mp[j] != mFull[j] {
			y := pke.Decrypt(sanPKs[ip].PKE, skZ.SKE, sig.SS.Secrets[ip][j])
			if y.Sign() == 0 {
				return nil, internal.ErrNotAdmissible
			}
			ySk := bigIntToScalar(pp.BG, y)
			newSk2 := pp.BG.Suite.G1().Scalar().Mul(ySk, s)
			mj := strconv.Itoa(j) + mp[j]
			sBLS[j] = bls.Sign(pp.BG, newSk2, []byte(mj))
		} else {
			sBLS[j] = bls.RandomizeG2(pp.BG, sig.SS.SBLS[j], s)
		}

		for i := 0; i < k; i++ {
			secrets[i][j] = pke.Multiply(sanPKs[i].PKE, sig.SS.Secrets[i][j], scalarToBigInt(s))
		}
	}

	ss := SignatureSS{
		SXEQS:   sXEQS,
		SYEQS:   sYEQS,
		SBLS:    sBLS,
		PK1BLS:  pk1BLS,
		PK2BLS:  pk2BLS,
		Secrets: secrets,
	}

	t := generateT(pkS, mp, &ss)
	ring := ringOf(sanPKs, pkS.PKP)
	sVRS, err := vrs.Sign(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}, skZ.SKP, ring, t)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign VRS transcript")
	}

	return &Signature{SS: ss, SVRS: sVRS}, nil
}

// Verify checks every layer of an IUT signature: the VRS ring signature
// over the transcript, both EQS signatures over the BLS key vectors, and
// every per-block BLS signature.
func Verify(pp *PublicParams, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, sig *Signature) bool {
	n := int(pp.BG.N)
	if len(m) != n-1 {
		return false
	}

	mFull := append(append([]string(nil), m...), pkzToString(sanPKs))
	t := generateT(pkS, mFull, &sig.SS)
	ring := ringOf(sanPKs, pkS.PKP)

	if !vrs.Verify(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}, ring, t, sig.SVRS) {
		return false
	}
	if !eqs.Verify(pp.BG, pkS.PKEQS, sig.SS.PK1BLS, sig.SS.SXEQS) {
		return false
	}
	if !eqs.Verify(pp.BG, pkS.PKEQS, sig.SS.PK2BLS, sig.SS.SYEQS) {
		return false
	}

	for j := 0; j < n; j++ {
		mj := strconv.Itoa(j) + mFull[j]
		if !bls.Verify(pp.BG, sig.SS.PK1BLS[j], sig.SS.PK2BLS[j], []byte(mj), sig.SS.SBLS[j]) {
			return false
		}
	}

	return true
}

// Prove lets the signer demonstrate authorship of sig over m.
func Prove(pp *PublicParams, skS *SignerSecretKey, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, sig *Signature) (*Proof, error) {
	mFull := append(append([]string(nil), m...), pkzToString(sanPKs))
	t := generateT(pkS, mFull, &sig.SS)

	pr, err := vrs.Prove(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}, t, sig.SVRS, pkS.PKP, skS.SKP)
	if err != nil {
		return nil, err
	}
	return &Proof{PR: pr}, nil
}

// Judge settles a signer-authorship dispute over sig, returning 'S' if the
// signer produced it, 'Z' if a sanitizer did, and 'E' if the proof itself
// does not verify.
func Judge(pp *PublicParams, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, sig *Signature, p *Proof) (byte, error) {
	mFull := append(append([]string(nil), m...), pkzToString(sanPKs))
	t := generateT(pkS, mFull, &sig.SS)

	ok, err := vrs.Judge(&vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}, t, sig.SVRS, pkS.PKP, p.PR)
	if err != nil {
		return 'E', nil
	}
	if ok {
		return 'S', nil
	}
	return 'Z', nil
}

func ringOf(sanPKs []*SanitizerPublicKey, signerPKP *big.Int) []*big.Int {
	ring := make([]*big.Int, 0, len(sanPKs)+1)
	for _, san := range sanPKs {
		ring = append(ring, san.PKP)
	}
	ring = append(ring, signerPKP)
	return ring
}

// generateT builds the canonical transcript string the VRS ring signature
// binds every other part of the signature to: the signer's VRS key, every
// content block, the base-36 text of every per-sanitizer ciphertext, and a
// base64 encoding of every EQS/BLS point.
func generateT(pkS *SignerPublicKey, m []string, ss *SignatureSS) string {
	t := pkS.PKP.Text(36)
	for _, mj := range m {
		t += mj
	}

	var bytes []byte
	bytes = appendPointBytes(bytes, ss.SXEQS.Z, ss.SXEQS.Y, ss.SXEQS.Ytilde)
	bytes = appendPointBytes(bytes, ss.SYEQS.Z, ss.SYEQS.Y, ss.SYEQS.Ytilde)

	for j := range ss.PK1BLS {
		bytes = appendPointBytes(bytes, ss.PK1BLS[j], ss.PK2BLS[j], ss.SBLS[j])
		for i := range ss.Secrets {
			t += ss.Secrets[i][j].Text(36)
		}
	}

	t += hash.Encode(bytes)
	return t
}

func appendPointBytes(buf []byte, points ...kyber.Point) []byte {
	for _, p := range points {
		b, err := p.MarshalBinary()
		if err == nil {
			buf = append(buf, b...)
		}
	}
	return buf
}

func pkzToString(sanPKs []*SanitizerPublicKey) string {
	s := ""
	for _, san := range sanPKs {
		s += san.PKP.Text(36) + san.PKE.N.Text(36) + san.PKE.NN.Text(36)
	}
	return s
}

func scalarToBigInt(s kyber.Scalar) *big.Int {
	b, _ := s.MarshalBinary()
	return new(big.Int).SetBytes(b)
}

func bigIntToScalar(ctx *bg.BG, i *big.Int) kyber.Scalar {
	return ctx.Suite.G1().Scalar().SetBytes(i.Bytes())
}
