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

package fsv

import (
	"math/big"
	"strconv"

	"github.com/be-ys/ksan/blocks/chash"
	"github.com/be-ys/ksan/blocks/pke"
	"github.com/be-ys/ksan/blocks/sig"
	"github.com/be-ys/ksan/blocks/vrs"
	"github.com/be-ys/ksan/internal"
	"github.com/be-ys/ksan/ksan/hash"
	"github.com/pkg/errors"
)

// minModulus bounds the chameleon-hash/VRS group from below, mirroring the
// floor IUT applies to its own VRS modulus.
var minModulus = new(big.Int).Lsh(big.NewInt(1), 256)

// Setup builds a fresh PublicParams shared by the chameleon hash and the VRS
// ring signature.
func Setup(sec SecParams) (*PublicParams, error) {
	var p, q, g *big.Int
	for {
		pp, err := chash.Setup(sec.BitsCHashVRS)
		if err != nil {
			return nil, errors.Wrap(err, "failed to set up chameleon-hash/VRS group")
		}
		if pp.Q.Cmp(minModulus) > 0 {
			p, q, g = pp.P, pp.Q, pp.G
			break
		}
	}
	return &PublicParams{Sec: sec, P: p, Q: q, G: g}, nil
}

// KeyGenSigner draws a signer's long-term Schnorr key pair.
func KeyGenSigner(pp *PublicParams) (*SignerSecretKey, *SignerPublicKey, error) {
	sk, pk, err := sig.KeyGen()
	if err != nil {
		return nil, nil, err
	}
	return &SignerSecretKey{SK: sk}, &SignerPublicKey{PK: pk}, nil
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

// Sign produces a fresh FSV signature over m, admissible per
// adm[sanitizer][block].
//
// Sign always records a signer-produced Schnorr proof (Proofs[j].PS) for
// every block and never populates Proofs[j].PZ, regardless of whether the
// block has an admissible sanitizer. Verify, in turn, requires PZ - not PS -
// for any block where PubAdm[j] is true. The consequence is deliberate and
// inherited unchanged: a freshly signed signature is not yet verifiable for
// any block that has at least one admissible sanitizer, until a sanitizer
// has sanitized that block at least once and so produced its VRS proof.
// Callers must treat a fresh, un-sanitized signature as provisional for
// those blocks.
func Sign(pp *PublicParams, skS *SignerSecretKey, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, adm [][]bool) (*Signature, error) {
	n := len(m)
	k := len(sanPKs)
	if len(adm) != k {
		return nil, internal.ErrLengthMismatch
	}
	for _, row := range adm {
		if len(row) != n {
			return nil, internal.ErrLengthMismatch
		}
	}

	chashPP := &chash.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}

	hashes := make([]CHashPubValues, n)
	pubAdm := make([]bool, n)
	secrets := make([][]*big.Int, k)
	for i := range secrets {
		secrets[i] = make([]*big.Int, n)
	}

	for j := 0; j < n; j++ {
		skch, pkch, err := chash.KeyGen(chashPP)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate chameleon-hash key pair")
		}
		h, r, err := chash.Hash(chashPP, pkch, hash.Hash(strconv.Itoa(j)+m[j]))
		if err != nil {
			return nil, errors.Wrap(err, "failed to commit block")
		}
		hashes[j] = CHashPubValues{H: h, R: r, PKCH: pkch}

		for i := 0; i < k; i++ {
			var c *big.Int
			var err error
			if adm[i][j] {
				c, err = pke.Encrypt(sanPKs[i].PKE, skch)
				pubAdm[j] = true
			} else {
				c, err = pke.Encrypt(sanPKs[i].PKE, big.NewInt(0))
			}
			if err != nil {
				return nil, errors.Wrap(err, "failed to encrypt chameleon trapdoor share")
			}
			secrets[i][j] = c
		}
	}

	ms := generateMs(pkS, sanPKs, hashes, pubAdm, secrets, n)
	s, err := sig.Sign(skS.SK, []byte(ms))
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transcript")
	}

	proofs := make([]Proof, n)
	for j := 0; j < n; j++ {
		t := strconv.Itoa(j) + m[j] + hash.Encode(s)
		ps, err := sig.Sign(skS.SK, []byte(t))
		if err != nil {
			return nil, errors.Wrap(err, "failed to sign block proof")
		}
		proofs[j] = Proof{PS: ps, PZ: nil}
	}

	return &Signature{S: s, Hashes: hashes, Secrets: secrets, PubAdm: pubAdm, N: n, Proofs: proofs}, nil
}

// Sanitize rewrites the blocks named in modif, provided sanitizer skZ/pkZ is
// admissible for each of them. Every rewritten block's chameleon hash is
// adapted to open to its new content, and its proof becomes a VRS ring
// signature identifying the sanitizer set rather than the signer's own
// Schnorr signature.
func Sanitize(pp *PublicParams, skZ *SanitizerSecretKey, pkZ *SanitizerPublicKey, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, modif []Mod, s *Signature) (*Signature, error) {
	n := s.N
	if len(m) != n {
		return nil, internal.ErrLengthMismatch
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

	chashPP := &chash.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}
	vrsPP := &vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}
	ring := ringOf(sanPKs)

	hashes := append([]CHashPubValues(nil), s.Hashes...)
	proofs := append([]Proof(nil), s.Proofs...)

	for _, md := range modif {
		j := md.I

		skch := pke.Decrypt(sanPKs[ip].PKE, skZ.SKE, s.Secrets[ip][j])
		if skch.Sign() == 0 {
			return nil, internal.ErrNotAdmissible
		}

		rp := chash.Adapt(chashPP, skch, hash.Hash(strconv.Itoa(j)+m[j]), hashes[j].R, hash.Hash(strconv.Itoa(j)+md.M))
		hashes[j] = CHashPubValues{H: hashes[j].H, R: rp, PKCH: hashes[j].PKCH}

		t := strconv.Itoa(j) + md.M + hash.Encode(s.S)
		pz, err := vrs.Sign(vrsPP, skZ.SKP, ring, t)
		if err != nil {
			return nil, errors.Wrap(err, "failed to sign VRS proof")
		}
		proofs[j] = Proof{PS: nil, PZ: pz}
	}

	return &Signature{S: s.S, Hashes: hashes, Secrets: s.Secrets, PubAdm: s.PubAdm, N: n, Proofs: proofs}, nil
}

// Verify checks every layer of an FSV signature: the outer Schnorr signature
// over the transcript, every block's chameleon-hash opening, and every
// block's proof - a VRS ring signature where PubAdm[j] is true, the signer's
// own Schnorr signature otherwise.
//
// See Sign's doc comment: Verify returns false for any admissible block of a
// signature that has never been sanitized, since Sign never populates that
// block's VRS proof.
func Verify(pp *PublicParams, pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, m []string, s *Signature) bool {
	n := s.N
	if len(m) != n {
		return false
	}
	if len(s.Secrets) != len(sanPKs) {
		return false
	}

	ms := generateMs(pkS, sanPKs, s.Hashes, s.PubAdm, s.Secrets, n)
	if !sig.Verify(pkS.PK, []byte(ms), s.S) {
		return false
	}

	chashPP := &chash.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}
	vrsPP := &vrs.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}
	ring := ringOf(sanPKs)

	for j := 0; j < n; j++ {
		if !chash.Check(chashPP, s.Hashes[j].PKCH, hash.Hash(strconv.Itoa(j)+m[j]), s.Hashes[j].R, s.Hashes[j].H) {
			return false
		}

		t := strconv.Itoa(j) + m[j] + hash.Encode(s.S)
		if s.PubAdm[j] {
			if s.Proofs[j].PZ == nil {
				return false
			}
			if !vrs.Verify(vrsPP, ring, t, s.Proofs[j].PZ) {
				return false
			}
		} else {
			if s.Proofs[j].PS == nil {
				return false
			}
			if !sig.Verify(pkS.PK, []byte(t), s.Proofs[j].PS) {
				return false
			}
		}
	}

	return true
}

// Judge settles a signer/sanitizer authorship question for FSV from public
// admissibility flags alone, unlike IUT's Judge, which verifies a
// cryptographic accountability proof. FSV's per-block proof already is
// either the signer's own signature or a sanitizer's VRS ring signature, so
// once a block has been sanitized its PubAdm flag alone settles the
// question; Judge exposes that lookup directly. A nil j asks about the
// signature as a whole: 'Z' if any block is sanitizer-admissible, 'S' if
// none are. A non-nil j restricts the question to that one block.
func Judge(s *Signature, j *int) byte {
	if j == nil {
		for _, adm := range s.PubAdm {
			if adm {
				return 'Z'
			}
		}
		return 'S'
	}
	if s.PubAdm[*j] {
		return 'Z'
	}
	return 'S'
}

func ringOf(sanPKs []*SanitizerPublicKey) []*big.Int {
	ring := make([]*big.Int, 0, len(sanPKs))
	for _, san := range sanPKs {
		ring = append(ring, san.PKP)
	}
	return ring
}

// generateMs builds the canonical transcript string the outer Schnorr
// signature binds every block to: each block's chameleon-hash digest and
// public key, its admissibility flag, and, per sanitizer, that sanitizer's
// ring key, Paillier modulus, and encrypted trapdoor share for the block.
func generateMs(pkS *SignerPublicKey, sanPKs []*SanitizerPublicKey, hashes []CHashPubValues, pubAdm []bool, secrets [][]*big.Int, n int) string {
	ms := ""
	for j := 0; j < n; j++ {
		ms += hashes[j].H.Text(36) + hashes[j].PKCH.Text(36)
		if pubAdm[j] {
			ms += "1"
		} else {
			ms += "0"
		}
		for i := range sanPKs {
			ms += sanPKs[i].PKP.Text(36) + sanPKs[i].PKE.N.Text(36) + sanPKs[i].PKE.NN.Text(36) + secrets[i][j].Text(36)
		}
	}
	ms += hash.Encode(pkS.PK) + strconv.Itoa(n)
	return ms
}
