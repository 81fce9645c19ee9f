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

package fsv_test

import (
	"testing"

	"github.com/be-ys/ksan/blocks/chash"
	"github.com/be-ys/ksan/ksan/fsv"
	"github.com/be-ys/ksan/ksan/hash"
	"github.com/stretchr/testify/require"
)

func setupScheme(t *testing.T) (*fsv.PublicParams, *fsv.SignerSecretKey, *fsv.SignerPublicKey, []*fsv.SanitizerSecretKey, []*fsv.SanitizerPublicKey) {
	t.Helper()

	pp, err := fsv.Setup(fsv.SecParams{BitsCHashVRS: 512, BitsPKE: 512})
	require.NoError(t, err)

	skS, pkS, err := fsv.KeyGenSigner(pp)
	require.NoError(t, err)

	skZs := make([]*fsv.SanitizerSecretKey, 2)
	pkZs := make([]*fsv.SanitizerPublicKey, 2)
	for i := range skZs {
		skZs[i], pkZs[i], err = fsv.KeyGenSanitizer(pp)
		require.NoError(t, err)
	}

	return pp, skS, pkS, skZs, pkZs
}

// TestFSV_OpenQuestion documents and exercises the known non-obvious
// property of this construction: Sign never populates a block's VRS proof,
// only its own Schnorr proof, so a freshly signed signature is not
// verifiable for any block with an admissible sanitizer until that block
// has actually been sanitized at least once.
func TestFSV_OpenQuestion(t *testing.T) {
	pp, skS, pkS, skZs, pkZs := setupScheme(t)

	m := []string{"block zero", "block one"}
	adm := [][]bool{
		{true, false},
		{false, false},
	}

	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	require.True(t, s.PubAdm[0])
	require.False(t, s.PubAdm[1])

	// Not yet verifiable: block 0 is admissible but has no VRS proof yet.
	require.False(t, fsv.Verify(pp, pkS, pkZs, m, s))

	modif := []fsv.Mod{{I: 0, M: "block zero sanitized"}}
	s2, err := fsv.Sanitize(pp, skZs[0], pkZs[0], pkS, pkZs, m, modif, s)
	require.NoError(t, err)

	m2 := []string{"block zero sanitized", "block one"}
	require.True(t, fsv.Verify(pp, pkS, pkZs, m2, s2))
}

func TestFSV_SignVerify_NoAdmissibleBlocks(t *testing.T) {
	pp, skS, pkS, _, pkZs := setupScheme(t)

	m := []string{"alpha", "beta", "gamma"}
	adm := [][]bool{
		{false, false, false},
		{false, false, false},
	}

	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	require.True(t, fsv.Verify(pp, pkS, pkZs, m, s))
	require.False(t, fsv.Verify(pp, pkS, pkZs, []string{"alpha", "tampered", "gamma"}, s))
}

func TestFSV_SanitizeNotAdmissible(t *testing.T) {
	pp, skS, pkS, skZs, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{
		{true, false},
		{false, false},
	}

	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	modif := []fsv.Mod{{I: 1, M: "beta prime"}}
	_, err = fsv.Sanitize(pp, skZs[0], pkZs[0], pkS, pkZs, m, modif, s)
	require.Error(t, err)
}

func TestFSV_Judge(t *testing.T) {
	pp, skS, pkS, skZs, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{
		{true, false},
		{false, false},
	}

	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	require.Equal(t, byte('Z'), fsv.Judge(s, nil))
	zero := 0
	one := 1
	require.Equal(t, byte('Z'), fsv.Judge(s, &zero))
	require.Equal(t, byte('S'), fsv.Judge(s, &one))

	modif := []fsv.Mod{{I: 0, M: "alpha prime"}}
	s2, err := fsv.Sanitize(pp, skZs[0], pkZs[0], pkS, pkZs, m, modif, s)
	require.NoError(t, err)
	require.Equal(t, byte('S'), fsv.Judge(s2, &one))
}

// TestFSV_TamperSignerPubkey swaps in a fresh signer's public key: the
// outer Schnorr signature no longer matches.
func TestFSV_TamperSignerPubkey(t *testing.T) {
	pp, skS, pkS, _, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{{false, false}, {false, false}}
	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)
	require.True(t, fsv.Verify(pp, pkS, pkZs, m, s))

	_, otherPkS, err := fsv.KeyGenSigner(pp)
	require.NoError(t, err)
	require.False(t, fsv.Verify(pp, otherPkS, pkZs, m, s))
}

// TestFSV_TamperSanitizerPubkey swaps one ring member for a sanitizer that
// never took part in signing: the transcript bound by the outer signature
// changes and Verify must reject it.
func TestFSV_TamperSanitizerPubkey(t *testing.T) {
	pp, skS, pkS, _, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{{false, false}, {false, false}}
	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	_, intruder, err := fsv.KeyGenSanitizer(pp)
	require.NoError(t, err)
	tampered := append([]*fsv.SanitizerPublicKey(nil), pkZs...)
	tampered[0] = intruder
	require.False(t, fsv.Verify(pp, pkS, tampered, m, s))
}

// TestFSV_TamperRing checks both ring extension (an extra sanitizer
// appended that never signed) and ring truncation (a signing sanitizer
// dropped) are each rejected.
func TestFSV_TamperRing(t *testing.T) {
	pp, skS, pkS, _, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{{false, false}, {false, false}}
	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	_, extra, err := fsv.KeyGenSanitizer(pp)
	require.NoError(t, err)
	extended := append(append([]*fsv.SanitizerPublicKey(nil), pkZs...), extra)
	require.False(t, fsv.Verify(pp, pkS, extended, m, s))

	truncated := pkZs[:len(pkZs)-1]
	require.False(t, fsv.Verify(pp, pkS, truncated, m, s))
}

// TestFSV_TamperBlockCount checks both block insertion (an extra message
// block appended) and block deletion (one dropped) are each rejected.
func TestFSV_TamperBlockCount(t *testing.T) {
	pp, skS, pkS, _, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{{false, false}, {false, false}}
	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)

	inserted := append(append([]string(nil), m...), "gamma")
	require.False(t, fsv.Verify(pp, pkS, pkZs, inserted, s))

	deleted := m[:len(m)-1]
	require.False(t, fsv.Verify(pp, pkS, pkZs, deleted, s))
}

// TestFSV_TamperChameleonHashFreshTrapdoor simulates a forger who, lacking
// the real per-block trapdoor, generates their own fresh chameleon-hash key
// pair and recomputes a self-consistent (H, R) opening for a different
// message. The forged opening passes chash.Check on its own terms, but
// PKCH is bound into the outer Schnorr transcript (see generateMs), so
// substituting it invalidates the outer signature.
func TestFSV_TamperChameleonHashFreshTrapdoor(t *testing.T) {
	pp, skS, pkS, _, pkZs := setupScheme(t)

	m := []string{"alpha", "beta"}
	adm := [][]bool{{false, false}, {false, false}}
	s, err := fsv.Sign(pp, skS, pkS, pkZs, m, adm)
	require.NoError(t, err)
	require.True(t, fsv.Verify(pp, pkS, pkZs, m, s))

	chashPP := &chash.PublicParams{P: pp.P, Q: pp.Q, G: pp.G}
	_, forgePK, err := chash.KeyGen(chashPP)
	require.NoError(t, err)
	forgedM := hash.Hash("0" + "forged alpha")
	forgedH, forgedR, err := chash.Hash(chashPP, forgePK, forgedM)
	require.NoError(t, err)
	require.True(t, chash.Check(chashPP, forgePK, forgedM, forgedR, forgedH))

	tampered := append([]fsv.CHashPubValues(nil), s.Hashes...)
	tampered[0] = fsv.CHashPubValues{H: forgedH, R: forgedR, PKCH: forgePK}
	forged := &fsv.Signature{S: s.S, Hashes: tampered, Secrets: s.Secrets, PubAdm: s.PubAdm, N: s.N, Proofs: s.Proofs}

	mForged := []string{"forged alpha", "beta"}
	require.False(t, fsv.Verify(pp, pkS, pkZs, mForged, forged))
}
