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

// Package iut implements the BLS/mercurial-signature k-sanitizable
// signature construction: every block carries its own ephemeral BLS
// keypair, the vectors of those keys are bound together under the
// signer's long-term mercurial (EQS) key, and a sanitizer holding the
// Paillier-encrypted BLS share for an admissible block can both rewrite
// that block and re-randomize every other block's key material so the
// result is unlinkable from a fresh signature.
package iut

import (
	"math/big"

	"github.com/be-ys/ksan/blocks/bg"
	"github.com/be-ys/ksan/blocks/eqs"
	"github.com/be-ys/ksan/blocks/pke"
	"github.com/be-ys/ksan/blocks/vrs"
	"github.com/drand/kyber"
)

// SecParams collects the bit-lengths and block-count bound needed to
// instantiate an IUT public-parameter set.
type SecParams struct {
	BitsVRS int
	BitsPKE int
	N       uint32
	DST     []byte
}

// PublicParams bundles the bilinear-group context used by BLS/EQS with the
// Schnorr group used by VRS.
type PublicParams struct {
	Sec SecParams
	BG  *bg.BG
	P   *big.Int
	Q   *big.Int
	G   *big.Int
}

// SignerPublicKey is the signer's long-term identity: an EQS public key
// binding every block's ephemeral BLS keys together, and a VRS ring key.
type SignerPublicKey struct {
	PKEQS *eqs.PublicKey
	PKP   *big.Int
}

// SignerSecretKey is the signer's long-term trapdoor.
type SignerSecretKey struct {
	SKEQS *eqs.SecretKey
	SKP   *big.Int
}

// SanitizerPublicKey is one sanitizer's identity: a Paillier encryption key
// (so the signer can hand it encrypted BLS shares) and a VRS ring key.
type SanitizerPublicKey struct {
	PKE *pke.PublicKey
	PKP *big.Int
}

// SanitizerSecretKey is one sanitizer's trapdoor.
type SanitizerSecretKey struct {
	SKE *pke.SecretKey
	SKP *big.Int
}

// Mod is a single requested block modification: replace block I with
// content M.
type Mod struct {
	I int
	M string
}

// SignatureSS is the signer/sanitizer-shared signature state: the two EQS
// signatures binding the pk1 and pk2 vectors, the per-block BLS
// signatures, the BLS key vectors themselves, and, per sanitizer, one
// Paillier ciphertext per block carrying that sanitizer's BLS share (zero
// if the sanitizer is not admissible for that block).
type SignatureSS struct {
	SXEQS   *eqs.Signature
	SYEQS   *eqs.Signature
	SBLS    []kyber.Point
	PK1BLS  []kyber.Point
	PK2BLS  []kyber.Point
	Secrets [][]*big.Int
}

// Signature is the full IUT outer signature: the shared signature state
// plus the ring signature identifying who produced it.
type Signature struct {
	SS   SignatureSS
	SVRS *vrs.Signature
}

// Proof is what Prove produces for IUT: a VRS proof over the signature's
// transcript.
type Proof struct {
	PR *vrs.Proof
}
