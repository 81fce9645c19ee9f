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

// Package fsv implements the chameleon-hash k-sanitizable signature
// construction: the signer commits to every block with a per-block
// chameleon hash, signs the whole transcript once with a Schnorr key, and
// hands each admissible sanitizer the corresponding chameleon trapdoor
// (Paillier-encrypted). A sanitizer who rewrites a block adapts its
// chameleon hash to match and proves its authorship via a VRS ring
// signature over the sanitizer set; unmodified blocks keep the signer's
// original per-block Schnorr proof.
package fsv

import (
	"math/big"

	"github.com/be-ys/ksan/blocks/pke"
	"github.com/be-ys/ksan/blocks/vrs"
	"gitlab.com/yawning/secp256k1-voi/secec"
)

// SecParams collects the bit-lengths needed to instantiate an FSV
// public-parameter set.
type SecParams struct {
	BitsCHashVRS int
	BitsPKE      int
}

// PublicParams is the shared chameleon-hash / VRS Schnorr group.
type PublicParams struct {
	Sec SecParams
	P   *big.Int
	Q   *big.Int
	G   *big.Int
}

// SignerPublicKey is the signer's long-term Schnorr key.
type SignerPublicKey struct {
	PK []byte
}

// SignerSecretKey is the signer's long-term Schnorr trapdoor.
type SignerSecretKey struct {
	SK *secec.PrivateKey
}

// SanitizerPublicKey is one sanitizer's identity: a Paillier encryption key
// and a VRS ring key.
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

// CHashPubValues is one block's public chameleon-hash state.
type CHashPubValues struct {
	H    *big.Int
	R    *big.Int
	PKCH *big.Int
}

// Proof is one block's per-block proof: either the signer's own Schnorr
// signature over the block's transcript (for never-sanitized blocks), or a
// sanitizer's VRS ring signature (once the block has been rewritten). The
// two are mutually exclusive, matching which of pub_adm's two branches
// Verify takes for that block.
type Proof struct {
	PS []byte
	PZ *vrs.Signature
}

// Signature is the full FSV outer signature.
type Signature struct {
	S       []byte
	Hashes  []CHashPubValues
	Secrets [][]*big.Int
	PubAdm  []bool
	N       int
	Proofs  []Proof
}
