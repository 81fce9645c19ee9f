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

// Package sig is the outer signer's signature on the canonical message
// digest: a BIP-340 Schnorr signature over secp256k1. The scheme's message
// space is 32 bytes, so arbitrary-length inputs are first folded through
// SHA-256.
package sig

import (
	"crypto/rand"
	"crypto/sha256"

	"gitlab.com/yawning/secp256k1-voi/secec"
)

// SignatureSize is the byte length of every Sign output.
const SignatureSize = secec.SchnorrSignatureSize

// PublicKey is the 32-byte x-only encoding of a Schnorr public key.
type PublicKey = []byte

// KeyGen draws a fresh secp256k1 keypair and returns the signing key
// together with its Schnorr public key encoding.
func KeyGen() (*secec.PrivateKey, PublicKey, error) {
	sk, err := secec.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return sk, sk.SchnorrPublicKey().Bytes(), nil
}

// Sign signs message m under sk, returning the 64-byte BIP-340 signature.
func Sign(sk *secec.PrivateKey, m []byte) ([]byte, error) {
	digest := sha256.Sum256(m)
	return sk.SignSchnorr(rand.Reader, digest[:])
}

// Verify checks signature s of message m against public key pk.
func Verify(pk PublicKey, m []byte, s []byte) bool {
	spk, err := secec.NewSchnorrPublicKey(pk)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(m)
	return spk.Verify(digest[:], s)
}
