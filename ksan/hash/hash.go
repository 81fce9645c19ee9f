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

// Package hash holds the canonical digest and encoding helpers shared by
// both k-SAN constructions when they build the transcript string that the
// outer signature binds every block to (FSV's "ms" under SIG, IUT's "t"
// under VRS).
package hash

import (
	"crypto/sha256"
	"encoding/base64"
	"math/big"
)

// Hash returns SHA-256(m) interpreted as a non-negative big integer, the
// digest primitive every block in this module treats as a random oracle.
func Hash(m string) *big.Int {
	sum := sha256.Sum256([]byte(m))
	return new(big.Int).SetBytes(sum[:])
}

// Encode returns the standard base64 encoding of b, used to fold a public
// key's raw byte encoding into a transcript string.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
