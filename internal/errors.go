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

// Package internal holds sentinel errors and key-generation helpers shared
// by every block and construction but not meant to be imported outside this
// module.
package internal

import "errors"

var malformedStr = "is not of the proper form"

// ErrMalformedSignature is returned when a ring signature cannot be formed
// or an accountability proof does not hold: a VRS signer whose key is not
// in the ring, or a VRS Judge proof that fails verification.
var ErrMalformedSignature = errors.New("signature " + malformedStr)

// ErrNotAdmissible is returned by Sanitize when the sanitizer asks to modify a
// block that ADM marks as fixed.
var ErrNotAdmissible = errors.New("sanitizer is not admissible for the requested block modification")

// ErrLengthMismatch is returned when two vectors that must have matching
// length (message blocks vs. admissible matrix rows, message vector vs. EQS
// key, ...) do not.
var ErrLengthMismatch = errors.New("input lengths do not match")

// ErrSubgroupMembership is returned when a value received from a peer is not
// an element of the expected subgroup.
var ErrSubgroupMembership = errors.New("value is not a member of the expected subgroup")
