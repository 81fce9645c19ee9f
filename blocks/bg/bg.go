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

// Package bg holds the bilinear-group context shared by the BLS and EQS
// blocks in the IUT construction: the BLS12-381 pairing suite, the two
// fixed generators P1 in G1 and P2 in G2, a block-count bound, a
// hash-to-curve domain-separation tag, and the single mutable randomness
// source every BLS and EQS operation draws from.
package bg

import (
	"crypto/cipher"

	"github.com/drand/kyber"
	bls "github.com/drand/kyber-bls12381"
	"github.com/drand/kyber/pairing"
)

// BG is the bilinear-group context threaded through every BLS and EQS
// operation. It is not safe for concurrent use: its RNG is a single
// stateful cipher.Stream, and callers that need per-block parallelism
// should each hold their own BG rather than share one across goroutines.
type BG struct {
	Suite pairing.Suite
	P1    kyber.Point // fixed generator of G1
	P2    kyber.Point // fixed generator of G2
	N     uint32      // block-count bound
	DST   []byte      // hash-to-curve domain-separation tag

	rng cipher.Stream
}

// Setup constructs a fresh bilinear-group context for up to n message
// blocks, using dst as the hash-to-curve domain-separation tag. dst is
// suffixed separately for G1 and G2 so the two hash-to-curve maps never
// collide, and passed into the suite itself: only a suite built with
// NewBLS12381SuiteWithDST actually consults it when hashing onto the curve.
func Setup(n uint32, dst []byte) *BG {
	dstG1 := append(append([]byte(nil), dst...), "-G1"...)
	dstG2 := append(append([]byte(nil), dst...), "-G2"...)
	suite := bls.NewBLS12381SuiteWithDST(dstG1, dstG2)

	return &BG{
		Suite: suite,
		P1:    suite.G1().Point().Base(),
		P2:    suite.G2().Point().Base(),
		N:     n,
		DST:   append([]byte(nil), dst...),
		rng:   suite.RandomStream(),
	}
}

// RandomScalar draws a uniformly random scalar from the pairing group's
// scalar field using the context's randomness source.
func (bg *BG) RandomScalar() kyber.Scalar {
	return bg.Suite.G1().Scalar().Pick(bg.rng)
}

// RandomStream exposes the context's underlying cipher.Stream, for the rare
// caller that needs to Pick a raw kyber value directly.
func (bg *BG) RandomStream() cipher.Stream {
	return bg.rng
}
