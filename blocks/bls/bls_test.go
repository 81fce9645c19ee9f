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

package bls_test

import (
	"testing"

	"github.com/be-ys/ksan/blocks/bg"
	"github.com/be-ys/ksan/blocks/bls"
	"github.com/stretchr/testify/assert"
)

func TestBLS_SignVerify(t *testing.T) {
	ctx := bg.Setup(4, []byte("ksan-test-dst"))
	_, sk2, pk1, pk2 := bls.KeyGen(ctx)

	m := []byte("sanitize me")
	s := bls.Sign(ctx, sk2, m)

	assert.True(t, bls.Verify(ctx, pk1, pk2, m, s))
	assert.False(t, bls.Verify(ctx, pk1, pk2, []byte("other"), s))
}

// TestBLS_Rerandomization mirrors the asymmetric rerandomization the IUT
// sanitize operation applies to an unchanged block: pk1 is rescaled by r
// alone (the EQS change-of-representation factor shared by the whole
// signer aggregate), while pk2 and the signature are rescaled together by
// r*s and s respectively (s is the per-sanitize, per-run scalar). Scaling
// pk1 and pk2 by the same factor, as one might naively expect, does NOT
// preserve verification: this test documents the correct combination.
func TestBLS_Rerandomization(t *testing.T) {
	ctx := bg.Setup(4, []byte("ksan-test-dst"))
	_, sk2, pk1, pk2 := bls.KeyGen(ctx)

	m := []byte("unchanged block")
	s := bls.Sign(ctx, sk2, m)

	r := ctx.RandomScalar()
	rnd := ctx.RandomScalar()
	rs := ctx.Suite.G1().Scalar().Mul(r, rnd)

	pk1r := bls.RandomizeG1(ctx, pk1, r)
	pk2r := bls.RandomizeG1(ctx, pk2, rs)
	sr := bls.RandomizeG2(ctx, s, rnd)

	assert.True(t, bls.Verify(ctx, pk1r, pk2r, m, sr))
}
