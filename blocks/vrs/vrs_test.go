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

package vrs_test

import (
	"math/big"
	"testing"

	"github.com/be-ys/ksan/blocks/vrs"
	"github.com/be-ys/ksan/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVRS_SignVerify(t *testing.T) {
	pp, err := vrs.Setup(256)
	require.NoError(t, err)

	sk1, pk1, err := vrs.KeyGen(pp)
	require.NoError(t, err)
	_, pk2, err := vrs.KeyGen(pp)
	require.NoError(t, err)
	_, pk3, err := vrs.KeyGen(pp)
	require.NoError(t, err)

	ring := []*big.Int{pk1, pk2, pk3}

	s, err := vrs.Sign(pp, sk1, ring, "message")
	require.NoError(t, err)

	assert.True(t, vrs.Verify(pp, ring, "message", s))
	assert.False(t, vrs.Verify(pp, ring, "tampered", s))
}

func TestVRS_ProveJudge(t *testing.T) {
	pp, err := vrs.Setup(256)
	require.NoError(t, err)

	sk1, pk1, err := vrs.KeyGen(pp)
	require.NoError(t, err)
	sk2, pk2, err := vrs.KeyGen(pp)
	require.NoError(t, err)

	ring := []*big.Int{pk1, pk2}
	s, err := vrs.Sign(pp, sk1, ring, "message")
	require.NoError(t, err)

	proof, err := vrs.Prove(pp, "message", s, pk1, sk1)
	require.NoError(t, err)
	ok, err := vrs.Judge(pp, "message", s, pk1, proof)
	require.NoError(t, err)
	assert.True(t, ok)

	falseProof, err := vrs.Prove(pp, "message", s, pk2, sk2)
	require.NoError(t, err)
	ok, err = vrs.Judge(pp, "message", s, pk2, falseProof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVRS_SignerNotInRing(t *testing.T) {
	pp, err := vrs.Setup(256)
	require.NoError(t, err)

	sk1, _, err := vrs.KeyGen(pp)
	require.NoError(t, err)
	_, pk2, err := vrs.KeyGen(pp)
	require.NoError(t, err)

	_, err = vrs.Sign(pp, sk1, []*big.Int{pk2}, "message")
	assert.Error(t, err)
}

// TestVRS_RingMemberOutOfSubgroup checks that a ring containing a value
// outside [0, q) - not an element of the expected subgroup - is rejected by
// Sign, Verify, and Judge rather than silently fed into the OR-proof math.
func TestVRS_RingMemberOutOfSubgroup(t *testing.T) {
	pp, err := vrs.Setup(256)
	require.NoError(t, err)

	sk1, pk1, err := vrs.KeyGen(pp)
	require.NoError(t, err)
	_, pk2, err := vrs.KeyGen(pp)
	require.NoError(t, err)

	outOfRange := new(big.Int).Add(pp.Q, big.NewInt(1))
	ring := []*big.Int{pk1, pk2, outOfRange}

	_, err = vrs.Sign(pp, sk1, ring, "message")
	assert.ErrorIs(t, err, internal.ErrSubgroupMembership)

	okRing := []*big.Int{pk1, pk2}
	s, err := vrs.Sign(pp, sk1, okRing, "message")
	require.NoError(t, err)

	assert.False(t, vrs.Verify(pp, ring, "message", s))

	_, err = vrs.Judge(pp, "message", s, outOfRange, &vrs.Proof{})
	assert.ErrorIs(t, err, internal.ErrSubgroupMembership)
}
