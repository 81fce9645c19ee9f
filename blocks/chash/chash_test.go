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

package chash_test

import (
	"math/big"
	"testing"

	"github.com/be-ys/ksan/blocks/chash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCHash_HashAndCheck(t *testing.T) {
	pp, err := chash.Setup(256)
	require.NoError(t, err)

	_, pk, err := chash.KeyGen(pp)
	require.NoError(t, err)

	m := big.NewInt(1234)
	h, r, err := chash.Hash(pp, pk, m)
	require.NoError(t, err)

	assert.True(t, chash.Check(pp, pk, m, r, h))
	assert.False(t, chash.Check(pp, pk, big.NewInt(5), r, h))
}

func TestCHash_Adapt(t *testing.T) {
	pp, err := chash.Setup(256)
	require.NoError(t, err)

	sk, pk, err := chash.KeyGen(pp)
	require.NoError(t, err)

	m := big.NewInt(1234)
	h, r, err := chash.Hash(pp, pk, m)
	require.NoError(t, err)

	mp := big.NewInt(5678)
	rp := chash.Adapt(pp, sk, m, r, mp)

	assert.True(t, chash.Check(pp, pk, mp, rp, h))
}
