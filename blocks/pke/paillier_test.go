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

package pke_test

import (
	"math/big"
	"testing"

	"github.com/be-ys/ksan/blocks/pke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaillier_EncryptDecrypt(t *testing.T) {
	pk, sk, err := pke.GenerateKeys(256)
	require.NoError(t, err)

	m := big.NewInt(424242)
	c, err := pke.Encrypt(pk, m)
	require.NoError(t, err)

	got := pke.Decrypt(pk, sk, c)
	assert.Equal(t, 0, m.Cmp(got))
}

func TestPaillier_Multiply(t *testing.T) {
	pk, sk, err := pke.GenerateKeys(256)
	require.NoError(t, err)

	m := big.NewInt(17)
	s := big.NewInt(5)
	c, err := pke.Encrypt(pk, m)
	require.NoError(t, err)

	cp := pke.Multiply(pk, c, s)
	got := pke.Decrypt(pk, sk, cp)

	want := new(big.Int).Mod(new(big.Int).Mul(m, s), pk.N)
	assert.Equal(t, 0, want.Cmp(got))
}
