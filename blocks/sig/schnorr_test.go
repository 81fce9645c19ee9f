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

package sig_test

import (
	"testing"

	"github.com/be-ys/ksan/blocks/sig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchnorr_SignVerify(t *testing.T) {
	sk, pk, err := sig.KeyGen()
	require.NoError(t, err)

	m := []byte("hello k-san")
	s, err := sig.Sign(sk, m)
	require.NoError(t, err)
	assert.Len(t, s, sig.SignatureSize)

	assert.True(t, sig.Verify(pk, m, s))
	assert.False(t, sig.Verify(pk, []byte("tampered"), s))
}
