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

package bg_test

import (
	"testing"

	"github.com/be-ys/ksan/blocks/bg"
	"github.com/stretchr/testify/assert"
)

func TestBG_Setup(t *testing.T) {
	ctx := bg.Setup(5, []byte("ksan-bg-test-dst"))

	assert.NotNil(t, ctx.P1)
	assert.NotNil(t, ctx.P2)
	assert.Equal(t, uint32(5), ctx.N)
	assert.Equal(t, []byte("ksan-bg-test-dst"), ctx.DST)

	g1 := ctx.Suite.G1()
	base := g1.Point().Base()
	assert.True(t, ctx.P1.Equal(base))
}

func TestBG_RandomScalar(t *testing.T) {
	ctx := bg.Setup(2, []byte("ksan-bg-test-dst"))

	a := ctx.RandomScalar()
	b := ctx.RandomScalar()

	assert.False(t, a.Equal(b))
}
