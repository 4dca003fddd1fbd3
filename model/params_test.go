// Copyright 2025 combine Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	p := Params{
		NFactors:    16,
		Lr:          0.01,
		Alpha:       float32(0.01),
		RandomState: int64(42),
	}
	assert.Equal(t, 16, p.GetInt(NFactors, 0))
	assert.Equal(t, 10, p.GetInt(NEpochs, 10))
	assert.Equal(t, float32(0.01), p.GetFloat32(Lr, 0))
	assert.Equal(t, float32(0.01), p.GetFloat32(Alpha, 0))
	assert.Equal(t, float32(0.025), p.GetFloat32(Lambda, 0.025))
	assert.Equal(t, int64(42), p.GetInt64(RandomState, 0))
	// int converts to int64 and float32
	q := Params{RandomState: 7, NFactors: 8}
	assert.Equal(t, int64(7), q.GetInt64(RandomState, 0))
	assert.Equal(t, float32(8), q.GetFloat32(NFactors, 0))
	// type mismatch falls back to the default
	assert.Equal(t, 3, Params{NFactors: "sixteen"}.GetInt(NFactors, 3))
}

func TestParamsCopyOverwrite(t *testing.T) {
	p := Params{NFactors: 8, NEpochs: 10}
	c := p.Copy()
	c[NFactors] = 16
	assert.Equal(t, 8, p.GetInt(NFactors, 0))
	merged := p.Overwrite(Params{NEpochs: 20, Lr: 0.1})
	assert.Equal(t, 8, merged.GetInt(NFactors, 0))
	assert.Equal(t, 20, merged.GetInt(NEpochs, 0))
	assert.Equal(t, float32(0.1), merged.GetFloat32(Lr, 0))
}
