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

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDict(t *testing.T) {
	d := NewDict()
	assert.Equal(t, int32(0), d.Add(100))
	assert.Equal(t, int32(1), d.Add(200))
	assert.Equal(t, int32(2), d.Add(300))
	// re-adding must return the same key
	assert.Equal(t, int32(1), d.Add(200))
	assert.Equal(t, int32(3), d.Count())
	// lookup
	assert.Equal(t, int32(0), d.Id(100))
	assert.Equal(t, int32(2), d.Id(300))
	assert.Equal(t, NotId, d.Id(999999))
	// reverse lookup
	v, ok := d.Value(1)
	assert.True(t, ok)
	assert.Equal(t, int32(200), v)
	_, ok = d.Value(3)
	assert.False(t, ok)
	_, ok = d.Value(-1)
	assert.False(t, ok)
	assert.Equal(t, []int32{100, 200, 300}, d.Values())
}

func TestDictInjective(t *testing.T) {
	d := NewDict()
	values := []int32{5, 3, 5, 8, 3, 13, 21, 8}
	for _, v := range values {
		d.Add(v)
	}
	seen := make(map[int32]int32)
	for _, v := range values {
		key := d.Id(v)
		assert.GreaterOrEqual(t, key, int32(0))
		assert.Less(t, key, d.Count())
		if prev, ok := seen[v]; ok {
			assert.Equal(t, prev, key)
		}
		seen[v] = key
	}
	// distinct values map to distinct keys
	keys := make(map[int32]bool)
	for v := range seen {
		keys[d.Id(v)] = true
	}
	assert.Equal(t, len(seen), len(keys))
}
