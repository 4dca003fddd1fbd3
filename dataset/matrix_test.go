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

func TestEncode(t *testing.T) {
	table := NewTable([]Pair{
		{ProductID: 10, CombinedID: 20},
		{ProductID: 10, CombinedID: 30},
		{ProductID: 11, CombinedID: 20},
		{ProductID: 12, CombinedID: 40},
	})
	m := table.Encode()
	assert.Equal(t, 3, m.CountRows())
	assert.Equal(t, 3, m.CountCols())
	assert.Equal(t, 4, m.CountPairs())
	// keys are assigned in order of first sight
	assert.Equal(t, int32(0), m.GetRowDict().Id(10))
	assert.Equal(t, int32(2), m.GetRowDict().Id(12))
	assert.Equal(t, int32(0), m.GetColDict().Id(20))
	assert.Equal(t, NotId, m.GetColDict().Id(99))
	// encoded pairs
	rowKey, colKey := m.GetPair(2)
	assert.Equal(t, int32(1), rowKey)
	assert.Equal(t, int32(0), colKey)
	// adjacency
	assert.Equal(t, []int32{0, 1}, m.GetRowFeedback()[0])
	assert.Equal(t, []int32{0, 1}, m.GetColFeedback()[0])
	assert.Equal(t, []int32{2}, m.GetRowFeedback()[2])
}
