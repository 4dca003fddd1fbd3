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

// Matrix is the encoded view of a training table: raw identifiers replaced by
// dense keys, plus adjacency lists over both key spaces. Dictionaries are
// built from the encoded table only, so identifiers first seen elsewhere map
// to NotId.
type Matrix struct {
	rowDict     *Dict
	colDict     *Dict
	rows        []int32
	cols        []int32
	rowFeedback [][]int32
	colFeedback [][]int32
}

// Encode builds the dense representation of the table.
func (t *Table) Encode() *Matrix {
	m := &Matrix{
		rowDict: NewDict(),
		colDict: NewDict(),
		rows:    make([]int32, 0, len(t.pairs)),
		cols:    make([]int32, 0, len(t.pairs)),
	}
	for _, pair := range t.pairs {
		m.rows = append(m.rows, m.rowDict.Add(pair.ProductID))
		m.cols = append(m.cols, m.colDict.Add(pair.CombinedID))
	}
	m.rowFeedback = make([][]int32, m.rowDict.Count())
	m.colFeedback = make([][]int32, m.colDict.Count())
	for i := range m.rows {
		m.rowFeedback[m.rows[i]] = append(m.rowFeedback[m.rows[i]], m.cols[i])
		m.colFeedback[m.cols[i]] = append(m.colFeedback[m.cols[i]], m.rows[i])
	}
	return m
}

// CountRows returns the size of the row key space.
func (m *Matrix) CountRows() int {
	return int(m.rowDict.Count())
}

// CountCols returns the size of the column key space.
func (m *Matrix) CountCols() int {
	return int(m.colDict.Count())
}

// CountPairs returns the number of encoded observations.
func (m *Matrix) CountPairs() int {
	return len(m.rows)
}

// GetPair returns the i-th encoded observation.
func (m *Matrix) GetPair(i int) (rowKey, colKey int32) {
	return m.rows[i], m.cols[i]
}

func (m *Matrix) GetRowDict() *Dict {
	return m.rowDict
}

func (m *Matrix) GetColDict() *Dict {
	return m.colDict
}

// GetRowFeedback returns, per row key, the column keys observed with it.
func (m *Matrix) GetRowFeedback() [][]int32 {
	return m.rowFeedback
}

// GetColFeedback returns, per column key, the row keys observed with it.
func (m *Matrix) GetColFeedback() [][]int32 {
	return m.colFeedback
}
