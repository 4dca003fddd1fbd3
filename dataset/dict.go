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

// NotId marks identifiers absent from a dictionary.
const NotId = int32(-1)

// Dict maps raw product identifiers to a dense key space {0 .. K-1}. The
// mapping is injective over observed values and stable once built.
type Dict struct {
	ki map[int32]int32
	ik []int32
}

func NewDict() *Dict {
	return &Dict{ki: make(map[int32]int32)}
}

// Count returns the number of distinct values observed.
func (d *Dict) Count() int32 {
	return int32(len(d.ik))
}

// Add returns the dense key of v, assigning the next free key on first sight.
func (d *Dict) Add(v int32) int32 {
	if key, ok := d.ki[v]; ok {
		return key
	}
	key := int32(len(d.ik))
	d.ki[v] = key
	d.ik = append(d.ik, v)
	return key
}

// Id returns the dense key of v, or NotId if v was never observed.
func (d *Dict) Id(v int32) int32 {
	if key, ok := d.ki[v]; ok {
		return key
	}
	return NotId
}

// Value returns the raw value behind a dense key.
func (d *Dict) Value(key int32) (int32, bool) {
	if key < 0 || key >= int32(len(d.ik)) {
		return 0, false
	}
	return d.ik[key], true
}

// Values returns raw values in key order.
func (d *Dict) Values() []int32 {
	return d.ik
}
