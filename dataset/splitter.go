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
	"go.uber.org/zap"

	"github.com/combine-io/combine/base"
	"github.com/combine-io/combine/base/log"
)

// Split partitions the table into a training and a test set. Every record is
// assigned to the test set independently with probability testRatio, so
// |test|/N converges to testRatio rather than matching it exactly. The draw
// is deterministic for a fixed seed.
func (t *Table) Split(testRatio float64, seed int64) (train, test *Table) {
	rng := base.NewRandomGenerator(seed)
	train = &Table{pairs: make([]Pair, 0, len(t.pairs))}
	test = &Table{pairs: make([]Pair, 0, int(float64(len(t.pairs))*testRatio))}
	for _, pair := range t.pairs {
		if rng.Float64() < testRatio {
			test.pairs = append(test.pairs, pair)
		} else {
			train.pairs = append(train.pairs, pair)
		}
	}
	log.Logger().Info("split dataset",
		zap.Float64("test_ratio", testRatio),
		zap.Int64("seed", seed),
		zap.Int("train_set_size", train.Count()),
		zap.Int("test_set_size", test.Count()))
	return
}
