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
	"github.com/juju/errors"

	"github.com/combine-io/combine/base/heap"
	"github.com/combine-io/combine/common/parallel"
	"github.com/combine-io/combine/dataset"
)

// ErrUnseenKey reports a query identifier absent from the training-derived
// key space.
var ErrUnseenKey = errors.New("identifier not seen in training")

// Recommendation is one ranked candidate.
type Recommendation struct {
	ProductID int32
	Score     float32
}

// Recommender serves predictions from a fitted model. The model is read-only
// here, so one Recommender is safe for concurrent use.
type Recommender struct {
	model MatrixFactorization
	jobs  int
}

func NewRecommender(m MatrixFactorization) *Recommender {
	return &Recommender{model: m, jobs: 1}
}

func (r *Recommender) SetJobs(jobs int) *Recommender {
	if jobs > 0 {
		r.jobs = jobs
	}
	return r
}

// Score returns the compatibility score of two raw product identifiers.
// Identifiers unseen in training fail with ErrUnseenKey.
func (r *Recommender) Score(productId, combinedId int32) (float32, error) {
	rowKey := r.model.GetRowDict().Id(productId)
	if rowKey == dataset.NotId {
		return 0, errors.Annotatef(ErrUnseenKey, "product %d", productId)
	}
	colKey := r.model.GetColDict().Id(combinedId)
	if colKey == dataset.NotId {
		return 0, errors.Annotatef(ErrUnseenKey, "combined product %d", combinedId)
	}
	return r.model.internalPredict(rowKey, colKey), nil
}

// TopK ranks candidates against a fixed product and returns up to k results
// ordered by descending score, ties broken by ascending candidate id.
// Candidates unseen in training are skipped; an unseen fixed product fails
// with ErrUnseenKey. Candidate scoring runs in parallel, the result is
// deterministic.
func (r *Recommender) TopK(productId int32, candidates []int32, k int) ([]Recommendation, error) {
	rowKey := r.model.GetRowDict().Id(productId)
	if rowKey == dataset.NotId {
		return nil, errors.Annotatef(ErrUnseenKey, "product %d", productId)
	}
	scores := make([]float32, len(candidates))
	colKeys := make([]int32, len(candidates))
	parallel.For(len(candidates), r.jobs, func(i int) {
		colKeys[i] = r.model.GetColDict().Id(candidates[i])
		if colKeys[i] != dataset.NotId {
			scores[i] = r.model.internalPredict(rowKey, colKeys[i])
		}
	})
	pq := heap.NewPriorityQueue(true)
	for i := range candidates {
		if colKeys[i] != dataset.NotId {
			pq.Push(candidates[i], scores[i])
		}
	}
	if k > pq.Len() {
		k = pq.Len()
	}
	recommendations := make([]Recommendation, 0, k)
	for len(recommendations) < k {
		id, score := pq.Pop()
		recommendations = append(recommendations, Recommendation{ProductID: id, Score: score})
	}
	return recommendations, nil
}
