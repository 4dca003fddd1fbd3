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
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommenderScore(t *testing.T) {
	train, _ := toyTable().Split(0.2, 42)
	mf := newToyModel()
	require.NoError(t, mf.Fit(context.Background(), train.Encode(), NewFitConfig()))
	recommender := NewRecommender(mf)
	score, err := recommender.Score(1, 2)
	require.NoError(t, err)
	assert.Equal(t, mf.Predict(1, 2), score)
	// scoring is idempotent
	again, err := recommender.Score(1, 2)
	require.NoError(t, err)
	assert.Equal(t, score, again)
}

func TestRecommenderScoreUnseen(t *testing.T) {
	train, _ := toyTable().Split(0.2, 42)
	mf := newToyModel()
	require.NoError(t, mf.Fit(context.Background(), train.Encode(), NewFitConfig()))
	recommender := NewRecommender(mf)
	_, err := recommender.Score(999999, 2)
	assert.True(t, errors.Is(err, ErrUnseenKey))
	_, err = recommender.Score(1, 999999)
	assert.True(t, errors.Is(err, ErrUnseenKey))
}

func TestRecommenderTopK(t *testing.T) {
	train, _ := toyTable().Split(0.2, 42)
	mf := newToyModel()
	require.NoError(t, mf.Fit(context.Background(), train.Encode(), NewFitConfig()))
	recommender := NewRecommender(mf)
	recommendations, err := recommender.TopK(1, []int32{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, recommendations, 3)
	// scores are non-increasing
	for i := 1; i < len(recommendations); i++ {
		assert.GreaterOrEqual(t, recommendations[i-1].Score, recommendations[i].Score)
	}
	// parallel scoring yields the identical ranking
	parallelRecommendations, err := recommender.SetJobs(4).TopK(1, []int32{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, recommendations, parallelRecommendations)
}

func TestRecommenderTopKTieBreak(t *testing.T) {
	// all-zero factors score every candidate equally, so ranking falls back
	// to ascending candidate id
	recommender := NewRecommender(constantModel())
	recommendations, err := recommender.TopK(1, []int32{5, 3, 1, 2, 4}, 3)
	require.NoError(t, err)
	require.Len(t, recommendations, 3)
	assert.Equal(t, int32(1), recommendations[0].ProductID)
	assert.Equal(t, int32(2), recommendations[1].ProductID)
	assert.Equal(t, int32(3), recommendations[2].ProductID)
}

func TestRecommenderTopKSkipsUnseen(t *testing.T) {
	recommender := NewRecommender(constantModel())
	recommendations, err := recommender.TopK(1, []int32{1, 2, 999999}, 5)
	require.NoError(t, err)
	assert.Len(t, recommendations, 2)
}

func TestRecommenderTopKUnseenProduct(t *testing.T) {
	recommender := NewRecommender(constantModel())
	_, err := recommender.TopK(999999, []int32{1, 2, 3}, 3)
	assert.True(t, errors.Is(err, ErrUnseenKey))
}
