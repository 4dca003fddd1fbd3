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

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combine-io/combine/dataset"
)

func TestScorers(t *testing.T) {
	predictions := []float32{1, 2, 3}
	labels := []float32{1, 4, 1}
	assert.Equal(t, float32(8.0/3.0), MSE(predictions, labels))
	assert.Equal(t, math32.Sqrt(8.0/3.0), RMSE(predictions, labels))
	assert.Equal(t, float32(4.0/3.0), MAE(predictions, labels))
	// perfect predictions
	assert.Equal(t, float32(0), MSE(predictions, predictions))
	assert.Equal(t, float32(0), MAE(predictions, predictions))
}

func TestEvaluateRegressionLabel(t *testing.T) {
	// a model predicting a constant zero scores the raw combined id as label
	mf := constantModel()
	metrics := EvaluateRegression(mf, dataset.NewTable([]dataset.Pair{
		{ProductID: 1, CombinedID: 2},
		{ProductID: 2, CombinedID: 4},
	}))
	assert.Equal(t, float32(10), metrics.MSE) // (2^2 + 4^2) / 2
	assert.Equal(t, float32(3), metrics.MAE)  // (2 + 4) / 2
	assert.Equal(t, math32.Sqrt(10), metrics.RMSE)
}

func TestEvaluateRegressionUnseen(t *testing.T) {
	train, _ := toyTable().Split(0.2, 42)
	mf := newToyModel()
	require.NoError(t, mf.Fit(context.Background(), train.Encode(), NewFitConfig()))
	// identifiers unseen in training contribute a sentinel prediction of 0
	metrics := EvaluateRegression(mf, dataset.NewTable([]dataset.Pair{
		{ProductID: 999999, CombinedID: 3},
	}))
	assert.Equal(t, float32(3), metrics.RMSE)
	assert.Equal(t, float32(3), metrics.MAE)
	assert.Equal(t, float32(9), metrics.MSE)
}

func TestEvaluateRegressionEmpty(t *testing.T) {
	metrics := EvaluateRegression(constantModel(), dataset.NewTable(nil))
	assert.Zero(t, metrics)
}

// constantModel builds a model over identifiers {1..5} whose factors and
// biases are all zero, so every prediction is 0.
func constantModel() *OneClassMF {
	trainSet := dataset.NewTable([]dataset.Pair{
		{ProductID: 1, CombinedID: 1},
		{ProductID: 2, CombinedID: 2},
		{ProductID: 3, CombinedID: 3},
		{ProductID: 4, CombinedID: 4},
		{ProductID: 5, CombinedID: 5},
	}).Encode()
	mf := NewOneClassMF(Params{NFactors: 2, InitStdDev: float32(0)})
	mf.Init(trainSet)
	return mf
}
