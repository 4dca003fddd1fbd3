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
	"github.com/chewxy/math32"

	"github.com/combine-io/combine/dataset"
)

// Metrics are regression errors over a held-out partition.
type Metrics struct {
	RMSE float32 // root mean squared error
	MAE  float32 // mean absolute error, reported as L1
	MSE  float32 // mean squared error, reported as L2
}

// EvaluateRegression predicts every record of the test partition and scores
// the predictions against the label column. The label is the raw combined
// product id value. Pairs with identifiers unseen in training predict 0.
func EvaluateRegression(m MatrixFactorization, testSet *dataset.Table) Metrics {
	if testSet.Count() == 0 {
		return Metrics{}
	}
	predictions := make([]float32, 0, testSet.Count())
	labels := make([]float32, 0, testSet.Count())
	for _, pair := range testSet.Pairs() {
		rowKey := m.GetRowDict().Id(pair.ProductID)
		colKey := m.GetColDict().Id(pair.CombinedID)
		predictions = append(predictions, m.internalPredict(rowKey, colKey))
		labels = append(labels, float32(pair.CombinedID))
	}
	return Metrics{
		RMSE: RMSE(predictions, labels),
		MAE:  MAE(predictions, labels),
		MSE:  MSE(predictions, labels),
	}
}

// MSE is the mean squared error.
func MSE(predictions, labels []float32) float32 {
	sum := float32(0)
	for i := range predictions {
		diff := predictions[i] - labels[i]
		sum += diff * diff
	}
	return sum / float32(len(predictions))
}

// RMSE is the root mean squared error.
func RMSE(predictions, labels []float32) float32 {
	return math32.Sqrt(MSE(predictions, labels))
}

// MAE is the mean absolute error.
func MAE(predictions, labels []float32) float32 {
	sum := float32(0)
	for i := range predictions {
		sum += math32.Abs(predictions[i] - labels[i])
	}
	return sum / float32(len(predictions))
}
