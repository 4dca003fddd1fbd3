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

// Package model implements one-class matrix factorization over co-purchase
// pairs, its regression evaluator and the prediction service.
package model

import (
	"context"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/combine-io/combine/base"
	"github.com/combine-io/combine/dataset"
)

// FitConfig holds runtime options of a training run.
type FitConfig struct {
	Jobs     int
	Verbose  int
	Progress *progressbar.ProgressBar
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 10,
	}
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

// SetProgress attaches a progress bar advanced once per epoch.
func (config *FitConfig) SetProgress(bar *progressbar.ProgressBar) *FitConfig {
	config.Progress = bar
	return config
}

// Model is the interface for all models in this package.
type Model interface {
	// SetParams sets hyper-parameters.
	SetParams(params Params)
	// GetParams returns all hyper-parameters.
	GetParams() Params
	// Fit a model with a training set.
	Fit(ctx context.Context, trainSet *dataset.Matrix, config *FitConfig) error
	// Clear model parameters.
	Clear()
}

// MatrixFactorization is implemented by factorization models over the product
// pair matrix.
type MatrixFactorization interface {
	Model
	// Predict the score of a (product, combined product) pair by raw ids.
	Predict(productId, combinedId int32) float32
	// internalPredict scores a pair of dense keys.
	internalPredict(rowKey, colKey int32) float32
	// GetRowDict returns the product id encoder.
	GetRowDict() *dataset.Dict
	// GetColDict returns the combined product id encoder.
	GetColDict() *dataset.Dict
	// IsRowPredictable returns false if the row key was never trained.
	IsRowPredictable(rowKey int32) bool
	// IsColPredictable returns false if the column key was never trained.
	IsColPredictable(colKey int32) bool
	// Marshal model into byte stream.
	Marshal(w io.Writer) error
	// Unmarshal model from byte stream.
	Unmarshal(r io.Reader) error
}

// BaseModel is embedded by every model. Hyper-parameters and the random
// generator are managed here.
type BaseModel struct {
	Params    Params
	rng       base.RandomGenerator
	randState int64
}

// SetParams sets hyper-parameters for the BaseModel.
func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.randState = model.Params.GetInt64(RandomState, 0)
	model.rng = base.NewRandomGenerator(model.randState)
}

// GetParams returns all hyper-parameters.
func (model *BaseModel) GetParams() Params {
	return model.Params
}

func (model *BaseModel) GetRandomGenerator() base.RandomGenerator {
	return model.rng
}
