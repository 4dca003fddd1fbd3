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
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/combine-io/combine/base"
	"github.com/combine-io/combine/base/encoding"
	"github.com/combine-io/combine/base/log"
	"github.com/combine-io/combine/common/floats"
	"github.com/combine-io/combine/common/parallel"
	"github.com/combine-io/combine/dataset"
)

// ErrTraining reports invalid hyper-parameters or a diverged optimization.
var ErrTraining = errors.New("training failure")

func init() {
	// hyper-parameter values travel through gob as interface{}
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(float32(0))
	gob.Register(float64(0))
}

// OneClassMF factorizes the co-purchase matrix with implicit one-class square
// loss: every observed pair is a positive with target 1, unobserved columns
// are sampled per positive and pulled toward 0 with their gradient scaled by
// Alpha. The score of a pair is the inner product of the latent factors plus
// the two bias terms.
//
// Hyper-parameters:
//
//	Lr         - The learning rate of SGD. Default is 0.01.
//	Alpha      - The weight of sampled negatives. Default is 0.01.
//	Lambda     - The regularization strength. Default is 0.025.
//	NFactors   - The number of latent factors. Default is 16.
//	NEpochs    - The number of SGD iterations. Default is 50.
//	NNegatives - Sampled negatives per positive. Default is 1.
//	InitMean   - The mean of initial random latent factors. Default is 0.
//	InitStdDev - The standard deviation of initial random latent factors. Default is 0.1.
type OneClassMF struct {
	BaseModel
	RowDict        *dataset.Dict
	ColDict        *dataset.Dict
	RowPredictable *bitset.BitSet
	ColPredictable *bitset.BitSet
	// Model parameters
	RowFactor [][]float32 // p_u
	ColFactor [][]float32 // q_i
	RowBias   []float32   // b_u
	ColBias   []float32   // b_i
	// Hyper parameters
	nFactors   int
	nEpochs    int
	nNegatives int
	lr         float32
	alpha      float32
	lambda     float32
	initMean   float32
	initStdDev float32
}

// NewOneClassMF creates a one-class matrix factorization model.
func NewOneClassMF(params Params) *OneClassMF {
	mf := new(OneClassMF)
	mf.SetParams(params)
	return mf
}

// SetParams sets hyper-parameters of the model.
func (mf *OneClassMF) SetParams(params Params) {
	mf.BaseModel.SetParams(params)
	mf.nFactors = mf.Params.GetInt(NFactors, 16)
	mf.nEpochs = mf.Params.GetInt(NEpochs, 50)
	mf.nNegatives = mf.Params.GetInt(NNegatives, 1)
	mf.lr = mf.Params.GetFloat32(Lr, 0.01)
	mf.alpha = mf.Params.GetFloat32(Alpha, 0.01)
	mf.lambda = mf.Params.GetFloat32(Lambda, 0.025)
	mf.initMean = mf.Params.GetFloat32(InitMean, 0)
	mf.initStdDev = mf.Params.GetFloat32(InitStdDev, 0.1)
}

func (mf *OneClassMF) validateParams() error {
	if mf.nFactors <= 0 {
		return errors.Annotatef(ErrTraining, "NFactors must be positive, got %d", mf.nFactors)
	}
	if mf.nEpochs <= 0 {
		return errors.Annotatef(ErrTraining, "NEpochs must be positive, got %d", mf.nEpochs)
	}
	if mf.nNegatives < 0 {
		return errors.Annotatef(ErrTraining, "NNegatives must not be negative, got %d", mf.nNegatives)
	}
	if mf.lr <= 0 {
		return errors.Annotatef(ErrTraining, "Lr must be positive, got %v", mf.lr)
	}
	if mf.alpha < 0 || mf.lambda < 0 {
		return errors.Annotatef(ErrTraining, "Alpha and Lambda must not be negative, got %v and %v", mf.alpha, mf.lambda)
	}
	return nil
}

// Init allocates and initializes model parameters for a training set.
func (mf *OneClassMF) Init(trainSet *dataset.Matrix) {
	mf.RowFactor = mf.GetRandomGenerator().NormalMatrix(trainSet.CountRows(), mf.nFactors, mf.initMean, mf.initStdDev)
	mf.ColFactor = mf.GetRandomGenerator().NormalMatrix(trainSet.CountCols(), mf.nFactors, mf.initMean, mf.initStdDev)
	mf.RowBias = make([]float32, trainSet.CountRows())
	mf.ColBias = make([]float32, trainSet.CountCols())
	mf.RowDict = trainSet.GetRowDict()
	mf.ColDict = trainSet.GetColDict()
	// set trained flags
	mf.RowPredictable = bitset.New(uint(trainSet.CountRows()))
	for rowKey := 0; rowKey < trainSet.CountRows(); rowKey++ {
		if len(trainSet.GetRowFeedback()[rowKey]) > 0 {
			mf.RowPredictable.Set(uint(rowKey))
		}
	}
	mf.ColPredictable = bitset.New(uint(trainSet.CountCols()))
	for colKey := 0; colKey < trainSet.CountCols(); colKey++ {
		if len(trainSet.GetColFeedback()[colKey]) > 0 {
			mf.ColPredictable.Set(uint(colKey))
		}
	}
}

// Fit the model. Its task complexity is O(mf.nEpochs).
func (mf *OneClassMF) Fit(ctx context.Context, trainSet *dataset.Matrix, config *FitConfig) error {
	if config == nil {
		config = NewFitConfig()
	}
	if err := mf.validateParams(); err != nil {
		return errors.Trace(err)
	}
	if trainSet == nil || trainSet.CountPairs() == 0 {
		return errors.Annotatef(ErrTraining, "empty training set")
	}
	log.Logger().Info("fit one-class mf",
		zap.Int("train_set_size", trainSet.CountPairs()),
		zap.Int("n_products", trainSet.CountRows()),
		zap.Int("n_combined_products", trainSet.CountCols()),
		zap.Any("params", mf.GetParams()),
		zap.Any("config", config))
	mf.Init(trainSet)
	// Create buffers
	temp := make([][]float32, config.Jobs)
	rowFactor := make([][]float32, config.Jobs)
	colFactor := make([][]float32, config.Jobs)
	rng := make([]base.RandomGenerator, config.Jobs)
	for i := 0; i < config.Jobs; i++ {
		temp[i] = make([]float32, mf.nFactors)
		rowFactor[i] = make([]float32, mf.nFactors)
		colFactor[i] = make([]float32, mf.nFactors)
		rng[i] = base.NewRandomGenerator(mf.GetRandomGenerator().Int63())
	}
	// Convert adjacency to hashmaps for negative sampling
	rowFeedback := make([]mapset.Set[int32], trainSet.CountRows())
	for u := range rowFeedback {
		rowFeedback[u] = mapset.NewThreadUnsafeSet[int32](trainSet.GetRowFeedback()[u]...)
	}
	// Training
	for epoch := 1; epoch <= mf.nEpochs; epoch++ {
		fitStart := time.Now()
		cost := make([]float32, config.Jobs)
		err := parallel.Parallel(ctx, trainSet.CountPairs(), config.Jobs, func(workerId, jobId int) error {
			rowKey, colKey := trainSet.GetPair(jobId)
			// positive interaction, target 1
			e := mf.internalPredict(rowKey, colKey) - 1
			cost[workerId] += e * e
			mf.update(rowKey, colKey, e, 1, rowFactor[workerId], colFactor[workerId], temp[workerId])
			// sampled negatives, target 0, weighted by alpha
			if mf.nNegatives > 0 && mf.alpha > 0 {
				negatives := rng[workerId].SampleInt32(0, int32(trainSet.CountCols()), mf.nNegatives, rowFeedback[rowKey])
				for _, negKey := range negatives {
					e := mf.internalPredict(rowKey, negKey)
					cost[workerId] += mf.alpha * e * e
					mf.update(rowKey, negKey, e, mf.alpha, rowFactor[workerId], colFactor[workerId], temp[workerId])
				}
			}
			return nil
		})
		if err != nil {
			return errors.Trace(err)
		}
		totalCost := float32(0)
		for _, c := range cost {
			totalCost += c
		}
		if math32.IsNaN(totalCost) || math32.IsInf(totalCost, 0) {
			return errors.Annotatef(ErrTraining, "cost diverged at epoch %d", epoch)
		}
		if epoch%config.Verbose == 0 || epoch == mf.nEpochs {
			log.Logger().Debug(fmt.Sprintf("fit one-class mf %v/%v", epoch, mf.nEpochs),
				zap.String("fit_time", time.Since(fitStart).String()),
				zap.Float32("cost", totalCost))
		}
		if config.Progress != nil {
			_ = config.Progress.Add(1)
		}
	}
	log.Logger().Info("fit one-class mf complete")
	return nil
}

// update applies one SGD step for a pair of dense keys with residual e and
// sample weight.
func (mf *OneClassMF) update(rowKey, colKey int32, e, weight float32, rowBuf, colBuf, temp []float32) {
	grad := weight * e
	// Update bias terms: b <- b + \gamma (-g - \lambda b)
	mf.RowBias[rowKey] += mf.lr * (-grad - mf.lambda*mf.RowBias[rowKey])
	mf.ColBias[colKey] += mf.lr * (-grad - mf.lambda*mf.ColBias[colKey])
	copy(rowBuf, mf.RowFactor[rowKey])
	copy(colBuf, mf.ColFactor[colKey])
	// Update row latent factor: p_u <- p_u + \gamma (-g q_i - \lambda p_u)
	floats.MulConstTo(colBuf, -grad, temp)
	floats.MulConstAdd(rowBuf, -mf.lambda, temp)
	floats.MulConstAdd(temp, mf.lr, mf.RowFactor[rowKey])
	// Update column latent factor: q_i <- q_i + \gamma (-g p_u - \lambda q_i)
	floats.MulConstTo(rowBuf, -grad, temp)
	floats.MulConstAdd(colBuf, -mf.lambda, temp)
	floats.MulConstAdd(temp, mf.lr, mf.ColFactor[colKey])
}

// Predict scores a pair of raw identifiers.
func (mf *OneClassMF) Predict(productId, combinedId int32) float32 {
	rowKey := mf.RowDict.Id(productId)
	colKey := mf.ColDict.Id(combinedId)
	if rowKey == dataset.NotId {
		log.Logger().Warn("unknown product", zap.Int32("product_id", productId))
	}
	if colKey == dataset.NotId {
		log.Logger().Warn("unknown combined product", zap.Int32("combined_product_id", combinedId))
	}
	return mf.internalPredict(rowKey, colKey)
}

func (mf *OneClassMF) internalPredict(rowKey, colKey int32) float32 {
	if rowKey < 0 || int(rowKey) >= len(mf.RowFactor) || colKey < 0 || int(colKey) >= len(mf.ColFactor) {
		return 0
	}
	return floats.Dot(mf.RowFactor[rowKey], mf.ColFactor[colKey]) + mf.RowBias[rowKey] + mf.ColBias[colKey]
}

func (mf *OneClassMF) GetRowDict() *dataset.Dict {
	return mf.RowDict
}

func (mf *OneClassMF) GetColDict() *dataset.Dict {
	return mf.ColDict
}

// IsRowPredictable returns false if the product has no feedback and its
// embedding vector was never trained.
func (mf *OneClassMF) IsRowPredictable(rowKey int32) bool {
	if rowKey < 0 || rowKey >= mf.RowDict.Count() {
		return false
	}
	return mf.RowPredictable.Test(uint(rowKey))
}

// IsColPredictable returns false if the combined product has no feedback and
// its embedding vector was never trained.
func (mf *OneClassMF) IsColPredictable(colKey int32) bool {
	if colKey < 0 || colKey >= mf.ColDict.Count() {
		return false
	}
	return mf.ColPredictable.Test(uint(colKey))
}

// Clear model parameters.
func (mf *OneClassMF) Clear() {
	mf.RowDict = nil
	mf.ColDict = nil
	mf.RowFactor = nil
	mf.ColFactor = nil
	mf.RowBias = nil
	mf.ColBias = nil
	mf.RowPredictable = nil
	mf.ColPredictable = nil
}

// Invalid reports whether the model misses trained parameters.
func (mf *OneClassMF) Invalid() bool {
	return mf == nil ||
		mf.RowDict == nil ||
		mf.ColDict == nil ||
		mf.RowFactor == nil ||
		mf.ColFactor == nil
}

// Marshal model into byte stream.
func (mf *OneClassMF) Marshal(w io.Writer) error {
	// write params
	if err := encoding.WriteGob(w, mf.Params); err != nil {
		return errors.Trace(err)
	}
	// write dictionaries in key order
	if err := encoding.WriteGob(w, mf.RowDict.Values()); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, mf.ColDict.Values()); err != nil {
		return errors.Trace(err)
	}
	// write bias terms
	if err := encoding.WriteGob(w, mf.RowBias); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, mf.ColBias); err != nil {
		return errors.Trace(err)
	}
	// write latent factors
	if err := encoding.WriteMatrix(w, mf.RowFactor); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteMatrix(w, mf.ColFactor); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Unmarshal model from byte stream.
func (mf *OneClassMF) Unmarshal(r io.Reader) error {
	// read params
	if err := encoding.ReadGob(r, &mf.Params); err != nil {
		return errors.Trace(err)
	}
	mf.SetParams(mf.Params)
	// read dictionaries
	var rowValues, colValues []int32
	if err := encoding.ReadGob(r, &rowValues); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.ReadGob(r, &colValues); err != nil {
		return errors.Trace(err)
	}
	mf.RowDict = dataset.NewDict()
	for _, v := range rowValues {
		mf.RowDict.Add(v)
	}
	mf.ColDict = dataset.NewDict()
	for _, v := range colValues {
		mf.ColDict.Add(v)
	}
	// read bias terms
	if err := encoding.ReadGob(r, &mf.RowBias); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.ReadGob(r, &mf.ColBias); err != nil {
		return errors.Trace(err)
	}
	// read latent factors
	mf.RowFactor = make([][]float32, len(rowValues))
	for i := range mf.RowFactor {
		mf.RowFactor[i] = make([]float32, mf.nFactors)
	}
	mf.ColFactor = make([][]float32, len(colValues))
	for i := range mf.ColFactor {
		mf.ColFactor[i] = make([]float32, mf.nFactors)
	}
	if err := encoding.ReadMatrix(r, mf.RowFactor); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.ReadMatrix(r, mf.ColFactor); err != nil {
		return errors.Trace(err)
	}
	// every persisted key was trained
	mf.RowPredictable = bitset.New(uint(len(rowValues)))
	for i := range rowValues {
		mf.RowPredictable.Set(uint(i))
	}
	mf.ColPredictable = bitset.New(uint(len(colValues)))
	for i := range colValues {
		mf.ColPredictable.Set(uint(i))
	}
	return nil
}
