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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/combine-io/combine/base/encoding"
	"github.com/combine-io/combine/base/log"
	"github.com/combine-io/combine/config"
	"github.com/combine-io/combine/dataset"
	"github.com/combine-io/combine/model"
)

var combineCommand = &cobra.Command{
	Use:   "combine",
	Short: "Product co-purchase recommender based on one-class matrix factorization.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		if cmd.PersistentFlags().Changed("data") {
			conf.Data.Path, _ = cmd.PersistentFlags().GetString("data")
		}
		if cmd.PersistentFlags().Changed("jobs") {
			conf.Recommend.Jobs, _ = cmd.PersistentFlags().GetInt("jobs")
		}
		savePath, _ := cmd.PersistentFlags().GetString("save-model")
		noPause, _ := cmd.PersistentFlags().GetBool("no-pause")

		if err := runPipeline(os.Stdout, conf, savePath, debug); err != nil {
			log.Logger().Fatal("pipeline failed", zap.Error(err))
		}

		// wait for input before exiting
		if !noPause {
			_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		}
	},
}

func init() {
	combineCommand.PersistentFlags().String("config", "", "path of configuration file")
	combineCommand.PersistentFlags().String("data", "", "path of the co-purchase dataset")
	combineCommand.PersistentFlags().Int("jobs", 1, "number of workers for training and ranking")
	combineCommand.PersistentFlags().String("save-model", "", "write the trained model to this path")
	combineCommand.PersistentFlags().Bool("no-pause", false, "exit without waiting for input")
	combineCommand.PersistentFlags().BoolP("debug", "d", false, "use debug log mode")
	log.AddFlags(combineCommand.PersistentFlags())
}

func runPipeline(w io.Writer, conf *config.Config, savePath string, debug bool) error {
	ctx := context.Background()

	fmt.Fprintln(w, "Loading data...")
	table, err := dataset.LoadFile(conf.Data.Path, conf.Data.HasHeader, conf.Data.Separator)
	if err != nil {
		return errors.Trace(err)
	}
	train, test := table.Split(conf.Data.TestRatio, conf.Data.Seed)
	trainSet := train.Encode()

	fmt.Fprintln(w, "Training the model...")
	mf := model.NewOneClassMF(model.Params{
		model.NFactors:    conf.Model.NFactors,
		model.NEpochs:     conf.Model.NEpochs,
		model.NNegatives:  conf.Model.NNegatives,
		model.Lr:          conf.Model.Lr,
		model.Alpha:       conf.Model.Alpha,
		model.Lambda:      conf.Model.Lambda,
		model.RandomState: conf.Model.RandomState,
	})
	fitConfig := model.NewFitConfig().SetJobs(conf.Recommend.Jobs)
	if !debug {
		bar := progressbar.NewOptions(conf.Model.NEpochs,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("training"),
			progressbar.OptionClearOnFinish())
		fitConfig.SetProgress(bar)
	}
	if err := mf.Fit(ctx, trainSet, fitConfig); err != nil {
		return errors.Trace(err)
	}
	if savePath != "" {
		if err := saveModel(mf, savePath); err != nil {
			return errors.Trace(err)
		}
	}

	fmt.Fprintln(w, "Evaluating the model...")
	metrics := model.EvaluateRegression(mf, test)
	fmt.Fprintf(w, "    RMSE: %.2f\n", metrics.RMSE)
	fmt.Fprintf(w, "    L1: %.2f\n", metrics.MAE)
	fmt.Fprintf(w, "    L2: %.2f\n", metrics.MSE)

	recommender := model.NewRecommender(mf).SetJobs(conf.Recommend.Jobs)
	fmt.Fprintln(w, "Predicting if two products combine...")
	score, err := recommender.Score(conf.Recommend.ProductID, conf.Recommend.CombinedID)
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Fprintf(w, "    Score of products %d and %d combined: %v\n",
		conf.Recommend.ProductID, conf.Recommend.CombinedID, encoding.FormatFloat32(score))

	fmt.Fprintf(w, "Calculating the top %d products for product %d...\n",
		conf.Recommend.TopK, conf.Recommend.ProductID)
	n := int(conf.Recommend.CandidateTop - conf.Recommend.CandidateLow + 1)
	candidates := lo.RangeFrom(conf.Recommend.CandidateLow, n)
	recommendations, err := recommender.TopK(conf.Recommend.ProductID, candidates, conf.Recommend.TopK)
	if err != nil {
		return errors.Trace(err)
	}
	for _, recommendation := range recommendations {
		fmt.Fprintf(w, "    Score: %v\tProduct: %d\n",
			encoding.FormatFloat32(recommendation.Score), recommendation.ProductID)
	}
	return nil
}

func saveModel(mf *model.OneClassMF, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if err := mf.Marshal(writer); err != nil {
		return errors.Trace(err)
	}
	if err := writer.Flush(); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("saved model", zap.String("path", path))
	return nil
}

func main() {
	if err := combineCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
