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

package config

import (
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of the recommendation pipeline.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Model     ModelConfig     `mapstructure:"model"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// DataConfig describes the co-purchase source file and the train/test split.
type DataConfig struct {
	Path      string  `mapstructure:"path"`
	HasHeader bool    `mapstructure:"has_header"`
	Separator string  `mapstructure:"separator"`
	TestRatio float64 `mapstructure:"test_ratio"`
	Seed      int64   `mapstructure:"seed"`
}

// ModelConfig carries the factorization hyper-parameters.
type ModelConfig struct {
	NFactors    int     `mapstructure:"n_factors"`
	NEpochs     int     `mapstructure:"n_epochs"`
	NNegatives  int     `mapstructure:"n_negatives"`
	Lr          float64 `mapstructure:"lr"`
	Alpha       float64 `mapstructure:"alpha"`
	Lambda      float64 `mapstructure:"lambda"`
	RandomState int64   `mapstructure:"random_state"`
}

// RecommendConfig describes the sample queries of the pipeline driver.
type RecommendConfig struct {
	ProductID    int32 `mapstructure:"product_id"`
	CombinedID   int32 `mapstructure:"combined_id"`
	CandidateLow int32 `mapstructure:"candidate_low"`
	CandidateTop int32 `mapstructure:"candidate_top"`
	TopK         int   `mapstructure:"top_k"`
	Jobs         int   `mapstructure:"jobs"`
}

func setDefault(v *viper.Viper) {
	v.SetDefault("data.path", "Amazon0302.txt")
	v.SetDefault("data.has_header", true)
	v.SetDefault("data.separator", "\t")
	v.SetDefault("data.test_ratio", 0.2)
	v.SetDefault("data.seed", 0)
	v.SetDefault("model.n_factors", 16)
	v.SetDefault("model.n_epochs", 50)
	v.SetDefault("model.n_negatives", 1)
	v.SetDefault("model.lr", 0.01)
	v.SetDefault("model.alpha", 0.01)
	v.SetDefault("model.lambda", 0.025)
	v.SetDefault("model.random_state", 0)
	v.SetDefault("recommend.product_id", 3)
	v.SetDefault("recommend.combined_id", 63)
	v.SetDefault("recommend.candidate_low", 1)
	v.SetDefault("recommend.candidate_top", 26211)
	v.SetDefault("recommend.top_k", 5)
	v.SetDefault("recommend.jobs", 1)
}

// GetDefaultConfig returns the built-in configuration.
func GetDefaultConfig() *Config {
	conf, err := LoadConfig("")
	if err != nil {
		panic(err)
	}
	return conf
}

// LoadConfig loads the configuration from defaults, an optional config file
// and COMBINE_* environment variables, in ascending precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	v.SetEnvPrefix("combine")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (conf *Config) Validate() error {
	if conf.Data.Path == "" {
		return errors.New("data.path must not be empty")
	}
	if conf.Data.Separator == "" {
		return errors.New("data.separator must not be empty")
	}
	if conf.Data.TestRatio <= 0 || conf.Data.TestRatio >= 1 {
		return errors.Errorf("data.test_ratio must be in (0,1), got %v", conf.Data.TestRatio)
	}
	if conf.Recommend.TopK <= 0 {
		return errors.Errorf("recommend.top_k must be positive, got %d", conf.Recommend.TopK)
	}
	if conf.Recommend.CandidateLow > conf.Recommend.CandidateTop {
		return errors.Errorf("recommend.candidate_low must not exceed recommend.candidate_top")
	}
	return nil
}
