// Copyright 2026 gorse Project Authors
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

package benchmark

import (
	"context"

	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/log"
	"github.com/gorse-io/recbench/config"
	"github.com/gorse-io/recbench/dataset"
	"github.com/gorse-io/recbench/model"
	"github.com/gorse-io/recbench/recommend"
	"github.com/gorse-io/recbench/storage"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Result of benchmarking one algorithm.
type Result struct {
	Algorithm     string
	Params        base.Params
	HoldOut       int
	OnlyNew       bool
	NumberOfCases int
	Score
}

// Run converts the result to a stored run.
func (r *Result) Run(source string) *storage.Run {
	return &storage.Run{
		Source:        log.RedactDBURL(source),
		Algorithm:     r.Algorithm,
		Params:        r.Params.String(),
		HoldOut:       r.HoldOut,
		OnlyNew:       r.OnlyNew,
		NumberOfCases: r.NumberOfCases,
		Score:         r.Score.Score,
		Precision:     r.Precision,
		Recall:        r.Recall,
		NDCG:          r.NDCG,
		HitRatio:      r.HitRatio,
	}
}

// LoadFeed reads and filters transactions of the configured source.
func LoadFeed(ctx context.Context, cfg *config.FeedConfig) (*dataset.Feed, error) {
	var (
		feed *dataset.Feed
		err  error
	)
	if cfg.IsCSV() {
		var opts []dataset.CSVOption
		if opts, err = cfg.CSVOptions(); err != nil {
			return nil, err
		}
		feed, err = dataset.LoadCSV(cfg.Path(), opts...)
	} else {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		feed, err = dataset.LoadSQL(ctx, cfg.Source, cfg.Query())
	}
	if err != nil {
		return nil, err
	}
	return feed.Filter(cfg.Filter)
}

// Runner benchmarks the configured algorithms on one split.
type Runner struct {
	Config *config.Config
	// OnStart is called before each algorithm is benchmarked.
	OnStart func(name string)
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{Config: cfg}
}

// Run splits the feed and benchmarks every algorithm in order.
func (r *Runner) Run(feed *dataset.Feed) ([]Result, error) {
	split, err := feed.SplitWithParams(r.Config.SplitParams())
	if err != nil {
		return nil, err
	}
	log.Logger().Info("split transactions",
		zap.Int("hold_out", split.Test.HoldOut()),
		zap.Bool("only_new", split.Test.OnlyNew()),
		zap.Int("n_cases", split.Test.NumberOfCases()),
		zap.Int("n_train_users", split.Train.CountUsers()),
		zap.Int("n_train_items", split.Train.CountItems()))
	recommender, err := recommend.BasedOn(split.Train)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(r.Config.Algorithms))
	for _, cfg := range r.Config.Algorithms {
		if r.OnStart != nil {
			r.OnStart(cfg.Name)
		}
		algorithm, err := model.New(cfg.Name, cfg.GetParams())
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create algorithm %s", cfg.Name)
		}
		current, err := recommender.Using(algorithm)
		if err != nil {
			return nil, err
		}
		b, err := New(current)
		if err != nil {
			return nil, err
		}
		bound, err := b.Against(split.Test)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{
			Algorithm:     algorithm.Name(),
			Params:        algorithm.GetParams(),
			HoldOut:       split.Test.HoldOut(),
			OnlyNew:       split.Test.OnlyNew(),
			NumberOfCases: split.Test.NumberOfCases(),
			Score:         bound.Metrics(),
		})
	}
	return results, nil
}
