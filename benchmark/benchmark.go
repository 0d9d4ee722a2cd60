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
	"fmt"

	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/log"
	"github.com/gorse-io/recbench/dataset"
	"github.com/gorse-io/recbench/recommend"
	"go.uber.org/zap"
)

const (
	PruningOld = "pruning_old"
	KeepingOld = "keeping_old"
)

func policy(onlyNew bool) string {
	if onlyNew {
		return PruningOld
	}
	return KeepingOld
}

// Benchmark holds a recommender waiting for test data.
type Benchmark struct {
	recommender *recommend.Recommender
}

// New creates a benchmark of a recommender.
func New(r *recommend.Recommender) (*Benchmark, error) {
	if r == nil {
		return nil, base.NotValid("Attempt to instantiate with incompatible recommender. Must be of type <Recommender>.",
			"recommender must be of type <Recommender>")
	}
	return &Benchmark{recommender: r}, nil
}

func (b *Benchmark) Recommender() *recommend.Recommender {
	return b.recommender
}

// Against binds test data. The recommender is switched to the policy the test
// data was split with if they differ.
func (b *Benchmark) Against(test *dataset.TestSet) (*BoundBenchmark, error) {
	if test == nil {
		return nil, base.NotValid("Attempt to set incompatible type of test data. Must be <TestSet>.",
			"test data must be of type <TestSet>")
	}
	if b.recommender.OnlyNew() != test.OnlyNew() {
		b.recommender.SetOnlyNew(test.OnlyNew())
		log.Logger().Info(fmt.Sprintf("Resetting recommender to %q because of test-data preference.",
			policy(test.OnlyNew())))
	}
	return &BoundBenchmark{recommender: b.recommender, test: test}, nil
}

// Score of a recommender on test data.
type Score struct {
	// Score is the number of recommended held-out items over all held-out items.
	Score     float64
	Precision float64
	Recall    float64
	NDCG      float64
	HitRatio  float64
}

// BoundBenchmark scores a recommender on test data. Scores are computed once
// and again only after the algorithm changed.
type BoundBenchmark struct {
	recommender *recommend.Recommender
	test        *dataset.TestSet
	cached      *Score
	revision    uint64
	onlyNew     bool
}

func (b *BoundBenchmark) Recommender() *recommend.Recommender {
	return b.recommender
}

func (b *BoundBenchmark) Test() *dataset.TestSet {
	return b.test
}

// Score returns the fraction of held-out items recommended to their users.
func (b *BoundBenchmark) Score() float64 {
	return b.Metrics().Score
}

// Metrics returns the score together with ranking metrics averaged over
// cases.
func (b *BoundBenchmark) Metrics() Score {
	revision := b.recommender.Algorithm().Revision()
	if b.cached == nil || b.revision != revision || b.onlyNew != b.recommender.OnlyNew() {
		score := b.evaluate()
		b.cached = &score
		b.revision, b.onlyNew = revision, b.recommender.OnlyNew()
	}
	return *b.cached
}

func (b *BoundBenchmark) evaluate() Score {
	var (
		score         Score
		hits, heldOut float64
	)
	averaged := []struct {
		value  *float64
		metric Metric
	}{
		{&score.Precision, Precision},
		{&score.Recall, Recall},
		{&score.NDCG, NDCG},
		{&score.HitRatio, HR},
	}
	users := b.test.Users()
	for _, user := range users {
		targetSet := b.test.HeldOut(user)
		rankList := b.recommender.Recommend(user, b.test.HoldOut())
		hits += Hits(targetSet, rankList)
		heldOut += float64(targetSet.Cardinality())
		for _, m := range averaged {
			*m.value += m.metric(targetSet, rankList)
		}
	}
	if heldOut > 0 {
		score.Score = hits / heldOut
	}
	if n := float64(len(users)); n > 0 {
		for _, m := range averaged {
			*m.value /= n
		}
	}
	log.Logger().Debug("benchmark recommender",
		zap.String("algorithm", b.recommender.Algorithm().Name()),
		zap.String("policy", policy(b.recommender.OnlyNew())),
		zap.Int("n_cases", len(users)),
		zap.Float64("score", score.Score))
	return score
}
