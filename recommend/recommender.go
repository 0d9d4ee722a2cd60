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

package recommend

import (
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/heap"
	"github.com/gorse-io/recbench/base/log"
	"github.com/gorse-io/recbench/dataset"
	"github.com/gorse-io/recbench/model"
	"go.uber.org/zap"
)

// Recommender ranks the items of one training matrix for users with one
// algorithm. With only_new set, items a user already interacted with in the
// training matrix are never recommended to that user.
type Recommender struct {
	scorer  model.Scorer
	onlyNew bool
}

// BasedOn creates a recommender on data using the baseline algorithm.
func BasedOn(data model.Data) (*Recommender, error) {
	if data == nil || data.Matrix() == nil {
		return nil, base.NotValid("Attempt to set incompatible data type. Must be <Matrix>.",
			"data must be of type <Matrix>")
	}
	scorer, err := model.NewBaseline().OperatingOn(data)
	if err != nil {
		return nil, err
	}
	return &Recommender{scorer: scorer, onlyNew: true}, nil
}

// Using returns a recommender on the same data with another algorithm.
func (r *Recommender) Using(algorithm model.Algorithm) (*Recommender, error) {
	if algorithm == nil {
		return nil, base.NotValid("Attempt to set incompatible algorithm type. Must be <Algorithm>.",
			"algorithm must be of type <Algorithm>")
	}
	scorer, err := algorithm.OperatingOn(r.scorer.Data())
	if err != nil {
		return nil, err
	}
	log.Logger().Debug("recommender switched algorithm", zap.String("algorithm", algorithm.Name()))
	return &Recommender{scorer: scorer, onlyNew: r.onlyNew}, nil
}

// Algorithm returns the algorithm in use.
func (r *Recommender) Algorithm() model.Algorithm {
	return r.scorer.Algorithm()
}

// Data returns the training matrix.
func (r *Recommender) Data() *dataset.Matrix {
	return r.scorer.Data()
}

// OnlyNew reports whether known items are pruned.
func (r *Recommender) OnlyNew() bool {
	return r.onlyNew
}

// PruningOld returns a copy that never recommends known items.
func (r *Recommender) PruningOld() *Recommender {
	c := *r
	c.onlyNew = true
	return &c
}

// KeepingOld returns a copy that may recommend known items.
func (r *Recommender) KeepingOld() *Recommender {
	c := *r
	c.onlyNew = false
	return &c
}

// SetOnlyNew switches the policy in place. It is meant for a benchmark
// reconciling a recommender it owns with the preference of its test data.
// Other callers should derive copies with PruningOld or KeepingOld.
func (r *Recommender) SetOnlyNew(onlyNew bool) {
	r.onlyNew = onlyNew
}

// Recommend returns up to n item IDs for a user, best first. Equal scores
// are ordered by column of the training matrix.
func (r *Recommender) Recommend(user string, n int) []string {
	data := r.scorer.Data()
	scores := r.scorer.ForOne(user)
	var known dataset.SparseVector
	if r.onlyNew {
		known, _ = data.UserRow(user, true)
	}
	filter := heap.NewTopKFilter[int, float64](n)
	for i, score := range scores {
		if r.onlyNew && known.Contains(i) {
			continue
		}
		filter.Push(i, score)
	}
	indices, _ := filter.PopAll()
	items := make([]string, len(indices))
	for i, index := range indices {
		items[i] = data.Item(index)
	}
	return items
}
