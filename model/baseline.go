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

package model

import "github.com/gorse-io/recbench/dataset"

// popularity returns the number of distinct users of each item when
// binarized, or the number of interactions otherwise.
func popularity(data *dataset.Matrix, binarize bool) []float64 {
	if binarize {
		return data.ColumnNNZ()
	}
	return data.ColumnSums()
}

// Baseline scores items by popularity. Targets are ignored.
type Baseline struct {
	BaseModel
}

func NewBaseline() *Baseline {
	return &Baseline{BaseModel: newBaseModel()}
}

func (b *Baseline) Name() string {
	return "baseline"
}

func (b *Baseline) OperatingOn(data Data) (Scorer, error) {
	m, err := b.bind(data)
	if err != nil {
		return nil, err
	}
	return newScorer(b, m, b.fit), nil
}

func (b *Baseline) fit(data *dataset.Matrix) func(string) []float64 {
	scores := popularity(data, b.Binarize())
	return func(_ string) []float64 {
		return append([]float64(nil), scores...)
	}
}
