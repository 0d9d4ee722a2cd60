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

import (
	"github.com/gorse-io/recbench/dataset"
	"gonum.org/v1/gonum/floats"
)

// MostPopular scores items by their share of all interactions. Items the
// target has interacted with are scored by the target's own row instead.
type MostPopular struct {
	BaseModel
}

func NewMostPopular() *MostPopular {
	return &MostPopular{BaseModel: newBaseModel()}
}

func (m *MostPopular) Name() string {
	return "most_popular"
}

func (m *MostPopular) OperatingOn(data Data) (Scorer, error) {
	matrix, err := m.bind(data)
	if err != nil {
		return nil, err
	}
	return newScorer(m, matrix, m.fit), nil
}

func (m *MostPopular) fit(data *dataset.Matrix) func(string) []float64 {
	binarize := m.Binarize()
	shares := popularity(data, binarize)
	if total := floats.Sum(shares); total > 0 {
		floats.Scale(1/total, shares)
	}
	return func(target string) []float64 {
		scores := append([]float64(nil), shares...)
		if target == NoTarget {
			return scores
		}
		if row, ok := data.UserRow(target, binarize); ok {
			for i, index := range row.Indices {
				scores[index] = row.Values[i]
			}
		}
		return scores
	}
}
