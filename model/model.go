// Copyright 2020 gorse Project Authors
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
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/dataset"
)

// NoTarget asks a scorer for scores that are not conditioned on a user.
const NoTarget = ""

// Data is anything that provides an interaction matrix.
type Data interface {
	Matrix() *dataset.Matrix
}

// Algorithm is the interface for all scoring algorithms. An algorithm starts
// unbound and becomes a Scorer once it operates on data.
type Algorithm interface {
	// Name of the algorithm.
	Name() string
	// Binarize reports whether presence is scored instead of counts.
	Binarize() bool
	// SetBinarize switches the encoding. Cached aggregates are dropped only
	// if the value changes.
	SetBinarize(binarize bool)
	// SetParams sets hyper-parameters.
	SetParams(params base.Params) error
	// GetParams returns a copy of hyper-parameters.
	GetParams() base.Params
	// HasData reports whether the algorithm has been bound to data.
	HasData() bool
	// Revision changes whenever scores may change.
	Revision() uint64
	// OperatingOn binds the algorithm to data.
	OperatingOn(data Data) (Scorer, error)
}

// Scorer is an algorithm bound to data. A scorer keeps its own matrix and
// aggregates, so binding the algorithm again never changes existing scorers.
type Scorer interface {
	Algorithm() Algorithm
	// Data returns the bound matrix.
	Data() *dataset.Matrix
	// ForOne returns one score per item of the bound matrix. The returned
	// slice is owned by the caller.
	ForOne(target string) []float64
}

// fitFunc computes aggregates of a matrix and returns the scoring function.
type fitFunc func(data *dataset.Matrix) func(target string) []float64

type scorer struct {
	algorithm Algorithm
	data      *dataset.Matrix
	fit       fitFunc
	forOne    func(target string) []float64
	revision  uint64
}

func newScorer(algorithm Algorithm, data *dataset.Matrix, fit fitFunc) *scorer {
	return &scorer{algorithm: algorithm, data: data, fit: fit}
}

func (s *scorer) Algorithm() Algorithm {
	return s.algorithm
}

func (s *scorer) Data() *dataset.Matrix {
	return s.data
}

// ForOne refits after the algorithm changed.
func (s *scorer) ForOne(target string) []float64 {
	if s.forOne == nil || s.revision != s.algorithm.Revision() {
		s.forOne = s.fit(s.data)
		s.revision = s.algorithm.Revision()
	}
	return s.forOne(target)
}

// BaseModel must be included by every algorithm. It holds hyper-parameters
// and the revision only; bound data lives in scorers.
type BaseModel struct {
	params   base.Params
	bound    bool
	revision uint64
}

func newBaseModel() BaseModel {
	return BaseModel{
		params: base.Params{base.Binarize: true},
	}
}

func (model *BaseModel) Binarize() bool {
	return model.params[base.Binarize].(bool)
}

func (model *BaseModel) SetBinarize(binarize bool) {
	if binarize != model.Binarize() {
		model.params[base.Binarize] = binarize
		model.invalidate()
	}
}

// SetParams sets hyper-parameters. Nothing changes if any value is invalid.
func (model *BaseModel) SetParams(params base.Params) error {
	binarize, err := params.GetBool(base.Binarize, model.Binarize())
	if err != nil {
		return base.NotValid(`Attempt to set "binarize" to non-boolean type.`,
			`attribute "binarize" must be true or false`)
	}
	changed := binarize != model.Binarize()
	model.params = model.params.Overwrite(params)
	model.params[base.Binarize] = binarize
	if changed {
		model.invalidate()
	}
	return nil
}

// GetParams returns a copy of hyper-parameters.
func (model *BaseModel) GetParams() base.Params {
	return model.params.Copy()
}

// HasData reports whether the algorithm has been bound to data at least once.
func (model *BaseModel) HasData() bool {
	return model.bound
}

func (model *BaseModel) Revision() uint64 {
	return model.revision
}

func (model *BaseModel) bind(data Data) (*dataset.Matrix, error) {
	if data == nil || data.Matrix() == nil {
		return nil, base.NotValid("Attempt to set incompatible data type. Must be <Matrix>.",
			"data must be of type <Matrix>")
	}
	model.bound = true
	return data.Matrix(), nil
}

func (model *BaseModel) invalidate() {
	model.revision++
}
