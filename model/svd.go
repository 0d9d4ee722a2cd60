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
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/log"
	"github.com/gorse-io/recbench/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultNFactors = 10

// TruncatedSVD scores items by the rank-k reconstruction of the interaction
// matrix. Users outside the matrix get the column means of the reconstruction.
type TruncatedSVD struct {
	BaseModel
}

func NewTruncatedSVD() *TruncatedSVD {
	svd := &TruncatedSVD{BaseModel: newBaseModel()}
	svd.params[base.NFactors] = DefaultNFactors
	return svd
}

func (svd *TruncatedSVD) Name() string {
	return "truncated_svd"
}

// NFactors returns the number of latent factors.
func (svd *TruncatedSVD) NFactors() int {
	return svd.params[base.NFactors].(int)
}

// SetNFactors sets the number of latent factors, at least one.
func (svd *TruncatedSVD) SetNFactors(n int) {
	if n < 1 {
		log.Logger().Warn("Attempt to set n_factors < 1. Resetting to 1.")
		n = 1
	}
	if n != svd.NFactors() {
		svd.params[base.NFactors] = n
		svd.invalidate()
	}
}

func (svd *TruncatedSVD) SetParams(params base.Params) error {
	n, err := params.GetInt(base.NFactors, svd.NFactors())
	if err != nil {
		return base.NotValid(`Attempt to set "n_factors" to non-integer type.`,
			`attribute "n_factors" must be an integer`)
	}
	previous := svd.NFactors()
	if err = svd.BaseModel.SetParams(params); err != nil {
		return err
	}
	svd.params[base.NFactors] = previous
	svd.SetNFactors(n)
	return nil
}

func (svd *TruncatedSVD) OperatingOn(data Data) (Scorer, error) {
	m, err := svd.bind(data)
	if err != nil {
		return nil, err
	}
	return newScorer(svd, m, svd.fit), nil
}

func (svd *TruncatedSVD) fit(data *dataset.Matrix) func(string) []float64 {
	reconstruction, columnMeans, err := svd.factorize(data)
	if err != nil {
		log.Logger().Error("failed to fit truncated svd", zap.Error(err))
		return func(_ string) []float64 {
			return make([]float64, data.CountItems())
		}
	}
	return func(target string) []float64 {
		if index := data.UserIndex(target); reconstruction != nil && target != NoTarget && index != dataset.NotId {
			return mat.Row(nil, index, reconstruction)
		}
		return append([]float64(nil), columnMeans...)
	}
}

func (svd *TruncatedSVD) factorize(data *dataset.Matrix) (*mat.Dense, []float64, error) {
	dense := data.Dense(svd.Binarize())
	if dense == nil {
		return nil, []float64{}, nil
	}
	var decomposition mat.SVD
	if !decomposition.Factorize(dense, mat.SVDThin) {
		return nil, nil, errors.New("singular value decomposition failed to converge")
	}
	values := decomposition.Values(nil)
	k := min(svd.NFactors(), len(values))
	var u, v mat.Dense
	decomposition.UTo(&u)
	decomposition.VTo(&v)
	rows, cols := dense.Dims()
	uk := u.Slice(0, rows, 0, k)
	vk := v.Slice(0, cols, 0, k)
	var us, reconstruction mat.Dense
	us.Mul(uk, mat.NewDiagDense(k, values[:k]))
	reconstruction.Mul(&us, vk.T())
	columnMeans := make([]float64, cols)
	for j := range columnMeans {
		columnMeans[j] = floats.Sum(mat.Col(nil, j, &reconstruction)) / float64(rows)
	}
	log.Logger().Debug("fit truncated svd",
		zap.Int("n_users", rows),
		zap.Int("n_items", cols),
		zap.Int("n_factors", k))
	return &reconstruction, columnMeans, nil
}
