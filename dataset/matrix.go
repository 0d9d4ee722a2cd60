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

package dataset

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SparseVector is a sparse vector ordered by index.
type SparseVector struct {
	Indices []int32
	Values  []float64
}

// Len returns the number of stored entries.
func (vec SparseVector) Len() int {
	return len(vec.Indices)
}

// Sum returns the sum of stored values.
func (vec SparseVector) Sum() float64 {
	return floats.Sum(vec.Values)
}

// Dense expands the vector to length n.
func (vec SparseVector) Dense(n int) []float64 {
	dense := make([]float64, n)
	for i, index := range vec.Indices {
		dense[index] = vec.Values[i]
	}
	return dense
}

// Contains reports whether index is stored.
func (vec SparseVector) Contains(index int) bool {
	i := sort.Search(len(vec.Indices), func(i int) bool { return vec.Indices[i] >= int32(index) })
	return i < len(vec.Indices) && vec.Indices[i] == int32(index)
}

func (vec SparseVector) copy(binarize bool) SparseVector {
	c := SparseVector{
		Indices: append([]int32(nil), vec.Indices...),
		Values:  make([]float64, len(vec.Values)),
	}
	if binarize {
		for i := range c.Values {
			c.Values[i] = 1
		}
	} else {
		copy(c.Values, vec.Values)
	}
	return c
}

// Matrix is an immutable user-item interaction matrix. Rows are users and
// columns are items, both indexed in order of first appearance. Weighted
// values count interactions; binarized values mark presence.
type Matrix struct {
	users *FreqDict
	items *FreqDict
	rows  []SparseVector
	cols  []SparseVector
}

// NewMatrix builds a matrix from transactions. Repeated (user, item) pairs
// accumulate into the weighted count.
func NewMatrix(transactions []Transaction) *Matrix {
	m := &Matrix{users: NewFreqDict(), items: NewFreqDict()}
	pairs := make([][2]int32, len(transactions))
	for i, t := range transactions {
		pairs[i] = [2]int32{int32(m.users.Id(t.User)), int32(m.items.Id(t.Item))}
	}
	counts := make([]map[int32]float64, m.users.Count())
	for u := range counts {
		counts[u] = make(map[int32]float64, m.users.Freq(u))
	}
	for _, p := range pairs {
		counts[p[0]][p[1]]++
	}
	m.rows = make([]SparseVector, m.users.Count())
	m.cols = make([]SparseVector, m.items.Count())
	for u, row := range counts {
		indices := lo.Keys(row)
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
		values := lo.Map(indices, func(i int32, _ int) float64 { return row[i] })
		m.rows[u] = SparseVector{Indices: indices, Values: values}
		for k, i := range indices {
			// users are visited in ascending order so columns stay sorted
			m.cols[i].Indices = append(m.cols[i].Indices, int32(u))
			m.cols[i].Values = append(m.cols[i].Values, values[k])
		}
	}
	return m
}

// Matrix returns the receiver.
func (m *Matrix) Matrix() *Matrix {
	return m
}

func (m *Matrix) CountUsers() int {
	return m.users.Count()
}

func (m *Matrix) CountItems() int {
	return m.items.Count()
}

// CountNonZero returns the number of distinct (user, item) pairs.
func (m *Matrix) CountNonZero() int {
	return lo.SumBy(m.rows, func(row SparseVector) int { return row.Len() })
}

// UserIndex returns the row of a user or NotId.
func (m *Matrix) UserIndex(user string) int {
	return m.users.Index(user)
}

// ItemIndex returns the column of an item or NotId.
func (m *Matrix) ItemIndex(item string) int {
	return m.items.Index(item)
}

// Users returns user IDs ordered by row.
func (m *Matrix) Users() []string {
	return m.users.Names()
}

// Items returns item IDs ordered by column.
func (m *Matrix) Items() []string {
	return m.items.Names()
}

// Item returns the ID of a column.
func (m *Matrix) Item(index int) string {
	name, _ := m.items.String(index)
	return name
}

// Row returns a copy of a user row.
func (m *Matrix) Row(user int, binarize bool) SparseVector {
	return m.rows[user].copy(binarize)
}

// Col returns a copy of an item column.
func (m *Matrix) Col(item int, binarize bool) SparseVector {
	return m.cols[item].copy(binarize)
}

// UserRow returns a copy of the row of a user ID.
func (m *Matrix) UserRow(user string, binarize bool) (SparseVector, bool) {
	index := m.users.Index(user)
	if index == NotId {
		return SparseVector{}, false
	}
	return m.Row(index, binarize), true
}

// ColumnNNZ returns the number of distinct users of each item.
func (m *Matrix) ColumnNNZ() []float64 {
	return lo.Map(m.cols, func(col SparseVector, _ int) float64 { return float64(col.Len()) })
}

// ColumnSums returns the number of interactions with each item.
func (m *Matrix) ColumnSums() []float64 {
	return lo.Map(m.cols, func(col SparseVector, _ int) float64 { return col.Sum() })
}

// Dense returns an independent dense copy, or nil if the matrix is empty.
func (m *Matrix) Dense(binarize bool) *mat.Dense {
	if m.CountUsers() == 0 || m.CountItems() == 0 {
		return nil
	}
	dense := mat.NewDense(m.CountUsers(), m.CountItems(), nil)
	for u, row := range m.rows {
		for k, i := range row.Indices {
			if binarize {
				dense.Set(u, int(i), 1)
			} else {
				dense.Set(u, int(i), row.Values[k])
			}
		}
	}
	return dense
}
