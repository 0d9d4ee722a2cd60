// Copyright 2022 gorse Project Authors
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

package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

type Elem[E any, W constraints.Ordered] struct {
	Value  E
	Weight W
	seq    int
}

// _heap is a min-heap: the root is the worst element, i.e. the lowest weight
// or, among equal weights, the latest pushed.
type _heap[T any, W constraints.Ordered] struct {
	elems []Elem[T, W]
}

func (e *_heap[T, W]) Len() int {
	return len(e.elems)
}

func (e *_heap[T, W]) Less(i, j int) bool {
	return worse(e.elems[i], e.elems[j])
}

func (e *_heap[T, W]) Swap(i, j int) {
	e.elems[i], e.elems[j] = e.elems[j], e.elems[i]
}

func (e *_heap[T, W]) Push(x interface{}) {
	it := x.(Elem[T, W])
	e.elems = append(e.elems, it)
}

func (e *_heap[T, W]) Pop() interface{} {
	old := e.elems
	item := e.elems[len(old)-1]
	e.elems = old[0 : len(old)-1]
	return item
}

func worse[T any, W constraints.Ordered](a, b Elem[T, W]) bool {
	if a.Weight != b.Weight {
		return a.Weight < b.Weight
	}
	return a.seq > b.seq
}

// TopKFilter keeps the k elements with the highest weights. Among equal
// weights, elements pushed earlier win.
type TopKFilter[T any, W constraints.Ordered] struct {
	_heap[T, W]
	k   int
	seq int
}

// NewTopKFilter creates a filter keeping at most k elements.
func NewTopKFilter[T any, W constraints.Ordered](k int) *TopKFilter[T, W] {
	return &TopKFilter[T, W]{k: k}
}

// Push offers an element to the filter.
func (f *TopKFilter[T, W]) Push(value T, weight W) {
	if f.k <= 0 {
		return
	}
	elem := Elem[T, W]{Value: value, Weight: weight, seq: f.seq}
	f.seq++
	if f.Len() < f.k {
		heap.Push(&f._heap, elem)
	} else if worse(f.elems[0], elem) {
		f.elems[0] = elem
		heap.Fix(&f._heap, 0)
	}
}

// PopAll removes all elements, best first.
func (f *TopKFilter[T, W]) PopAll() ([]T, []W) {
	n := f.Len()
	values := make([]T, n)
	weights := make([]W, n)
	for i := n - 1; i >= 0; i-- {
		elem := heap.Pop(&f._heap).(Elem[T, W])
		values[i], weights[i] = elem.Value, elem.Weight
	}
	return values, weights
}
