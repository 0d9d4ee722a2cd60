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

package benchmark

import (
	"math"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

const delta = 1e-9

func TestNDCG(t *testing.T) {
	targetSet := mapset.NewSet("1", "3", "5", "7")
	rankList := []string{"1", "2", "3", "4", "5"}
	idcg := 1 + 1/math.Log2(3) + 1/math.Log2(4) + 1/math.Log2(5)
	dcg := 1 + 1/math.Log2(4) + 1/math.Log2(6)
	assert.InDelta(t, dcg/idcg, NDCG(targetSet, rankList), delta)
	assert.Zero(t, NDCG(targetSet, nil))
}

func TestPrecision(t *testing.T) {
	targetSet := mapset.NewSet("1", "3", "5", "7")
	rankList := []string{"1", "2", "3", "4", "5"}
	assert.InDelta(t, 0.6, Precision(targetSet, rankList), delta)
	assert.Zero(t, Precision(targetSet, nil))
}

func TestRecall(t *testing.T) {
	targetSet := mapset.NewSet("1", "3", "15", "17", "19")
	rankList := []string{"1", "2", "3", "4", "5"}
	assert.InDelta(t, 0.4, Recall(targetSet, rankList), delta)
	assert.Zero(t, Recall(mapset.NewSet[string](), rankList))
}

func TestHR(t *testing.T) {
	targetSet := mapset.NewSet("1", "3", "15", "17", "19")
	assert.Equal(t, 1.0, HR(targetSet, []string{"1", "2", "3", "4", "5"}))
	assert.Equal(t, 0.0, HR(targetSet, []string{"2", "4", "6"}))
	assert.Equal(t, 2.0, Hits(targetSet, []string{"1", "2", "3", "4", "5"}))
}
