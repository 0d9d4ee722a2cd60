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

	mapset "github.com/deckarep/golang-set/v2"
)

/* Evaluate Item Ranking */

// Metric evaluates one ranked list against the held-out items of one user.
type Metric func(targetSet mapset.Set[string], rankList []string) float64

// Hits counts recommended items that were held out.
func Hits(targetSet mapset.Set[string], rankList []string) float64 {
	hit := 0.0
	for _, itemId := range rankList {
		if targetSet.Contains(itemId) {
			hit++
		}
	}
	return hit
}

// NDCG means Normalized Discounted Cumulative Gain.
func NDCG(targetSet mapset.Set[string], rankList []string) float64 {
	// IDCG = \sum^{|REL|}_{i=1} \frac {1} {\log_2(i+1)}
	idcg := 0.0
	for i := 0; i < targetSet.Cardinality() && i < len(rankList); i++ {
		idcg += 1.0 / math.Log2(float64(i)+2.0)
	}
	if idcg == 0 {
		return 0
	}
	// DCG = \sum^{N}_{i=1} \frac {2^{rel_i}-1} {\log_2(i+1)}
	dcg := 0.0
	for i, itemId := range rankList {
		if targetSet.Contains(itemId) {
			dcg += 1.0 / math.Log2(float64(i)+2.0)
		}
	}
	return dcg / idcg
}

// Precision is the fraction of relevant items among the recommended items.
//
//	\frac{|relevant documents| \cap |retrieved documents|} {|{retrieved documents}|}
func Precision(targetSet mapset.Set[string], rankList []string) float64 {
	if len(rankList) == 0 {
		return 0
	}
	return Hits(targetSet, rankList) / float64(len(rankList))
}

// Recall is the fraction of relevant items that have been recommended.
//
//	\frac{|relevant documents| \cap |retrieved documents|} {|{relevant documents}|}
func Recall(targetSet mapset.Set[string], rankList []string) float64 {
	if targetSet.Cardinality() == 0 {
		return 0
	}
	return Hits(targetSet, rankList) / float64(targetSet.Cardinality())
}

// HR means Hit Ratio.
func HR(targetSet mapset.Set[string], rankList []string) float64 {
	for _, itemId := range rankList {
		if targetSet.Contains(itemId) {
			return 1
		}
	}
	return 0
}
