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
	"sort"

	"github.com/gorse-io/recbench/base"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

var builtIn = map[string]func() Algorithm{
	"baseline":      func() Algorithm { return NewBaseline() },
	"most_popular":  func() Algorithm { return NewMostPopular() },
	"truncated_svd": func() Algorithm { return NewTruncatedSVD() },
}

// Names returns names of built-in algorithms.
func Names() []string {
	names := lo.Keys(builtIn)
	sort.Strings(names)
	return names
}

// New creates a built-in algorithm by name.
func New(name string, params base.Params) (Algorithm, error) {
	create, exist := builtIn[name]
	if !exist {
		return nil, errors.NotFoundf("algorithm %s", name)
	}
	algorithm := create()
	if err := algorithm.SetParams(params); err != nil {
		return nil, err
	}
	return algorithm, nil
}
