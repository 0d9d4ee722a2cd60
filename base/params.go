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

package base

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

// ParamName is a string.
type ParamName string

// Predefined parameter names
const (
	HoldOut        ParamName = "hold_out"
	OnlyNew        ParamName = "only_new"
	KeepIneligible ParamName = "keep_ineligible"
	Binarize       ParamName = "binarize"
	NFactors       ParamName = "n_factors"
)

// Params for an algorithm or a split. Given by:
//
//	map[string]interface{}{
//	   "<parameter name 1>": <parameter value 1>,
//	   "<parameter name 2>": <parameter value 2>,
//	   ...
//	   "<parameter name n>": <parameter value n>,
//	}
//
// Values come from configuration files, so the getters check types instead of
// asserting them.
type Params map[ParamName]interface{}

// NewParams converts a decoded configuration table into parameters.
func NewParams(values map[string]interface{}) Params {
	params := make(Params, len(values))
	for k, v := range values {
		params[ParamName(k)] = v
	}
	return params
}

// Copy parameters.
func (parameters Params) Copy() Params {
	newParams := make(Params, len(parameters))
	for k, v := range parameters {
		newParams[k] = v
	}
	return newParams
}

// Has reports whether a parameter is set.
func (parameters Params) Has(name ParamName) bool {
	_, exist := parameters[name]
	return exist
}

// GetInt gets an integer parameter. Integral floats are accepted since TOML
// and JSON decoders may produce them.
func (parameters Params) GetInt(name ParamName, _default int) (int, error) {
	val, exist := parameters[name]
	if !exist {
		return _default, nil
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return _default, errors.NewNotValid(nil, fmt.Sprintf("parameter %q must be an integer", name))
}

// GetBool gets a bool parameter.
func (parameters Params) GetBool(name ParamName, _default bool) (bool, error) {
	val, exist := parameters[name]
	if !exist {
		return _default, nil
	}
	if v, ok := val.(bool); ok {
		return v, nil
	}
	return _default, errors.NewNotValid(nil, fmt.Sprintf("parameter %q must be true or false", name))
}

// Overwrite returns a copy of parameters with params applied on top.
func (parameters Params) Overwrite(params Params) Params {
	newParams := parameters.Copy()
	for k, v := range params {
		newParams[k] = v
	}
	return newParams
}

// String formats parameters in name order, e.g. "binarize=true n_factors=2".
func (parameters Params) String() string {
	names := lo.Keys(parameters)
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	parts := lo.Map(names, func(name ParamName, _ int) string {
		return fmt.Sprintf("%s=%v", name, parameters[name])
	})
	return strings.Join(parts, " ")
}
