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
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/gorse-io/recbench/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Filter returns a feed of the transactions for which expression is true. The
// expression sees the current record as "transaction", for example
// `transaction.User != "bot" && transaction.Timestamp.Year() >= 2012`.
// Corrupted records are carried over.
func (f *Feed) Filter(expression string) (*Feed, error) {
	if expression == "" {
		return NewFeed(f.transactions, f.Corrupted), nil
	}
	filterFunc, err := expr.Compile(expression, expr.Env(map[string]any{
		"transaction": Transaction{},
	}))
	if err != nil {
		return nil, errors.Annotatef(err, "failed to compile filter %q", expression)
	}
	if filterFunc.Node().Type().Kind() != reflect.Bool {
		return nil, errors.NotValidf("filter %q must return bool", expression)
	}
	kept := make([]Transaction, 0, len(f.transactions))
	for _, t := range f.transactions {
		result, err := expr.Run(filterFunc, map[string]any{
			"transaction": t,
		})
		if err != nil {
			return nil, errors.Annotatef(err, "failed to evaluate filter %q", expression)
		}
		if result.(bool) {
			kept = append(kept, t)
		}
	}
	log.Logger().Info("filter transactions",
		zap.String("filter", expression),
		zap.Int("n_kept", len(kept)),
		zap.Int("n_dropped", len(f.transactions)-len(kept)))
	return NewFeed(kept, f.Corrupted), nil
}
