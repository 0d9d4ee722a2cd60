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
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	DefaultHoldOut = 5
	DefaultOnlyNew = true
)

// TestSet holds the held-out items of every user eligible for testing.
type TestSet struct {
	users   []string
	items   map[string][]string
	sets    map[string]mapset.Set[string]
	holdOut int
	onlyNew bool
}

// HoldOut returns the number of items held out per user.
func (t *TestSet) HoldOut() int {
	return t.holdOut
}

// OnlyNew reports whether the training data excludes every held-out item of
// a user (pruning_old) or only the held-out transactions (keeping_old).
func (t *TestSet) OnlyNew() bool {
	return t.onlyNew
}

// NumberOfCases returns the number of test users.
func (t *TestSet) NumberOfCases() int {
	return len(t.users)
}

// CountHeldOut returns the total number of held-out items.
func (t *TestSet) CountHeldOut() int {
	return lo.SumBy(t.users, func(user string) int { return len(t.items[user]) })
}

// Users returns test users in order of first appearance.
func (t *TestSet) Users() []string {
	return append([]string(nil), t.users...)
}

// Items returns the held-out items of a user, most recent first.
func (t *TestSet) Items(user string) []string {
	return append([]string(nil), t.items[user]...)
}

// HeldOut returns a copy of the held-out item set of a user.
func (t *TestSet) HeldOut(user string) mapset.Set[string] {
	if set, ok := t.sets[user]; ok {
		return set.Clone()
	}
	return mapset.NewThreadUnsafeSet[string]()
}

// TrainTest is the outcome of a split.
type TrainTest struct {
	Train        *Matrix
	Test         *TestSet
	transactions []Transaction
}

// Transactions returns a copy of training transactions.
func (s *TrainTest) Transactions() []Transaction {
	return append([]Transaction(nil), s.transactions...)
}

// SplitWithParams splits the feed with parameters from configuration:
// hold_out (int), only_new (bool) and keep_ineligible (bool).
func (f *Feed) SplitWithParams(params base.Params) (*TrainTest, error) {
	onlyNew, err := params.GetBool(base.OnlyNew, DefaultOnlyNew)
	if err != nil {
		return nil, base.NotValid(`Attempt to set "only_new" to non-boolean type.`,
			`flag "only_new" can only be true or false`)
	}
	holdOut, err := params.GetInt(base.HoldOut, DefaultHoldOut)
	if err != nil {
		return nil, base.NotValid(`Attempt to set "hold_out" to non-integer type.`,
			`parameter "hold_out" must be an integer`)
	}
	keepIneligible, err := params.GetBool(base.KeepIneligible, false)
	if err != nil {
		return nil, base.NotValid(`Attempt to set "keep_ineligible" to non-boolean type.`,
			`flag "keep_ineligible" can only be true or false`)
	}
	return f.split(holdOut, onlyNew, keepIneligible), nil
}

// Split holds out the holdOut most recent distinct items of every user with
// at least that many distinct items. Users with fewer are left out of both
// parts.
func (f *Feed) Split(holdOut int, onlyNew bool) *TrainTest {
	return f.split(holdOut, onlyNew, false)
}

func (f *Feed) clampHoldOut(holdOut int) int {
	if holdOut < 1 {
		log.Logger().Warn("Attempt to set hold_out < 1. Resetting to 1.")
		holdOut = 1
	}
	if maxHoldOut := f.MaxHoldOut(); maxHoldOut >= 1 && holdOut > maxHoldOut {
		log.Logger().Warn(fmt.Sprintf("Hold_out > meaningful maximum of %d. Resetting to %d.", maxHoldOut, maxHoldOut))
		holdOut = maxHoldOut
	}
	return holdOut
}

func (f *Feed) split(holdOut int, onlyNew, keepIneligible bool) *TrainTest {
	holdOut = f.clampHoldOut(holdOut)
	test := &TestSet{
		items:   make(map[string][]string),
		sets:    make(map[string]mapset.Set[string]),
		holdOut: holdOut,
		onlyNew: onlyNew,
	}
	// pairs of held-out items and their latest timestamps
	heldOut := make(map[string]map[string]time.Time)
	for _, user := range f.LastUnique.Users() {
		items := f.LastUnique.Items(user)
		if len(items) < holdOut {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Timestamp.After(items[j].Timestamp)
		})
		items = items[:holdOut]
		test.users = append(test.users, user)
		test.items[user] = lo.Map(items, func(e LastSeen, _ int) string { return e.Item })
		test.sets[user] = mapset.NewThreadUnsafeSet(test.items[user]...)
		heldOut[user] = lo.SliceToMap(items, func(e LastSeen) (string, time.Time) { return e.Item, e.Timestamp })
	}

	train := make([]Transaction, 0, len(f.transactions))
	for _, t := range f.transactions {
		pairs, eligible := heldOut[t.User]
		if !eligible {
			if keepIneligible {
				train = append(train, t)
			}
			continue
		}
		timestamp, held := pairs[t.Item]
		if onlyNew && held {
			continue
		}
		if !onlyNew && held && timestamp.Equal(t.Timestamp) {
			continue
		}
		train = append(train, t)
	}
	log.Logger().Debug("split transactions",
		zap.Int("hold_out", holdOut),
		zap.Bool("only_new", onlyNew),
		zap.Int("n_cases", test.NumberOfCases()),
		zap.Int("n_train", len(train)))
	return &TrainTest{
		Train:        NewMatrix(train),
		Test:         test,
		transactions: train,
	}
}
