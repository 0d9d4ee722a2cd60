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
	"time"

	"github.com/samber/lo"
)

// Transaction is a single timestamped interaction of a user with an item.
type Transaction struct {
	Timestamp time.Time
	User      string
	Item      string
}

// LastSeen is the most recent time a user interacted with an item.
type LastSeen struct {
	Item      string
	Timestamp time.Time
}

// LastUniqueIndex holds, for each user, the distinct items the user
// interacted with and the latest timestamp of each. Users and items are kept
// in order of first appearance.
type LastUniqueIndex struct {
	users    []string
	entries  map[string][]LastSeen
	position map[string]map[string]int
}

func NewLastUniqueIndex() *LastUniqueIndex {
	return &LastUniqueIndex{
		entries:  make(map[string][]LastSeen),
		position: make(map[string]map[string]int),
	}
}

// Add folds a transaction into the index.
func (idx *LastUniqueIndex) Add(t Transaction) {
	items, exist := idx.position[t.User]
	if !exist {
		items = make(map[string]int)
		idx.position[t.User] = items
		idx.users = append(idx.users, t.User)
	}
	if pos, ok := items[t.Item]; ok {
		if t.Timestamp.After(idx.entries[t.User][pos].Timestamp) {
			idx.entries[t.User][pos].Timestamp = t.Timestamp
		}
		return
	}
	items[t.Item] = len(idx.entries[t.User])
	idx.entries[t.User] = append(idx.entries[t.User], LastSeen{Item: t.Item, Timestamp: t.Timestamp})
}

// Users returns users in order of first appearance.
func (idx *LastUniqueIndex) Users() []string {
	return append([]string(nil), idx.users...)
}

// Items returns a copy of the distinct items of a user.
func (idx *LastUniqueIndex) Items(user string) []LastSeen {
	return append([]LastSeen(nil), idx.entries[user]...)
}

// CountItems returns the number of distinct items of a user.
func (idx *LastUniqueIndex) CountItems(user string) int {
	return len(idx.entries[user])
}

// MaxCountItems returns the largest number of distinct items of any user.
func (idx *LastUniqueIndex) MaxCountItems() int {
	return lo.Max(lo.Map(idx.users, func(user string, _ int) int {
		return len(idx.entries[user])
	}))
}

// Feed is the result of reading transactions from a source: the accepted
// transactions in source order, the number of corrupted records skipped, and
// the index of last unique items.
type Feed struct {
	Accepted     int
	Corrupted    int
	LastUnique   *LastUniqueIndex
	transactions []Transaction
	matrix       *Matrix
}

// NewFeed creates a feed from accepted transactions.
func NewFeed(transactions []Transaction, corrupted int) *Feed {
	lastUnique := NewLastUniqueIndex()
	for _, t := range transactions {
		lastUnique.Add(t)
	}
	return &Feed{
		Accepted:     len(transactions),
		Corrupted:    corrupted,
		LastUnique:   lastUnique,
		transactions: append([]Transaction(nil), transactions...),
	}
}

// Transactions returns a copy of accepted transactions.
func (f *Feed) Transactions() []Transaction {
	return append([]Transaction(nil), f.transactions...)
}

// MaxHoldOut is the largest hold-out for which at least one user stays eligible.
func (f *Feed) MaxHoldOut() int {
	return f.LastUnique.MaxCountItems()
}

// Matrix returns the interaction matrix of all transactions.
func (f *Feed) Matrix() *Matrix {
	if f.matrix == nil {
		f.matrix = NewMatrix(f.transactions)
	}
	return f.matrix
}
