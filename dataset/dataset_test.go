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
	"testing"
	"time"

	"github.com/gorse-io/recbench/base/log"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	core, logs := observer.New(level)
	t.Cleanup(log.ReplaceLogger(zap.New(core)))
	return logs
}

func messages(logs *observer.ObservedLogs) []string {
	return lo.Map(logs.All(), func(e observer.LoggedEntry, _ int) string { return e.Message })
}

func at(day, hour, minute int) time.Time {
	return time.Date(2012, 3, day, hour, minute, 0, 0, time.UTC)
}

func loadData50(t *testing.T) *Feed {
	feed, err := LoadCSV("testdata/data50.csv")
	assert.NoError(t, err)
	return feed
}

func TestLastUniqueIndex(t *testing.T) {
	idx := NewLastUniqueIndex()
	idx.Add(Transaction{Timestamp: at(1, 8, 0), User: "a", Item: "x"})
	idx.Add(Transaction{Timestamp: at(1, 9, 0), User: "b", Item: "y"})
	idx.Add(Transaction{Timestamp: at(1, 10, 0), User: "a", Item: "z"})
	idx.Add(Transaction{Timestamp: at(1, 11, 0), User: "a", Item: "x"})
	// older records never move the last time back
	idx.Add(Transaction{Timestamp: at(1, 7, 0), User: "a", Item: "x"})
	assert.Equal(t, []string{"a", "b"}, idx.Users())
	assert.Equal(t, []LastSeen{
		{Item: "x", Timestamp: at(1, 11, 0)},
		{Item: "z", Timestamp: at(1, 10, 0)},
	}, idx.Items("a"))
	assert.Equal(t, 2, idx.CountItems("a"))
	assert.Equal(t, 0, idx.CountItems("c"))
	assert.Equal(t, 2, idx.MaxCountItems())
	// returned slices are copies
	items := idx.Items("a")
	items[0].Item = "changed"
	assert.Equal(t, "x", idx.Items("a")[0].Item)
}

func TestNewFeed(t *testing.T) {
	transactions := []Transaction{
		{Timestamp: at(1, 8, 0), User: "a", Item: "x"},
		{Timestamp: at(1, 9, 0), User: "a", Item: "x"},
	}
	feed := NewFeed(transactions, 3)
	assert.Equal(t, 2, feed.Accepted)
	assert.Equal(t, 3, feed.Corrupted)
	assert.Equal(t, 1, feed.MaxHoldOut())
	assert.Equal(t, transactions, feed.Transactions())
	transactions[0].User = "b"
	assert.Equal(t, "a", feed.Transactions()[0].User)
	assert.Same(t, feed.Matrix(), feed.Matrix())
	assert.Equal(t, 1, feed.Matrix().CountUsers())
	// empty feed
	empty := NewFeed(nil, 0)
	assert.Equal(t, 0, empty.MaxHoldOut())
	assert.Equal(t, 0, empty.Matrix().CountItems())
}

func TestFeedData50(t *testing.T) {
	feed := loadData50(t)
	assert.Equal(t, 50, feed.Accepted)
	assert.Equal(t, 0, feed.Corrupted)
	assert.Equal(t, 7, feed.MaxHoldOut())
	assert.Equal(t, at(1, 8, 0), feed.Transactions()[0].Timestamp)
	assert.Equal(t, 12, len(feed.LastUnique.Users()))
	assert.Equal(t, []LastSeen{{Item: "sku-02", Timestamp: at(2, 9, 45)}, {Item: "sku-11", Timestamp: at(2, 10, 0)},
		{Item: "sku-17", Timestamp: at(3, 9, 0)}}, feed.LastUnique.Items("u08"))
}
