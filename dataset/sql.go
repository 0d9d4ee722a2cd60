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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/log"
	"github.com/gorse-io/recbench/storage"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// SQLQuery names the table and columns transactions are read from.
type SQLQuery struct {
	Table     string
	Timestamp string
	User      string
	Item      string
	Limit     int
}

// LoadSQL reads transactions from a table of a SQL database. Incomplete
// records are logged and skipped.
func LoadSQL(ctx context.Context, path string, query SQLQuery) (*Feed, error) {
	db, err := storage.OpenGORM(path, "")
	if err != nil {
		return nil, errors.Trace(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	tx := db.WithContext(ctx).Table(query.Table).Select([]string{query.Timestamp, query.User, query.Item})
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	rows, err := tx.Rows()
	if err != nil {
		return nil, errors.Annotatef(err, "failed to query table %s", query.Table)
	}
	defer rows.Close()

	var (
		transactions []Transaction
		corrupted    int
	)
	for rows.Next() {
		var timestamp, user, item any
		if err = rows.Scan(&timestamp, &user, &item); err != nil {
			return nil, errors.Trace(err)
		}
		userId, itemId := sqlString(user), sqlString(item)
		if timestamp == nil || userId == "" || itemId == "" {
			log.Logger().Warn("Incomplete record returned from database. Skipping.")
			corrupted++
			continue
		}
		t, err := sqlTime(timestamp)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, Transaction{Timestamp: t, User: userId, Item: itemId})
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	if fetched := len(transactions) + corrupted; query.Limit > 0 && fetched < query.Limit {
		log.Logger().Warn(fmt.Sprintf("Requested %d transactions from table %s but only %d available. Fetched all %d.",
			query.Limit, query.Table, fetched, fetched))
	}
	log.Logger().Info("read transactions from database",
		zap.String("database", log.RedactDBURL(path)),
		zap.String("table", query.Table),
		zap.Int("n_accepted", len(transactions)),
		zap.Int("n_corrupted", corrupted))
	return NewFeed(transactions, corrupted), nil
}

func sqlString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	default:
		return fmt.Sprint(v)
	}
}

func sqlTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case string:
		if t, err := dateparse.ParseIn(v, time.UTC); err == nil {
			return t, nil
		}
	case []byte:
		if t, err := dateparse.ParseIn(string(v), time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, base.NotValid("Type of timestamp field is neither integer nor timestamp!",
		"timestamp field must be an integer or a timestamp", zap.Any("timestamp", value))
}
