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
	"path/filepath"
	"testing"

	"github.com/gorse-io/recbench/storage"
	"github.com/juju/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"
)

type SQLTestSuite struct {
	suite.Suite
	path string
}

func (suite *SQLTestSuite) SetupTest() {
	suite.path = storage.SQLitePrefix + filepath.Join(suite.T().TempDir(), "feed.db")
	db, err := storage.OpenGORM(suite.path, "")
	suite.Require().NoError(err)
	for _, statement := range []string{
		"CREATE TABLE purchases (ts INTEGER, user_id TEXT, item_id TEXT)",
		"INSERT INTO purchases VALUES (1330588800, 'u00', 'sku-00')",
		"INSERT INTO purchases VALUES (1330589100, 'u01', 'sku-01')",
		"INSERT INTO purchases VALUES (NULL, 'u01', 'sku-01')",
		"INSERT INTO purchases VALUES (1330589400, NULL, 'sku-02')",
		"INSERT INTO purchases VALUES (1330589700, 'u01', '')",
		"INSERT INTO purchases VALUES (1330590000, 'u02', 'sku-01')",
		"CREATE TABLE clicks (happened TEXT, visitor TEXT, article TEXT)",
		"INSERT INTO clicks VALUES ('2012-03-01 08:00:00', 'u00', 'sku-00')",
		"CREATE TABLE broken (ts REAL, user_id TEXT, item_id TEXT)",
		"INSERT INTO broken VALUES (1.5, 'u00', 'sku-00')",
	} {
		suite.Require().NoError(db.Exec(statement).Error)
	}
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())
}

func (suite *SQLTestSuite) TestLoadSQL() {
	logs := observeLogs(suite.T(), zapcore.WarnLevel)
	feed, err := LoadSQL(context.Background(), suite.path, SQLQuery{
		Table: "purchases", Timestamp: "ts", User: "user_id", Item: "item_id",
	})
	suite.NoError(err)
	suite.Equal(3, feed.Accepted)
	suite.Equal(3, feed.Corrupted)
	suite.Equal([]string{
		"Incomplete record returned from database. Skipping.",
		"Incomplete record returned from database. Skipping.",
		"Incomplete record returned from database. Skipping.",
	}, messages(logs))
	suite.Equal(Transaction{Timestamp: at(1, 8, 0), User: "u00", Item: "sku-00"}, feed.Transactions()[0])
	suite.Equal([]string{"u00", "u01", "u02"}, feed.LastUnique.Users())
	suite.Equal([]float64{1, 2}, feed.Matrix().ColumnNNZ())
}

func (suite *SQLTestSuite) TestLoadSQLLimit() {
	logs := observeLogs(suite.T(), zapcore.WarnLevel)
	feed, err := LoadSQL(context.Background(), suite.path, SQLQuery{
		Table: "purchases", Timestamp: "ts", User: "user_id", Item: "item_id", Limit: 2,
	})
	suite.NoError(err)
	suite.Equal(2, feed.Accepted)
	suite.Equal(0, logs.Len())
	feed, err = LoadSQL(context.Background(), suite.path, SQLQuery{
		Table: "purchases", Timestamp: "ts", User: "user_id", Item: "item_id", Limit: 10,
	})
	suite.NoError(err)
	suite.Equal(3, feed.Accepted)
	suite.Contains(messages(logs), "Requested 10 transactions from table purchases but only 6 available. Fetched all 6.")
}

func (suite *SQLTestSuite) TestLoadSQLTextTimestamp() {
	feed, err := LoadSQL(context.Background(), suite.path, SQLQuery{
		Table: "clicks", Timestamp: "happened", User: "visitor", Item: "article",
	})
	suite.NoError(err)
	suite.Equal([]Transaction{{Timestamp: at(1, 8, 0), User: "u00", Item: "sku-00"}}, feed.Transactions())
}

func (suite *SQLTestSuite) TestLoadSQLErrors() {
	logs := observeLogs(suite.T(), zapcore.ErrorLevel)
	_, err := LoadSQL(context.Background(), suite.path, SQLQuery{
		Table: "broken", Timestamp: "ts", User: "user_id", Item: "item_id",
	})
	suite.True(errors.IsNotValid(err))
	suite.Equal([]string{"Type of timestamp field is neither integer nor timestamp!"}, messages(logs))
	// unknown table
	_, err = LoadSQL(context.Background(), suite.path, SQLQuery{
		Table: "missing", Timestamp: "ts", User: "user_id", Item: "item_id",
	})
	suite.Error(err)
	suite.False(errors.IsNotValid(err))
	// unsupported database
	_, err = LoadSQL(context.Background(), "redis://localhost:6379/0", SQLQuery{})
	suite.True(errors.IsNotSupported(err))
}

func TestSQL(t *testing.T) {
	suite.Run(t, new(SQLTestSuite))
}
