// Copyright 2022 gorse Project Authors
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

package storage

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/go-sql-driver/mysql"
	"github.com/gorse-io/recbench/base/log"
	"github.com/juju/errors"
	"github.com/samber/lo"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"moul.io/zapgorm2"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	MySQLPrefix      = "mysql://"
	PostgresPrefix   = "postgres://"
	PostgreSQLPrefix = "postgresql://"
	SQLitePrefix     = "sqlite://"
	CSVPrefix        = "csv://"
)

// IsSQL reports whether a data source name refers to a SQL database.
func IsSQL(path string) bool {
	return strings.HasPrefix(path, MySQLPrefix) ||
		strings.HasPrefix(path, PostgresPrefix) ||
		strings.HasPrefix(path, PostgreSQLPrefix) ||
		strings.HasPrefix(path, SQLitePrefix)
}

func AppendURLParams(rawURL string, params []lo.Tuple2[string, string]) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Trace(err)
	}
	q := parsed.Query()
	for _, tuple := range params {
		q.Add(tuple.A, tuple.B)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// AppendMySQLParams adds params missing from the query of a MySQL DSN.
// The DSN is kept as written since the driver folds some keys, such as
// parseTime, into typed fields.
func AppendMySQLParams(dsn string, params map[string]string) (string, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", errors.Trace(err)
	}
	existed := make(map[string]struct{})
	if i := strings.LastIndex(dsn, "?"); i >= 0 {
		for _, pair := range strings.Split(dsn[i+1:], "&") {
			key, _, _ := strings.Cut(pair, "=")
			existed[key] = struct{}{}
		}
	}
	keys := lo.Keys(params)
	slices.Sort(keys)
	var builder strings.Builder
	builder.WriteString(dsn)
	separator := lo.Ternary(strings.Contains(dsn, "?"), "&", "?")
	for _, key := range keys {
		if _, exist := existed[key]; exist {
			continue
		}
		builder.WriteString(separator)
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(url.QueryEscape(params[key]))
		separator = "&"
	}
	return builder.String(), nil
}

type TablePrefix string

func (tp TablePrefix) RunsTable() string {
	return string(tp) + "runs"
}

func NewGORMConfig(tablePrefix string) *gorm.Config {
	return &gorm.Config{
		Logger: &zapgorm2.Logger{
			ZapLogger:                 log.Logger(),
			LogLevel:                  logger.Warn,
			SlowThreshold:             10 * time.Second,
			SkipCallerLookup:          false,
			IgnoreRecordNotFoundError: false,
		},
		CreateBatchSize:        1000,
		SkipDefaultTransaction: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: true,
		},
	}
}

// OpenGORM connects to a SQL database by data source name.
func OpenGORM(path, tablePrefix string, opts ...Option) (*gorm.DB, error) {
	option := NewOptions(opts...)
	var err error
	if strings.HasPrefix(path, MySQLPrefix) {
		name := path[len(MySQLPrefix):]
		if name, err = AppendMySQLParams(name, map[string]string{
			"parseTime": "true",
		}); err != nil {
			return nil, errors.Trace(err)
		}
		client, err := otelsql.Open("mysql", name,
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}))
		if err != nil {
			return nil, errors.Trace(err)
		}
		ApplySQLPool(client, option)
		db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: client}), NewGORMConfig(tablePrefix))
		return db, errors.Trace(err)
	} else if strings.HasPrefix(path, PostgresPrefix) || strings.HasPrefix(path, PostgreSQLPrefix) {
		client, err := otelsql.Open("postgres", path,
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}))
		if err != nil {
			return nil, errors.Trace(err)
		}
		ApplySQLPool(client, option)
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: client}), NewGORMConfig(tablePrefix))
		return db, errors.Trace(err)
	} else if strings.HasPrefix(path, SQLitePrefix) {
		// append parameters
		if path, err = AppendURLParams(path, []lo.Tuple2[string, string]{
			{A: "_pragma", B: "busy_timeout(10000)"},
			{A: "_pragma", B: "journal_mode(wal)"},
		}); err != nil {
			return nil, errors.Trace(err)
		}
		name := path[len(SQLitePrefix):]
		client, err := otelsql.Open("sqlite", name,
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}))
		if err != nil {
			return nil, errors.Trace(err)
		}
		ApplySQLPool(client, option)
		db, err := gorm.Open(sqlite.Dialector{Conn: client}, NewGORMConfig(tablePrefix))
		return db, errors.Trace(err)
	}
	return nil, errors.NotSupportedf("database %s", log.RedactDBURL(path))
}
