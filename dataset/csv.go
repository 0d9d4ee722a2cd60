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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// AnyTimeLayout makes the CSV reader guess the layout of every timestamp.
const AnyTimeLayout = "any"

type CSVOptions struct {
	Separator  string
	TimeLayout string
	Location   *time.Location
}

type CSVOption func(*CSVOptions)

// WithSeparator sets the field separator. The default is ";".
func WithSeparator(separator string) CSVOption {
	return func(o *CSVOptions) {
		o.Separator = separator
	}
}

// WithTimeLayout sets the layout of timestamps. Empty means integer UNIX
// epoch seconds and AnyTimeLayout guesses the layout.
func WithTimeLayout(layout string) CSVOption {
	return func(o *CSVOptions) {
		o.TimeLayout = layout
	}
}

// WithLocation sets the location of timestamps without zone information.
func WithLocation(location *time.Location) CSVOption {
	return func(o *CSVOptions) {
		o.Location = location
	}
}

func NewCSVOptions(opts ...CSVOption) CSVOptions {
	opt := CSVOptions{
		Separator: ";",
		Location:  time.UTC,
	}
	for _, o := range opts {
		o(&opt)
	}
	return opt
}

func (o CSVOptions) parseTime(text string) (time.Time, error) {
	switch o.TimeLayout {
	case "":
		seconds, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return time.Time{}, errors.Trace(err)
		}
		return time.Unix(seconds, 0).In(o.Location), nil
	case AnyTimeLayout:
		return dateparse.ParseIn(text, o.Location)
	default:
		return time.ParseInLocation(o.TimeLayout, text, o.Location)
	}
}

// LoadCSV reads transactions from a file with one "timestamp;user;item"
// record per line. Corrupted records are logged and skipped.
func LoadCSV(path string, opts ...CSVOption) (*Feed, error) {
	options := NewCSVOptions(opts...)
	if options.Separator == "" {
		return nil, base.NotValid("Attempt to set separator argument to empty string.",
			"separator argument must be a non-empty string")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	var (
		transactions []Transaction
		corrupted    int
	)
	err = base.ReadLines(bufio.NewScanner(file), options.Separator, func(line int, fields []string) bool {
		if len(fields) != 3 {
			log.Logger().Warn(fmt.Sprintf("Could not interpret transaction on line %d. Skipping.", line))
			corrupted++
			return true
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if fields[0] == "" || fields[1] == "" || fields[2] == "" {
			log.Logger().Warn(fmt.Sprintf("Transaction on line %d contains empty fields. Skipping.", line))
			corrupted++
			return true
		}
		timestamp, err := options.parseTime(fields[0])
		if err != nil {
			log.Logger().Warn(fmt.Sprintf("Could not interpret timestamp on line %d. Skipping.", line),
				zap.String("timestamp", fields[0]), zap.Error(err))
			corrupted++
			return true
		}
		transactions = append(transactions, Transaction{Timestamp: timestamp, User: fields[1], Item: fields[2]})
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("read transactions from csv",
		zap.String("path", path),
		zap.Int("n_accepted", len(transactions)),
		zap.Int("n_corrupted", corrupted))
	return NewFeed(transactions, corrupted), nil
}
