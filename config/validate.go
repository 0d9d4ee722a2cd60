// Copyright 2021 gorse Project Authors
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

package config

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/storage"
	"github.com/juju/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// source is a CSV file or a SQL database
		base.Must(validate.RegisterValidation("source", func(fl validator.FieldLevel) bool {
			source := fl.Field().String()
			return strings.HasPrefix(source, storage.CSVPrefix) || storage.IsSQL(source)
		}))
		base.Must(validate.RegisterValidation("sql", func(fl validator.FieldLevel) bool {
			return storage.IsSQL(fl.Field().String())
		}))
	})
	return validate
}

// Validate checks the configuration. SQL sources require a table.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return errors.NewNotValid(err, "invalid configuration")
	}
	if !c.Feed.IsCSV() && c.Feed.Table == "" {
		return errors.NotValidf("table of SQL source %s", c.Feed.Source)
	}
	return nil
}
