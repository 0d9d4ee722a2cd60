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
	"github.com/gorse-io/recbench/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// NotValid writes report to the error log and returns a not valid error
// carrying message. Every argument of the wrong kind goes through here so
// that callers see exactly one error record per rejected value.
func NotValid(report, message string, fields ...zap.Field) error {
	log.Logger().Error(report, fields...)
	return errors.NewNotValid(nil, message)
}

// Must panics on error. Only used in main packages and tests.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
