// Copyright 2020 gorse Project Authors
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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/dataset"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestUnmarshal(t *testing.T) {
	data, err := os.ReadFile("config.toml.template")
	assert.NoError(t, err)
	viper.Reset()
	viper.SetConfigType("toml")
	err = viper.ReadConfig(strings.NewReader(string(data)))
	assert.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	assert.NoError(t, err)

	// [feed]
	assert.Equal(t, "csv://dataset/testdata/data50.csv", config.Feed.Source)
	assert.True(t, config.Feed.IsCSV())
	assert.Equal(t, "dataset/testdata/data50.csv", config.Feed.Path())
	assert.Equal(t, ";", config.Feed.Separator)
	assert.Empty(t, config.Feed.TimeLayout)
	assert.Equal(t, "UTC", config.Feed.TimeZone)
	assert.Equal(t, "transactions", config.Feed.Table)
	assert.Equal(t, "timestamp", config.Feed.Timestamp)
	assert.Equal(t, "user_id", config.Feed.User)
	assert.Equal(t, "item_id", config.Feed.Item)
	assert.Zero(t, config.Feed.Limit)
	assert.Equal(t, 30*time.Second, config.Feed.Timeout)
	assert.Empty(t, config.Feed.Filter)
	// [split]
	params := config.SplitParams()
	holdOut, err := params.GetInt(base.HoldOut, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, holdOut)
	onlyNew, err := params.GetBool(base.OnlyNew, false)
	assert.NoError(t, err)
	assert.True(t, onlyNew)
	keepIneligible, err := params.GetBool(base.KeepIneligible, true)
	assert.NoError(t, err)
	assert.False(t, keepIneligible)
	// [[algorithms]]
	assert.Len(t, config.Algorithms, 3)
	assert.Equal(t, "baseline", config.Algorithms[0].Name)
	assert.Empty(t, config.Algorithms[0].GetParams())
	assert.Equal(t, "most_popular", config.Algorithms[1].Name)
	binarize, err := config.Algorithms[1].GetParams().GetBool(base.Binarize, true)
	assert.NoError(t, err)
	assert.False(t, binarize)
	nFactors, err := config.Algorithms[2].GetParams().GetInt(base.NFactors, 0)
	assert.NoError(t, err)
	assert.Equal(t, 4, nFactors)
	// [storage]
	assert.Equal(t, "sqlite://recbench.db", config.Storage.DSN)
	assert.Empty(t, config.Storage.TablePrefix)
	assert.NoError(t, config.Validate())
}

func TestSetDefault(t *testing.T) {
	viper.Reset()
	setDefault()
	viper.SetConfigType("toml")
	err := viper.ReadConfig(strings.NewReader(""))
	assert.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), &config)
}

func TestBindEnv(t *testing.T) {
	variables := []environmentVariable{
		{"RECBENCH_FEED_SOURCE", "sqlite://feed.db"},
		{"RECBENCH_FEED_TABLE", "purchases"},
		{"RECBENCH_STORAGE_DSN", "sqlite://runs.db"},
		{"RECBENCH_STORAGE_TABLE_PREFIX", "bench_"},
	}
	for _, variable := range variables {
		t.Setenv(variable.key, variable.value)
	}

	config, err := LoadConfig("config.toml.template")
	assert.NoError(t, err)
	assert.Equal(t, "sqlite://feed.db", config.Feed.Source)
	assert.False(t, config.Feed.IsCSV())
	assert.Equal(t, "purchases", config.Feed.Table)
	assert.Equal(t, "sqlite://runs.db", config.Storage.DSN)
	assert.Equal(t, "bench_", config.Storage.TablePrefix)
	query := config.Feed.Query()
	assert.Equal(t, "purchases", query.Table)
	assert.Equal(t, "timestamp", query.Timestamp)

	// check default values
	assert.Len(t, config.Algorithms, 3)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := t.TempDir() + "/config.toml"
	assert.NoError(t, os.WriteFile(path, []byte("[feed]\nsource = \"csv://data.csv\"\n"), 0o644))
	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "csv://data.csv", config.Feed.Source)
	assert.Equal(t, time.Minute, config.Feed.Timeout)
	assert.Equal(t, []AlgorithmConfig{{Name: "baseline"}}, config.Algorithms)
	holdOut, err := config.SplitParams().GetInt(base.HoldOut, 0)
	assert.NoError(t, err)
	assert.Equal(t, 5, holdOut)

	_, err = LoadConfig(t.TempDir() + "/missing.toml")
	assert.Error(t, err)
}

func TestCSVOptions(t *testing.T) {
	cfg := GetDefaultConfig().Feed
	cfg.TimeZone = "Asia/Tokyo"
	opts, err := cfg.CSVOptions()
	assert.NoError(t, err)
	options := dataset.NewCSVOptions(opts...)
	assert.Equal(t, ";", options.Separator)
	assert.Equal(t, "Asia/Tokyo", options.Location.String())
	cfg.TimeZone = "Mars/Olympus"
	_, err = cfg.CSVOptions()
	assert.True(t, errors.IsNotValid(err))
}
