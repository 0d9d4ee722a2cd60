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
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorse-io/recbench/base"
	"github.com/gorse-io/recbench/dataset"
	"github.com/gorse-io/recbench/storage"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of a benchmark.
type Config struct {
	Feed       FeedConfig        `mapstructure:"feed"`
	Split      map[string]any    `mapstructure:"split"`
	Algorithms []AlgorithmConfig `mapstructure:"algorithms" validate:"min=1,dive"`
	Storage    StorageConfig     `mapstructure:"storage"`
}

// FeedConfig is the configuration of the transaction source.
type FeedConfig struct {
	Source     string        `mapstructure:"source" validate:"required,source"`
	Separator  string        `mapstructure:"separator"`
	TimeLayout string        `mapstructure:"time_layout"`
	TimeZone   string        `mapstructure:"time_zone" validate:"omitempty,timezone"`
	Table      string        `mapstructure:"table"`
	Timestamp  string        `mapstructure:"timestamp_column"`
	User       string        `mapstructure:"user_column"`
	Item       string        `mapstructure:"item_column"`
	Limit      int           `mapstructure:"limit" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Filter     string        `mapstructure:"filter"`
}

// AlgorithmConfig names an algorithm and its hyper-parameters.
type AlgorithmConfig struct {
	Name   string         `mapstructure:"name" validate:"oneof=baseline most_popular truncated_svd"`
	Params map[string]any `mapstructure:"params"`
}

// StorageConfig is the configuration of the database benchmark runs are saved to.
type StorageConfig struct {
	DSN         string `mapstructure:"dsn" validate:"omitempty,sql"`
	TablePrefix string `mapstructure:"table_prefix"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			Separator: ";",
			TimeZone:  "UTC",
			Timestamp: "timestamp",
			User:      "user_id",
			Item:      "item_id",
			Timeout:   time.Minute,
		},
		Split: map[string]any{
			string(base.HoldOut): dataset.DefaultHoldOut,
			string(base.OnlyNew): dataset.DefaultOnlyNew,
		},
		Algorithms: []AlgorithmConfig{{Name: "baseline"}},
	}
}

// IsCSV reports whether transactions are read from a CSV file.
func (c *FeedConfig) IsCSV() bool {
	return strings.HasPrefix(c.Source, storage.CSVPrefix)
}

// Path returns the CSV file path.
func (c *FeedConfig) Path() string {
	return strings.TrimPrefix(c.Source, storage.CSVPrefix)
}

// CSVOptions returns options of the CSV reader. Timestamps without zone
// information are read in TimeZone.
func (c *FeedConfig) CSVOptions() ([]dataset.CSVOption, error) {
	location, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, errors.NotValidf("time zone %q", c.TimeZone)
	}
	return []dataset.CSVOption{
		dataset.WithSeparator(c.Separator),
		dataset.WithTimeLayout(c.TimeLayout),
		dataset.WithLocation(location),
	}, nil
}

func (c *FeedConfig) Query() dataset.SQLQuery {
	return dataset.SQLQuery{
		Table:     c.Table,
		Timestamp: c.Timestamp,
		User:      c.User,
		Item:      c.Item,
		Limit:     c.Limit,
	}
}

// SplitParams returns parameters of the train/test split.
func (c *Config) SplitParams() base.Params {
	return base.NewParams(c.Split)
}

func (c *AlgorithmConfig) GetParams() base.Params {
	return base.NewParams(c.Params)
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [feed]
	viper.SetDefault("feed.separator", defaultConfig.Feed.Separator)
	viper.SetDefault("feed.time_zone", defaultConfig.Feed.TimeZone)
	viper.SetDefault("feed.timestamp_column", defaultConfig.Feed.Timestamp)
	viper.SetDefault("feed.user_column", defaultConfig.Feed.User)
	viper.SetDefault("feed.item_column", defaultConfig.Feed.Item)
	viper.SetDefault("feed.timeout", defaultConfig.Feed.Timeout)
	// [split]
	viper.SetDefault("split.hold_out", dataset.DefaultHoldOut)
	viper.SetDefault("split.only_new", dataset.DefaultOnlyNew)
	// [[algorithms]]
	viper.SetDefault("algorithms", []map[string]any{{"name": "baseline"}})
}

type environmentVariable struct {
	key   string
	value string
}

func bindEnv() {
	variables := []environmentVariable{
		{"feed.source", "RECBENCH_FEED_SOURCE"},
		{"feed.table", "RECBENCH_FEED_TABLE"},
		{"storage.dsn", "RECBENCH_STORAGE_DSN"},
		{"storage.table_prefix", "RECBENCH_STORAGE_TABLE_PREFIX"},
	}
	for _, variable := range variables {
		base.Must(viper.BindEnv(variable.key, variable.value))
	}
}

// LoadConfig loads configuration from a TOML file. Environment variables
// override values of the file.
func LoadConfig(path string) (*Config, error) {
	viper.Reset()
	setDefault()
	bindEnv()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Annotatef(err, "failed to read config %s", path)
	}
	var conf Config
	if err := viper.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
