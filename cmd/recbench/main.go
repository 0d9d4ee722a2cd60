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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gorse-io/recbench/base/log"
	"github.com/gorse-io/recbench/benchmark"
	"github.com/gorse-io/recbench/cmd/version"
	"github.com/gorse-io/recbench/config"
	"github.com/gorse-io/recbench/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "recbench",
	Short: "Benchmark recommender algorithms on historical transactions.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.CloseLogger()
	},
}

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark configured algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		ctx := context.Background()
		feed, err := benchmark.LoadFeed(ctx, &cfg.Feed)
		if err != nil {
			log.Logger().Fatal("failed to load transactions", zap.Error(err))
		}
		bar := progressbar.Default(int64(len(cfg.Algorithms)), "benchmark")
		runner := benchmark.NewRunner(cfg)
		runner.OnStart = func(name string) {
			bar.Describe(name)
			_ = bar.Add(1)
		}
		results, err := runner.Run(feed)
		if err != nil {
			log.Logger().Fatal("failed to benchmark", zap.Error(err))
		}
		_ = bar.Finish()
		printResults(os.Stdout, results)

		if save, _ := cmd.Flags().GetBool("save"); save {
			if cfg.Storage.DSN == "" {
				log.Logger().Fatal("storage.dsn is required to save runs")
			}
			store, err := storage.OpenRunStore(cfg.Storage.DSN, cfg.Storage.TablePrefix)
			if err != nil {
				log.Logger().Fatal("failed to open run store", zap.Error(err))
			}
			defer store.Close()
			if err = store.Init(ctx); err != nil {
				log.Logger().Fatal("failed to init run store", zap.Error(err))
			}
			for i := range results {
				if err = store.InsertRun(ctx, results[i].Run(cfg.Feed.Source)); err != nil {
					log.Logger().Fatal("failed to save run", zap.Error(err))
				}
			}
			log.Logger().Info("save runs",
				zap.String("storage", log.RedactDBURL(cfg.Storage.DSN)),
				zap.Int("n_runs", len(results)))
		}
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved benchmark runs",
	Run: func(cmd *cobra.Command, args []string) {
		dsn, _ := cmd.Flags().GetString("dsn")
		prefix, _ := cmd.Flags().GetString("table-prefix")
		n, _ := cmd.Flags().GetInt("limit")
		store, err := storage.OpenRunStore(dsn, prefix)
		if err != nil {
			log.Logger().Fatal("failed to open run store", zap.Error(err))
		}
		defer store.Close()
		runs, err := store.ListRuns(context.Background(), n)
		if err != nil {
			log.Logger().Fatal("failed to list runs", zap.Error(err))
		}
		printRuns(os.Stdout, runs)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.BuildInfo())
	},
}

func printResults(w io.Writer, results []benchmark.Result) {
	table := tablewriter.NewWriter(w)
	table.Header("Algorithm", "Params", "Hold Out", "Only New", "Cases", "Score", "Precision", "Recall", "NDCG")
	for _, r := range results {
		_ = table.Append([]string{
			r.Algorithm,
			r.Params.String(),
			fmt.Sprint(r.HoldOut),
			fmt.Sprint(r.OnlyNew),
			fmt.Sprint(r.NumberOfCases),
			fmt.Sprintf("%.6f", r.Score.Score),
			fmt.Sprintf("%.6f", r.Precision),
			fmt.Sprintf("%.6f", r.Recall),
			fmt.Sprintf("%.6f", r.NDCG),
		})
	}
	_ = table.Render()
}

func printRuns(w io.Writer, runs []storage.Run) {
	table := tablewriter.NewWriter(w)
	table.Header("Created", "Source", "Algorithm", "Params", "Hold Out", "Only New", "Score")
	_ = table.Bulk(lo.Map(runs, func(run storage.Run, _ int) []string {
		return []string{
			run.CreatedAt.Local().Format(time.DateTime),
			run.Source,
			run.Algorithm,
			run.Params,
			fmt.Sprint(run.HoldOut),
			fmt.Sprint(run.OnlyNew),
			fmt.Sprintf("%.6f", run.Score),
		}
	}))
	_ = table.Render()
}

func init() {
	log.AddFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().Bool("debug", false, "use debug log mode")
	benchmarkCmd.Flags().StringP("config", "c", "config.toml", "configuration file path")
	benchmarkCmd.Flags().Bool("save", false, "save runs to storage")
	runsCmd.Flags().String("dsn", "sqlite://recbench.db", "database of saved runs")
	runsCmd.Flags().String("table-prefix", "", "prefix of tables")
	runsCmd.Flags().IntP("limit", "n", 20, "number of runs, 0 for all")
	rootCmd.AddCommand(benchmarkCmd, runsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
