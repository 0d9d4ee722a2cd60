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

package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

// Run is the outcome of benchmarking one algorithm on one split.
type Run struct {
	ID            string    `gorm:"column:id;primaryKey;size:36"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	Source        string    `gorm:"column:source"`
	Algorithm     string    `gorm:"column:algorithm;size:64;index"`
	Params        string    `gorm:"column:params"`
	HoldOut       int       `gorm:"column:hold_out"`
	OnlyNew       bool      `gorm:"column:only_new"`
	NumberOfCases int       `gorm:"column:number_of_cases"`
	Score         float64   `gorm:"column:score"`
	Precision     float64   `gorm:"column:precision"`
	Recall        float64   `gorm:"column:recall"`
	NDCG          float64   `gorm:"column:ndcg"`
	HitRatio      float64   `gorm:"column:hit_ratio"`
}

// RunStore keeps benchmark runs in a SQL database.
type RunStore struct {
	TablePrefix
	gormDB *gorm.DB
}

func OpenRunStore(path, tablePrefix string, opts ...Option) (*RunStore, error) {
	db, err := OpenGORM(path, tablePrefix, opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &RunStore{TablePrefix: TablePrefix(tablePrefix), gormDB: db}, nil
}

// Init creates the table of runs.
func (s *RunStore) Init(ctx context.Context) error {
	return errors.Trace(s.gormDB.WithContext(ctx).Table(s.RunsTable()).AutoMigrate(&Run{}))
}

// InsertRun saves a run, assigning an ID and creation time if absent.
func (s *RunStore) InsertRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	return errors.Trace(s.gormDB.WithContext(ctx).Table(s.RunsTable()).Create(run).Error)
}

// ListRuns returns the latest runs, newest first. Non-positive n returns all.
func (s *RunStore) ListRuns(ctx context.Context, n int) ([]Run, error) {
	var runs []Run
	tx := s.gormDB.WithContext(ctx).Table(s.RunsTable()).Order("created_at DESC")
	if n > 0 {
		tx = tx.Limit(n)
	}
	if err := tx.Find(&runs).Error; err != nil {
		return nil, errors.Trace(err)
	}
	return runs, nil
}

func (s *RunStore) Close() error {
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(sqlDB.Close())
}
