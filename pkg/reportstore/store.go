// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package reportstore persists validation run history in a local sqlite
// database.
package reportstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	source      TEXT NOT NULL,
	ok          INTEGER NOT NULL,
	error_count INTEGER NOT NULL,
	errors      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

// Run is one recorded validation.
type Run struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Source     string    `json:"source"`
	OK         bool      `json:"ok"`
	ErrorCount int       `json:"error_count"`
	Errors     string    `json:"errors"`
}

type Store struct {
	db    *sql.DB
	clock clockwork.Clock
	cap   int
	log   *zap.Logger
}

// Open creates or opens the database at path. cap bounds the number of
// retained runs; older runs are pruned on insert.
func Open(path string, cap int, clock clockwork.Clock, log *zap.Logger) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Opening report store '%s': %s", path, err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("Initializing report store '%s': %s", path, err)
	}

	return &Store{db: db, clock: clock, cap: cap, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert records a run, stamping CreatedAt when unset, and prunes runs
// beyond the store's cap.
func (s *Store) Insert(ctx context.Context, run Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.clock.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, ok, error_count, errors) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Source, boolInt(run.OK), run.ErrorCount, run.Errors)
	if err != nil {
		return fmt.Errorf("Recording run '%s': %s", run.ID, err)
	}

	if err := s.prune(ctx); err != nil {
		return err
	}

	s.log.Debug("recorded run", zap.String("id", run.ID), zap.Bool("ok", run.OK))
	return nil
}

func (s *Store) prune(ctx context.Context) error {
	if s.cap <= 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT ?)`,
		s.cap)
	if err != nil {
		return fmt.Errorf("Pruning report store: %s", err)
	}
	return nil
}

// ListRecent returns up to n runs, newest first.
func (s *Store) ListRecent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, ok, error_count, errors FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("Listing runs: %s", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var run Run
		var createdAt string
		var ok int
		if err := rows.Scan(&run.ID, &createdAt, &run.Source, &ok, &run.ErrorCount, &run.Errors); err != nil {
			return nil, fmt.Errorf("Reading run: %s", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("Reading run '%s' timestamp: %s", run.ID, err)
		}
		run.OK = ok != 0
		result = append(result, run)
	}
	return result, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
