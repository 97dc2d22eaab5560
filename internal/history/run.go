// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sweep/internal/pattern"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

// Run is one recorded command execution.
type Run struct {
	ID        string
	RunGroup  string
	Label     string
	Pattern   string
	Status    string
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
	Error     string
	CreatedAt time.Time
}

// Filter narrows the runs returned by List. Zero values match everything.
type Filter struct {
	RunGroup string
	Status   string
	Pattern  string
	Limit    int
}

// NewRunGroup returns an identifier shared by all rows recorded for a
// single sweep invocation.
func NewRunGroup() string {
	return uuid.NewString()
}

// Record inserts one row per leaf result, tagging every row with runGroup.
// Rows that cannot be inserted are skipped and reported in the returned
// error so that recording never blocks the remaining rows.
func (s *Store) Record(ctx context.Context, runGroup string, results runbatch.Results) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var errs error

	results.Walk(func(res *runbatch.Result) {
		if len(res.Children) > 0 {
			return
		}

		startedAt := ""
		if !res.StartedAt.IsZero() {
			startedAt = res.StartedAt.UTC().Format(time.RFC3339Nano)
		}

		errStr := ""
		if res.Error != nil {
			errStr = res.Error.Error()
		}

		patternStr := ""
		if pattern.Pattern(res.Label).IsCanonical() {
			patternStr = res.Label
		}

		_, insertErr := tx.ExecContext(ctx,
			`INSERT INTO runs
			   (id, run_group, label, pattern, status, exit_code, started_at, duration_ms, error, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), runGroup, res.Label, patternStr, res.Status.String(),
			res.ExitCode, startedAt, res.Duration.Milliseconds(), errStr, now)
		if insertErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to record %q: %w", res.Label, insertErr))
		}
	})

	if err := tx.Commit(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to commit history transaction: %w", err))
	}

	return errs
}

// List returns recorded runs, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	query := `SELECT id, run_group, label, pattern, status, exit_code, started_at, duration_ms, error, created_at
		FROM runs WHERE 1=1`

	args := []any{}

	if f.RunGroup != "" {
		query += " AND run_group = ?"

		args = append(args, f.RunGroup)
	}

	if f.Status != "" {
		query += " AND status = ?"

		args = append(args, f.Status)
	}

	if f.Pattern != "" {
		query += " AND pattern = ?"

		args = append(args, f.Pattern)
	}

	// Rows in one group share created_at, so fall back to insertion order.
	query += " ORDER BY created_at DESC, rowid"

	if f.Limit > 0 {
		query += " LIMIT ?"

		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run

	for rows.Next() {
		var (
			r          Run
			startedAt  string
			durationMs int64
			createdAt  string
		)

		if err := rows.Scan(
			&r.ID, &r.RunGroup, &r.Label, &r.Pattern, &r.Status,
			&r.ExitCode, &startedAt, &durationMs, &r.Error, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		if startedAt != "" {
			r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt) //nolint:errcheck
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt) //nolint:errcheck

		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return runs, nil
}

// Prune deletes all but the most recent keep run groups and returns the
// number of rows removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE run_group NOT IN (
			SELECT run_group FROM runs GROUP BY run_group ORDER BY MAX(created_at) DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	return n, nil
}
