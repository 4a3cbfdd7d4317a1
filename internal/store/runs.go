package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"proofcheck/internal/records"
)

// RunCheckpoint records the progress of one verification run so operators can
// audit resumed and cancelled runs.
type RunCheckpoint struct {
	ID         string
	Kind       records.Kind
	StartedAt  time.Time
	FinishedAt *time.Time
	Confirmed  int
	Rejected   int
	Errors     int
	Conflicts  int
}

// StartRun records the beginning of a verification run.
func (s *Store) StartRun(ctx context.Context, id string, kind records.Kind) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO verification_runs (id, kind, started_at) VALUES (?, ?, ?)`,
		id,
		nullableString(string(kind)),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// FinishRun stamps a run's completion time and final counters.
func (s *Store) FinishRun(ctx context.Context, id string, confirmed, rejected, errorCount, conflicts int) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE verification_runs
         SET finished_at = ?, confirmed = ?, rejected = ?, errors = ?, conflicts = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		confirmed,
		rejected,
		errorCount,
		conflicts,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent verification runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunCheckpoint, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, kind, started_at, finished_at, confirmed, rejected, errors, conflicts
         FROM verification_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var runs []RunCheckpoint
	for rows.Next() {
		var (
			run         RunCheckpoint
			kind        sql.NullString
			startedRaw  string
			finishedRaw sql.NullString
		)
		if err := rows.Scan(&run.ID, &kind, &startedRaw, &finishedRaw, &run.Confirmed, &run.Rejected, &run.Errors, &run.Conflicts); err != nil {
			return nil, err
		}
		run.Kind = records.Kind(kind.String)
		if started, err := parseTimeString(startedRaw); err == nil {
			run.StartedAt = started
		}
		if finishedRaw.Valid {
			if finished, err := parseTimeString(finishedRaw.String); err == nil {
				run.FinishedAt = &finished
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
