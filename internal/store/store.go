package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"proofcheck/internal/config"
	"proofcheck/internal/records"
)

// Store manages record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the record database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "records.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
        kind TEXT NOT NULL,
        identity TEXT NOT NULL,
        discriminator TEXT NOT NULL,
        reference TEXT NOT NULL,
        confirmation INTEGER,
        note TEXT,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL,
        PRIMARY KEY (kind, identity, discriminator)
    )`,
	`CREATE TABLE IF NOT EXISTS attendance (
        identity TEXT NOT NULL,
        session TEXT NOT NULL,
        live INTEGER,
        recorded INTEGER,
        platform TEXT,
        link TEXT,
        watch_minutes INTEGER NOT NULL DEFAULT 0,
        total_minutes INTEGER NOT NULL DEFAULT 0,
        watched_at TEXT,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL,
        PRIMARY KEY (identity, session)
    )`,
	`CREATE TABLE IF NOT EXISTS verification_runs (
        id TEXT PRIMARY KEY,
        kind TEXT,
        started_at TEXT NOT NULL,
        finished_at TEXT,
        confirmed INTEGER NOT NULL DEFAULT 0,
        rejected INTEGER NOT NULL DEFAULT 0,
        errors INTEGER NOT NULL DEFAULT 0,
        conflicts INTEGER NOT NULL DEFAULT 0
    )`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_pending
        ON submissions (kind, identity) WHERE confirmation IS NULL`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// confirmationToDB maps the tri-state onto a nullable integer column:
// Pending persists as NULL, Confirmed as 1, Rejected as 0.
func confirmationToDB(c records.Confirmation) any {
	switch c {
	case records.Confirmed:
		return 1
	case records.Rejected:
		return 0
	default:
		return nil
	}
}

func confirmationFromDB(value sql.NullInt64) records.Confirmation {
	if !value.Valid {
		return records.Pending
	}
	if value.Int64 != 0 {
		return records.Confirmed
	}
	return records.Rejected
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
