package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"proofcheck/internal/records"
)

const submissionColumns = "kind, identity, discriminator, reference, confirmation, note, created_at, updated_at"

// GetSubmission fetches a submission record by composite key. Returns
// (nil, nil) when no record exists.
func (s *Store) GetSubmission(ctx context.Context, kind records.Kind, identity, discriminator string) (*records.Submission, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE kind = ? AND identity = ? AND discriminator = ?`,
		kind, identity, discriminator,
	)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// InsertSubmission creates a new submission record. Timestamps are assigned
// here; the insert fails if the key already exists.
func (s *Store) InsertSubmission(ctx context.Context, sub *records.Submission) error {
	if sub == nil {
		return errors.New("submission is nil")
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (`+submissionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Kind,
		sub.Identity,
		sub.Discriminator,
		sub.Reference,
		confirmationToDB(sub.Confirmation),
		nullableString(sub.Note),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// CompareAndSetSubmission persists the record only if its stored confirmation
// still matches expected. Returns false on conflict (the record changed since
// it was read, or no longer exists).
func (s *Store) CompareAndSetSubmission(ctx context.Context, sub *records.Submission, expected records.Confirmation) (bool, error) {
	if sub == nil {
		return false, errors.New("submission is nil")
	}
	sub.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE submissions
         SET reference = ?, confirmation = ?, note = ?, updated_at = ?
         WHERE kind = ? AND identity = ? AND discriminator = ? AND confirmation IS ?`,
		sub.Reference,
		confirmationToDB(sub.Confirmation),
		nullableString(sub.Note),
		sub.UpdatedAt.Format(time.RFC3339Nano),
		sub.Kind,
		sub.Identity,
		sub.Discriminator,
		confirmationToDB(expected),
	)
	if err != nil {
		return false, fmt.Errorf("compare-and-set submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListPendingSubmissions returns records awaiting verification for a kind,
// oldest first. A limit <= 0 returns all pending records.
func (s *Store) ListPendingSubmissions(ctx context.Context, kind records.Kind, limit int) ([]*records.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE kind = ? AND confirmation IS NULL ORDER BY created_at`
	args := []any{kind}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	defer rows.Close()

	var subs []*records.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*records.Submission, error) {
	var (
		kind          string
		identity      string
		discriminator string
		reference     string
		confirmation  sql.NullInt64
		note          sql.NullString
		createdRaw    string
		updatedRaw    string
	)
	if err := scanner.Scan(
		&kind,
		&identity,
		&discriminator,
		&reference,
		&confirmation,
		&note,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	sub := &records.Submission{
		Kind:          records.Kind(kind),
		Identity:      identity,
		Discriminator: discriminator,
		Reference:     reference,
		Confirmation:  confirmationFromDB(confirmation),
		Note:          note.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		sub.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		sub.UpdatedAt = updated
	}
	return sub, nil
}
