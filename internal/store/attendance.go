package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"proofcheck/internal/records"
)

const attendanceColumns = "identity, session, live, recorded, platform, link, watch_minutes, total_minutes, watched_at, created_at, updated_at"

// GetAttendance fetches an attendance record by composite key. Returns
// (nil, nil) when no record exists.
func (s *Store) GetAttendance(ctx context.Context, identity, session string) (*records.Attendance, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE identity = ? AND session = ?`,
		identity, session,
	)
	att, err := scanAttendance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return att, nil
}

// InsertAttendance creates a new attendance record.
func (s *Store) InsertAttendance(ctx context.Context, att *records.Attendance) error {
	if att == nil {
		return errors.New("attendance is nil")
	}
	now := time.Now().UTC()
	att.CreatedAt = now
	att.UpdatedAt = now
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attendance (`+attendanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		att.Identity,
		att.Session,
		confirmationToDB(att.Live),
		confirmationToDB(att.Recorded),
		nullableString(att.Platform),
		nullableString(att.Link),
		att.WatchMinutes,
		att.TotalMinutes,
		nullableTime(att.WatchedAt),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// CompareAndSetAttendance persists the record only if both stored flags still
// match the expected values. Returns false on conflict.
func (s *Store) CompareAndSetAttendance(ctx context.Context, att *records.Attendance, expectedLive, expectedRecorded records.Confirmation) (bool, error) {
	if att == nil {
		return false, errors.New("attendance is nil")
	}
	att.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE attendance
         SET live = ?, recorded = ?, platform = ?, link = ?,
             watch_minutes = ?, total_minutes = ?, watched_at = ?, updated_at = ?
         WHERE identity = ? AND session = ? AND live IS ? AND recorded IS ?`,
		confirmationToDB(att.Live),
		confirmationToDB(att.Recorded),
		nullableString(att.Platform),
		nullableString(att.Link),
		att.WatchMinutes,
		att.TotalMinutes,
		nullableTime(att.WatchedAt),
		att.UpdatedAt.Format(time.RFC3339Nano),
		att.Identity,
		att.Session,
		confirmationToDB(expectedLive),
		confirmationToDB(expectedRecorded),
	)
	if err != nil {
		return false, fmt.Errorf("compare-and-set attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanAttendance(scanner interface{ Scan(dest ...any) error }) (*records.Attendance, error) {
	var (
		identity     string
		session      string
		live         sql.NullInt64
		recorded     sql.NullInt64
		platform     sql.NullString
		link         sql.NullString
		watchMinutes int
		totalMinutes int
		watchedRaw   sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&identity,
		&session,
		&live,
		&recorded,
		&platform,
		&link,
		&watchMinutes,
		&totalMinutes,
		&watchedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	att := &records.Attendance{
		Identity:     identity,
		Session:      session,
		Live:         confirmationFromDB(live),
		Recorded:     confirmationFromDB(recorded),
		Platform:     platform.String,
		Link:         link.String,
		WatchMinutes: watchMinutes,
		TotalMinutes: totalMinutes,
	}
	if watchedRaw.Valid {
		if watched, err := parseTimeString(watchedRaw.String); err == nil {
			att.WatchedAt = &watched
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		att.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		att.UpdatedAt = updated
	}
	return att, nil
}
