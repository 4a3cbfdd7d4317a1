package store

import (
	"context"
	"database/sql"
	"fmt"

	"proofcheck/internal/records"
)

// KindStats counts submission records per confirmation state for one kind.
type KindStats struct {
	Kind      records.Kind
	Pending   int
	Confirmed int
	Rejected  int
}

// AttendanceStats counts attendance flag states across all sessions.
type AttendanceStats struct {
	Total             int
	LiveConfirmed     int
	RecordedConfirmed int
}

// SubmissionStats returns per-kind state counts for all submission records.
func (s *Store) SubmissionStats(ctx context.Context) ([]KindStats, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT kind, confirmation, COUNT(1) FROM submissions GROUP BY kind, confirmation ORDER BY kind`,
	)
	if err != nil {
		return nil, fmt.Errorf("submission stats: %w", err)
	}
	defer rows.Close()

	byKind := make(map[records.Kind]*KindStats)
	var order []records.Kind
	for rows.Next() {
		var (
			kind         string
			confirmation sql.NullInt64
			count        int
		)
		if err := rows.Scan(&kind, &confirmation, &count); err != nil {
			return nil, err
		}
		key := records.Kind(kind)
		stats, ok := byKind[key]
		if !ok {
			stats = &KindStats{Kind: key}
			byKind[key] = stats
			order = append(order, key)
		}
		switch confirmationFromDB(confirmation) {
		case records.Confirmed:
			stats.Confirmed += count
		case records.Rejected:
			stats.Rejected += count
		default:
			stats.Pending += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]KindStats, 0, len(order))
	for _, kind := range order {
		out = append(out, *byKind[kind])
	}
	return out, nil
}

// AttendanceSummary returns aggregate attendance counts.
func (s *Store) AttendanceSummary(ctx context.Context) (AttendanceStats, error) {
	var stats AttendanceStats
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(CASE WHEN live = 1 THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN recorded = 1 THEN 1 ELSE 0 END), 0)
         FROM attendance`,
	)
	if err := row.Scan(&stats.Total, &stats.LiveConfirmed, &stats.RecordedConfirmed); err != nil {
		return AttendanceStats{}, fmt.Errorf("attendance summary: %w", err)
	}
	return stats, nil
}
