package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"proofcheck/internal/importer"
	"proofcheck/internal/records"
)

// findColumn locates a header by case-insensitive substring, trying the
// candidates in order. Spreadsheet exports rarely agree on exact header
// names, so "email" has to find "Leader Email" and the like.
func findColumn(headers []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, header := range headers {
			if strings.Contains(strings.ToLower(header), strings.ToLower(candidate)) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func readSubmissionRows(reader io.Reader, kind records.Kind) ([]importer.SubmissionRow, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	identityCol := findColumn(headers, "email", "identity")
	referenceCol := findColumn(headers, "link", "url", "reference")
	discriminatorCol := findColumn(headers, "course", "badge name", "claim", "discriminator")

	if identityCol < 0 {
		return nil, fmt.Errorf("no email column found in header %v", headers)
	}
	if referenceCol < 0 {
		return nil, fmt.Errorf("no link column found in header %v", headers)
	}
	if kind == records.KindBadge && discriminatorCol < 0 {
		return nil, fmt.Errorf("no course column found in header %v", headers)
	}

	var rows []importer.SubmissionRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, importer.SubmissionRow{
			Identity:      field(record, identityCol),
			Discriminator: field(record, discriminatorCol),
			Reference:     field(record, referenceCol),
		})
	}
	return rows, nil
}

func readAttendanceRows(reader io.Reader) ([]importer.AttendanceRow, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	identityCol := findColumn(headers, "email", "identity")
	sessionCol := findColumn(headers, "class", "session")
	if identityCol < 0 {
		return nil, fmt.Errorf("no email column found in header %v", headers)
	}
	if sessionCol < 0 {
		return nil, fmt.Errorf("no session column found in header %v", headers)
	}

	liveCol := findColumn(headers, "live")
	recordedCol := findColumn(headers, "recorded")
	platformCol := findColumn(headers, "platform")
	linkCol := findColumn(headers, "link", "url")
	watchCol := findColumn(headers, "watch_time", "time_watched", "time watched")
	totalCol := findColumn(headers, "total_duration", "total duration", "duration")
	watchedAtCol := findColumn(headers, "watched_at", "watched at")

	var rows []importer.AttendanceRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, importer.AttendanceRow{
			Identity:      field(record, identityCol),
			Session:       field(record, sessionCol),
			Live:          field(record, liveCol),
			Recorded:      field(record, recordedCol),
			Platform:      field(record, platformCol),
			Link:          field(record, linkCol),
			WatchTime:     field(record, watchCol),
			TotalDuration: field(record, totalCol),
			WatchedAt:     field(record, watchedAtCol),
		})
	}
	return rows, nil
}
