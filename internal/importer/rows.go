package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"proofcheck/internal/reconcile"
	"proofcheck/internal/records"
)

// ErrValidation marks a malformed row. Such rows are reported and skipped
// before any reconciliation happens.
var ErrValidation = errors.New("importer: invalid row")

// SubmissionRow is one raw single-flag claim row.
type SubmissionRow struct {
	Identity      string
	Discriminator string
	Reference     string
}

// AttendanceRow is one raw attendance row. Flags and durations carry the
// spreadsheet vocabulary and are parsed during normalization.
type AttendanceRow struct {
	Identity      string
	Session       string
	Live          string
	Recorded      string
	Platform      string
	Link          string
	WatchTime     string
	TotalDuration string
	WatchedAt     string
}

func (r SubmissionRow) normalize(kind records.Kind) (reconcile.SubmissionInput, error) {
	identity := records.CanonicalIdentity(r.Identity)
	if identity == "" {
		return reconcile.SubmissionInput{}, fmt.Errorf("%w: missing identity", ErrValidation)
	}
	reference := strings.TrimSpace(r.Reference)
	if reference == "" {
		return reconcile.SubmissionInput{}, fmt.Errorf("%w: missing reference", ErrValidation)
	}

	discriminator := strings.TrimSpace(r.Discriminator)
	switch kind {
	case records.KindBadge:
		if discriminator == "" {
			return reconcile.SubmissionInput{}, fmt.Errorf("%w: badge rows need a course label", ErrValidation)
		}
	case records.KindProfile:
		// A profile claim has no natural label beyond the link itself.
		if discriminator == "" {
			discriminator = reference
		}
	default:
		return reconcile.SubmissionInput{}, fmt.Errorf("%w: unknown kind %q", ErrValidation, kind)
	}

	return reconcile.SubmissionInput{
		Kind:          kind,
		Identity:      identity,
		Discriminator: discriminator,
		Reference:     reference,
	}, nil
}

func (r AttendanceRow) normalize() (reconcile.AttendanceInput, error) {
	identity := records.CanonicalIdentity(r.Identity)
	if identity == "" {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: missing identity", ErrValidation)
	}
	session := strings.TrimSpace(r.Session)
	if session == "" {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: missing session label", ErrValidation)
	}

	live, ok := records.ParseConfirmation(r.Live)
	if !ok {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: unrecognized live flag %q", ErrValidation, r.Live)
	}
	recorded, ok := records.ParseConfirmation(r.Recorded)
	if !ok {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: unrecognized recorded flag %q", ErrValidation, r.Recorded)
	}

	watchMinutes, err := ParseWatchMinutes(r.WatchTime)
	if err != nil {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: watch time %q: %v", ErrValidation, r.WatchTime, err)
	}
	totalMinutes, err := ParseWatchMinutes(r.TotalDuration)
	if err != nil {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: total duration %q: %v", ErrValidation, r.TotalDuration, err)
	}

	watchedAt, err := parseTimestamp(r.WatchedAt)
	if err != nil {
		return reconcile.AttendanceInput{}, fmt.Errorf("%w: watched-at %q: %v", ErrValidation, r.WatchedAt, err)
	}

	return reconcile.AttendanceInput{
		Identity:     identity,
		Session:      session,
		Live:         live,
		Recorded:     recorded,
		Platform:     strings.TrimSpace(r.Platform),
		Link:         strings.TrimSpace(r.Link),
		WatchMinutes: watchMinutes,
		TotalMinutes: totalMinutes,
		WatchedAt:    watchedAt,
	}, nil
}

// ParseWatchMinutes converts a spreadsheet duration into whole minutes.
// Accepted forms: empty (zero), a bare minute count, MM:SS, and HH:MM:SS.
// Seconds are dropped, matching how attendance was always tallied.
func ParseWatchMinutes(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return 0, nil
	}

	if !strings.Contains(value, ":") {
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("not a duration: %q", value)
		}
		if minutes < 0 {
			return 0, fmt.Errorf("negative duration: %q", value)
		}
		return minutes, nil
	}

	parts := strings.Split(value, ":")
	switch len(parts) {
	case 2:
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || minutes < 0 {
			return 0, fmt.Errorf("not a duration: %q", value)
		}
		return minutes, nil
	case 3:
		hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("not a duration: %q", value)
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || minutes < 0 {
			return 0, fmt.Errorf("not a duration: %q", value)
		}
		return hours*60 + minutes, nil
	default:
		return 0, fmt.Errorf("not a duration: %q", value)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", value)
}
