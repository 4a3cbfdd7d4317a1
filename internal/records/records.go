package records

import (
	"strings"
	"time"
)

// Kind distinguishes the single-flag submission record types.
type Kind string

const (
	// KindProfile records claim a public profile page owned by the identity.
	KindProfile Kind = "profile"
	// KindBadge records claim a completion badge for a specific course.
	KindBadge Kind = "badge"
)

var kindSet = map[Kind]struct{}{
	KindProfile: {},
	KindBadge:   {},
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	_, ok := kindSet[normalized]
	return normalized, ok
}

// CanonicalIdentity normalizes a user identity once, at the boundary.
// Everything past the importer assumes identities are already canonical.
func CanonicalIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Submission is a single-flag proof-of-completion record keyed by
// (identity, discriminator) within a kind. For profile records the
// discriminator is the link itself; for badge records it is the course label.
type Submission struct {
	Kind          Kind
	Identity      string
	Discriminator string
	Reference     string
	Confirmation  Confirmation
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Protected reports whether the record may no longer be replaced by a
// submission.
func (s *Submission) Protected() bool {
	return s != nil && s.Confirmation == Confirmed
}

// Attendance is a two-flag session record keyed by (identity, session).
// Live and Recorded are independently verifiable; the telemetry fields carry
// no protection semantics and always track the latest import.
type Attendance struct {
	Identity string
	Session  string
	Live     Confirmation
	Recorded Confirmation

	Platform     string
	Link         string
	WatchMinutes int
	TotalMinutes int
	WatchedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnforceExclusivity applies the live/recorded constraint: both flags may not
// be Confirmed at once. Live takes precedence; an attendee of the live
// session need not also prove recorded viewing.
func (a *Attendance) EnforceExclusivity() {
	if a.Live == Confirmed && a.Recorded == Confirmed {
		a.Recorded = Pending
	}
}
