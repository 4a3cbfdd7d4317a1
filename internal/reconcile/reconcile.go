package reconcile

import (
	"strings"
	"time"

	"proofcheck/internal/records"
)

// Mode controls whether a reconciliation pass may create records, update
// them, or both.
type Mode int

const (
	CreateOnly Mode = iota
	UpdateOnly
	CreateAndUpdate
)

func (m Mode) String() string {
	switch m {
	case CreateOnly:
		return "create"
	case UpdateOnly:
		return "update"
	default:
		return "create-update"
	}
}

// ParseMode converts a configuration string into a Mode.
func ParseMode(value string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "create":
		return CreateOnly, true
	case "update":
		return UpdateOnly, true
	case "create-update", "create_update":
		return CreateAndUpdate, true
	default:
		return CreateAndUpdate, false
	}
}

// Action is the outcome class of a reconciliation decision.
type Action int

const (
	ActionSkip Action = iota
	ActionCreate
	ActionUpdate
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	default:
		return "skip"
	}
}

// SkipReason explains why a decision was a no-op.
type SkipReason string

const (
	SkipAlreadyConfirmed SkipReason = "already confirmed"
	SkipNotFound         SkipReason = "not found"
	SkipCreateOnly       SkipReason = "exists, create-only mode"
)

// SubmissionInput is a normalized single-flag submission row.
type SubmissionInput struct {
	Kind          records.Kind
	Identity      string
	Discriminator string
	Reference     string
}

// Decision describes what a submission reconciliation should persist.
// For updates, Expected carries the confirmation state the write must be
// conditioned on.
type Decision struct {
	Action     Action
	Reason     SkipReason
	Submission *records.Submission
	Expected   records.Confirmation
}

// ReconcileSubmission decides whether an incoming submission creates,
// updates, or skips relative to the existing record.
//
// A confirmed record is protected: no incoming payload or mode may change
// it. An update always resets confirmation to Pending and clears the note so
// the replaced reference goes back through verification.
func ReconcileSubmission(existing *records.Submission, incoming SubmissionInput, mode Mode) Decision {
	if existing == nil {
		if mode == UpdateOnly {
			return Decision{Action: ActionSkip, Reason: SkipNotFound}
		}
		return Decision{
			Action: ActionCreate,
			Submission: &records.Submission{
				Kind:          incoming.Kind,
				Identity:      incoming.Identity,
				Discriminator: incoming.Discriminator,
				Reference:     incoming.Reference,
				Confirmation:  records.Pending,
			},
		}
	}

	if existing.Protected() {
		return Decision{Action: ActionSkip, Reason: SkipAlreadyConfirmed}
	}

	if mode == CreateOnly {
		return Decision{Action: ActionSkip, Reason: SkipCreateOnly}
	}

	updated := *existing
	updated.Reference = incoming.Reference
	updated.Confirmation = records.Pending
	updated.Note = ""
	return Decision{
		Action:     ActionUpdate,
		Submission: &updated,
		Expected:   existing.Confirmation,
	}
}

// AttendanceInput is a normalized attendance row. Absent flags arrive as
// Pending; the per-flag merge keeps existing confirmed values authoritative.
type AttendanceInput struct {
	Identity     string
	Session      string
	Live         records.Confirmation
	Recorded     records.Confirmation
	Platform     string
	Link         string
	WatchMinutes int
	TotalMinutes int
	WatchedAt    *time.Time
}

// AttendanceDecision describes what an attendance reconciliation should
// persist, with the per-flag CAS expectations for updates.
type AttendanceDecision struct {
	Action           Action
	Reason           SkipReason
	Attendance       *records.Attendance
	ExpectedLive     records.Confirmation
	ExpectedRecorded records.Confirmation
}

// ReconcileAttendance merges an incoming attendance row into the existing
// record per flag: an existing Confirmed value wins, otherwise the incoming
// value applies. After the merge the live/recorded exclusivity pass runs
// unconditionally, so both flags can never end up Confirmed together even
// when both inputs claim it. Telemetry fields always track the incoming row.
func ReconcileAttendance(existing *records.Attendance, incoming AttendanceInput, mode Mode) AttendanceDecision {
	if existing == nil {
		if mode == UpdateOnly {
			return AttendanceDecision{Action: ActionSkip, Reason: SkipNotFound}
		}
		created := &records.Attendance{
			Identity:     incoming.Identity,
			Session:      incoming.Session,
			Live:         incoming.Live,
			Recorded:     incoming.Recorded,
			Platform:     incoming.Platform,
			Link:         incoming.Link,
			WatchMinutes: incoming.WatchMinutes,
			TotalMinutes: incoming.TotalMinutes,
			WatchedAt:    incoming.WatchedAt,
		}
		created.EnforceExclusivity()
		return AttendanceDecision{Action: ActionCreate, Attendance: created}
	}

	if mode == CreateOnly {
		return AttendanceDecision{Action: ActionSkip, Reason: SkipCreateOnly}
	}

	merged := *existing
	if existing.Live != records.Confirmed {
		merged.Live = incoming.Live
	}
	if existing.Recorded != records.Confirmed {
		merged.Recorded = incoming.Recorded
	}
	merged.Platform = incoming.Platform
	merged.Link = incoming.Link
	merged.WatchMinutes = incoming.WatchMinutes
	merged.TotalMinutes = incoming.TotalMinutes
	merged.WatchedAt = incoming.WatchedAt
	merged.EnforceExclusivity()

	return AttendanceDecision{
		Action:           ActionUpdate,
		Attendance:       &merged,
		ExpectedLive:     existing.Live,
		ExpectedRecorded: existing.Recorded,
	}
}
