package records

import "strings"

// Confirmation is the tri-state result of a verifiable claim.
type Confirmation int

const (
	// Pending means no verification outcome has been recorded yet. It is the
	// only state eligible for automatic re-verification.
	Pending Confirmation = iota
	// Confirmed means the claim was independently corroborated. Confirmed is
	// terminal and protects the record from later submissions.
	Confirmed
	// Rejected means the claim was checked and did not hold. A rejected
	// record may be replaced by a fresh submission.
	Rejected
)

func (c Confirmation) String() string {
	switch c {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Terminal reports whether the state excludes a record from the pending queue.
func (c Confirmation) Terminal() bool {
	return c == Confirmed || c == Rejected
}

// ParseConfirmation maps the spreadsheet vocabulary onto the tri-state.
// TRUE/yes/1 confirm, FALSE/no/0 reject, and the "-"/empty/null sentinels all
// mean Pending.
func ParseConfirmation(value string) (Confirmation, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1", "confirmed":
		return Confirmed, true
	case "false", "no", "0", "rejected":
		return Rejected, true
	case "", "-", "null", "none", "pending":
		return Pending, true
	default:
		return Pending, false
	}
}
