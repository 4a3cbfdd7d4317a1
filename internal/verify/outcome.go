package verify

import (
	"fmt"

	"proofcheck/internal/match"
	"proofcheck/internal/records"
)

// Reason names why a record was rejected. Confirmed outcomes carry none.
type Reason string

const (
	// ReasonUnreachable covers exhausted retries, missing resources, and
	// terminal HTTP failures.
	ReasonUnreachable Reason = "unreachable"
	// ReasonWrongDomain means the reference points outside the allowed hosts
	// or lacks the claimed resource's path shape.
	ReasonWrongDomain Reason = "wrong domain"
	// ReasonUnparseable means the page did not expose the expected marker.
	ReasonUnparseable Reason = "unparseable"
	// ReasonMismatch means the page contradicts the claim.
	ReasonMismatch Reason = "mismatch"
)

// Outcome is the terminal result of one verification attempt. Result is
// Confirmed or Rejected, never Pending.
type Outcome struct {
	Result records.Confirmation
	Reason Reason
	Note   string
}

func outcomeFromVerdict(verdict match.Verdict) Outcome {
	switch verdict.Outcome {
	case match.OutcomeMatch:
		return Outcome{Result: records.Confirmed}
	case match.OutcomeWrongDomain:
		return rejected(ReasonWrongDomain, verdict.Detail)
	case match.OutcomeUnparseable:
		return rejected(ReasonUnparseable, verdict.Detail)
	default:
		return rejected(ReasonMismatch, verdict.Detail)
	}
}

func rejected(reason Reason, detail string) Outcome {
	note := string(reason)
	if detail != "" {
		note = fmt.Sprintf("%s: %s", reason, detail)
	}
	return Outcome{Result: records.Rejected, Reason: reason, Note: note}
}
