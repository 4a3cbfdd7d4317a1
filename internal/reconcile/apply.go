package reconcile

import (
	"context"

	"proofcheck/internal/store"
)

// ApplySubmission persists a submission decision. Skips apply nothing.
// A compare-and-set conflict returns (false, nil): the record changed since
// it was read and the caller's decision is stale, which is benign.
func ApplySubmission(ctx context.Context, st *store.Store, decision Decision) (bool, error) {
	switch decision.Action {
	case ActionCreate:
		if err := st.InsertSubmission(ctx, decision.Submission); err != nil {
			return false, err
		}
		return true, nil
	case ActionUpdate:
		return st.CompareAndSetSubmission(ctx, decision.Submission, decision.Expected)
	default:
		return false, nil
	}
}

// ApplyAttendance persists an attendance decision with the same conflict
// semantics as ApplySubmission.
func ApplyAttendance(ctx context.Context, st *store.Store, decision AttendanceDecision) (bool, error) {
	switch decision.Action {
	case ActionCreate:
		if err := st.InsertAttendance(ctx, decision.Attendance); err != nil {
			return false, err
		}
		return true, nil
	case ActionUpdate:
		return st.CompareAndSetAttendance(ctx, decision.Attendance, decision.ExpectedLive, decision.ExpectedRecorded)
	default:
		return false, nil
	}
}
