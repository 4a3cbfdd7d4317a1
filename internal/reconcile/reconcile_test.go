package reconcile_test

import (
	"testing"

	"proofcheck/internal/reconcile"
	"proofcheck/internal/records"
)

func badgeInput(identity, course, reference string) reconcile.SubmissionInput {
	return reconcile.SubmissionInput{
		Kind:          records.KindBadge,
		Identity:      identity,
		Discriminator: course,
		Reference:     reference,
	}
}

func TestReconcileSubmissionCreate(t *testing.T) {
	decision := reconcile.ReconcileSubmission(nil, badgeInput("u@example.com", "c1", "link-a"), reconcile.CreateAndUpdate)
	if decision.Action != reconcile.ActionCreate {
		t.Fatalf("action = %v, want create", decision.Action)
	}
	sub := decision.Submission
	if sub.Confirmation != records.Pending {
		t.Errorf("new record must start pending, got %v", sub.Confirmation)
	}
	if sub.Reference != "link-a" || sub.Discriminator != "c1" {
		t.Errorf("unexpected record: %#v", sub)
	}
}

func TestReconcileSubmissionUpdateOnlyMissing(t *testing.T) {
	decision := reconcile.ReconcileSubmission(nil, badgeInput("u@example.com", "c2", "link-c"), reconcile.UpdateOnly)
	if decision.Action != reconcile.ActionSkip || decision.Reason != reconcile.SkipNotFound {
		t.Fatalf("decision = %+v, want skip(not found)", decision)
	}
	if decision.Submission != nil {
		t.Fatal("skip decisions must not carry a record")
	}
}

func TestReconcileSubmissionProtection(t *testing.T) {
	existing := &records.Submission{
		Kind:          records.KindBadge,
		Identity:      "u@example.com",
		Discriminator: "c1",
		Reference:     "link-a",
		Confirmation:  records.Confirmed,
		Note:          "verified",
	}

	for _, mode := range []reconcile.Mode{reconcile.CreateOnly, reconcile.UpdateOnly, reconcile.CreateAndUpdate} {
		decision := reconcile.ReconcileSubmission(existing, badgeInput("u@example.com", "c1", "link-b"), mode)
		if decision.Action != reconcile.ActionSkip || decision.Reason != reconcile.SkipAlreadyConfirmed {
			t.Errorf("mode %v: decision = %+v, want skip(already confirmed)", mode, decision)
		}
	}
	if existing.Reference != "link-a" || existing.Note != "verified" || existing.Confirmation != records.Confirmed {
		t.Fatalf("existing record mutated: %#v", existing)
	}
}

func TestReconcileSubmissionResetOnUpdate(t *testing.T) {
	for _, prior := range []records.Confirmation{records.Rejected, records.Pending} {
		existing := &records.Submission{
			Kind:          records.KindBadge,
			Identity:      "u@example.com",
			Discriminator: "c1",
			Reference:     "link-a",
			Confirmation:  prior,
			Note:          "badge mismatch",
		}
		decision := reconcile.ReconcileSubmission(existing, badgeInput("u@example.com", "c1", "link-b"), reconcile.CreateAndUpdate)
		if decision.Action != reconcile.ActionUpdate {
			t.Fatalf("prior %v: action = %v, want update", prior, decision.Action)
		}
		updated := decision.Submission
		if updated.Reference != "link-b" {
			t.Errorf("reference = %q, want incoming link", updated.Reference)
		}
		if updated.Confirmation != records.Pending {
			t.Errorf("confirmation = %v, want pending reset", updated.Confirmation)
		}
		if updated.Note != "" {
			t.Errorf("note = %q, want cleared", updated.Note)
		}
		if decision.Expected != prior {
			t.Errorf("expected = %v, want observed prior state %v", decision.Expected, prior)
		}
	}
}

func TestReconcileSubmissionCreateOnlyExisting(t *testing.T) {
	existing := &records.Submission{
		Kind:          records.KindBadge,
		Identity:      "u@example.com",
		Discriminator: "c1",
		Confirmation:  records.Rejected,
	}
	decision := reconcile.ReconcileSubmission(existing, badgeInput("u@example.com", "c1", "link-b"), reconcile.CreateOnly)
	if decision.Action != reconcile.ActionSkip || decision.Reason != reconcile.SkipCreateOnly {
		t.Fatalf("decision = %+v, want skip(create-only)", decision)
	}
}

func TestDifferentDiscriminatorIsIndependent(t *testing.T) {
	// A confirmed record for c1 must never shadow a new submission for c2:
	// the caller looks up by (identity, discriminator), finds nothing, and
	// the decision is a plain create.
	decision := reconcile.ReconcileSubmission(nil, badgeInput("u@example.com", "c2", "link-c"), reconcile.CreateAndUpdate)
	if decision.Action != reconcile.ActionCreate {
		t.Fatalf("action = %v, want create", decision.Action)
	}
}

func TestReconcileAttendanceMerge(t *testing.T) {
	existing := &records.Attendance{
		Identity: "u@example.com",
		Session:  "s1",
		Live:     records.Pending,
		Recorded: records.Confirmed,
	}
	incoming := reconcile.AttendanceInput{
		Identity: "u@example.com",
		Session:  "s1",
		Live:     records.Confirmed,
		Recorded: records.Pending,
		Platform: "youtube",
	}

	decision := reconcile.ReconcileAttendance(existing, incoming, reconcile.CreateAndUpdate)
	if decision.Action != reconcile.ActionUpdate {
		t.Fatalf("action = %v, want update", decision.Action)
	}
	merged := decision.Attendance
	if merged.Live != records.Confirmed {
		t.Errorf("live = %v, want confirmed", merged.Live)
	}
	// Recorded was confirmed, but live now confirms too: exclusivity forces
	// recorded back to pending.
	if merged.Recorded != records.Pending {
		t.Errorf("recorded = %v, want forced pending", merged.Recorded)
	}
	if decision.ExpectedLive != records.Pending || decision.ExpectedRecorded != records.Confirmed {
		t.Errorf("expectations = (%v, %v), want observed prior flags", decision.ExpectedLive, decision.ExpectedRecorded)
	}
}

func TestReconcileAttendanceConfirmedFlagWins(t *testing.T) {
	existing := &records.Attendance{
		Identity: "u@example.com",
		Session:  "s1",
		Live:     records.Confirmed,
		Recorded: records.Pending,
	}
	incoming := reconcile.AttendanceInput{
		Identity: "u@example.com",
		Session:  "s1",
		Live:     records.Rejected,
		Recorded: records.Rejected,
	}

	decision := reconcile.ReconcileAttendance(existing, incoming, reconcile.CreateAndUpdate)
	merged := decision.Attendance
	if merged.Live != records.Confirmed {
		t.Errorf("confirmed live must not be downgraded, got %v", merged.Live)
	}
	if merged.Recorded != records.Rejected {
		t.Errorf("unprotected recorded should take incoming value, got %v", merged.Recorded)
	}
}

func TestReconcileAttendanceBothIncomingConfirmed(t *testing.T) {
	incoming := reconcile.AttendanceInput{
		Identity: "u@example.com",
		Session:  "s1",
		Live:     records.Confirmed,
		Recorded: records.Confirmed,
	}
	decision := reconcile.ReconcileAttendance(nil, incoming, reconcile.CreateAndUpdate)
	if decision.Action != reconcile.ActionCreate {
		t.Fatalf("action = %v, want create", decision.Action)
	}
	if decision.Attendance.Live != records.Confirmed || decision.Attendance.Recorded != records.Pending {
		t.Fatalf("exclusivity not applied on create: %#v", decision.Attendance)
	}
}

func TestReconcileAttendanceTelemetryAlwaysOverwritten(t *testing.T) {
	existing := &records.Attendance{
		Identity:     "u@example.com",
		Session:      "s1",
		Live:         records.Confirmed,
		Platform:     "zoom",
		WatchMinutes: 10,
		TotalMinutes: 60,
	}
	incoming := reconcile.AttendanceInput{
		Identity:     "u@example.com",
		Session:      "s1",
		Live:         records.Pending,
		Platform:     "youtube",
		WatchMinutes: 55,
		TotalMinutes: 60,
	}
	decision := reconcile.ReconcileAttendance(existing, incoming, reconcile.CreateAndUpdate)
	merged := decision.Attendance
	if merged.Platform != "youtube" || merged.WatchMinutes != 55 {
		t.Fatalf("telemetry must track incoming row: %#v", merged)
	}
	if merged.Live != records.Confirmed {
		t.Fatalf("protected flag must survive telemetry refresh, got %v", merged.Live)
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		value string
		want  reconcile.Mode
		ok    bool
	}{
		{"create", reconcile.CreateOnly, true},
		{"UPDATE", reconcile.UpdateOnly, true},
		{"create-update", reconcile.CreateAndUpdate, true},
		{"create_update", reconcile.CreateAndUpdate, true},
		{"merge", reconcile.CreateAndUpdate, false},
	}
	for _, tc := range cases {
		got, ok := reconcile.ParseMode(tc.value)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, %v)", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}
