package testsupport

import (
	"context"
	"testing"

	"proofcheck/internal/config"
	"proofcheck/internal/records"
	"proofcheck/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedSubmission inserts a submission record for tests.
func SeedSubmission(t testing.TB, st *store.Store, sub records.Submission) *records.Submission {
	t.Helper()

	if err := st.InsertSubmission(context.Background(), &sub); err != nil {
		t.Fatalf("store.InsertSubmission: %v", err)
	}
	return &sub
}

// SeedAttendance inserts an attendance record for tests.
func SeedAttendance(t testing.TB, st *store.Store, att records.Attendance) *records.Attendance {
	t.Helper()

	if err := st.InsertAttendance(context.Background(), &att); err != nil {
		t.Fatalf("store.InsertAttendance: %v", err)
	}
	return &att
}
