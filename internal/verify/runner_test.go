package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"proofcheck/internal/fetch"
	"proofcheck/internal/logging"
	"proofcheck/internal/records"
	"proofcheck/internal/store"
	"proofcheck/internal/testsupport"
)

type fakeFetcher struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]fakeResponse
	onFetch   func(reference string)
}

type fakeResponse struct {
	body string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, _, reference string) (*fetch.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reference)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch(reference)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, ok := f.responses[reference]
	if !ok {
		return nil, fmt.Errorf("%w: no response configured", fetch.ErrConnection)
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return &fetch.Result{Body: []byte(resp.body), FinalURL: reference}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func badgeBody(title string) string {
	return fmt.Sprintf(`<html><body><h1 class="badge-name">%s</h1></body></html>`, title)
}

func badgeURL(id int) string {
	return fmt.Sprintf("https://www.cloudskillsboost.google/public_profiles/abc/badges/%d", id)
}

func mustGet(t *testing.T, st *store.Store, kind records.Kind, identity, discriminator string) *records.Submission {
	t.Helper()
	sub, err := st.GetSubmission(context.Background(), kind, identity, discriminator)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if sub == nil {
		t.Fatalf("submission %s/%s missing", identity, discriminator)
	}
	return sub
}

func TestRunWritesOutcomes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	matching := testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "ada@example.com",
		Discriminator: "Introduction to Generative AI", Reference: badgeURL(1),
	})
	mismatching := testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "grace@example.com",
		Discriminator: "Responsible AI", Reference: badgeURL(2),
	})
	unreachable := testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "kay@example.com",
		Discriminator: "Prompt Design", Reference: badgeURL(3),
	})

	fetcher := &fakeFetcher{responses: map[string]fakeResponse{
		badgeURL(1): {body: badgeBody("Introduction to Generative AI")},
		badgeURL(2): {body: badgeBody("Advanced Kubernetes Networking")},
		badgeURL(3): {err: fmt.Errorf("%w: host down", fetch.ErrTimeout)},
	}}

	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(fetcher), WithWorkers(2))
	summary, err := runner.Run(context.Background(), records.KindBadge)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.Queued != 3 {
		t.Errorf("Queued = %d, want 3", summary.Queued)
	}
	if summary.Confirmed != 1 || summary.Rejected != 1 || summary.Errors != 1 || summary.Conflicts != 0 {
		t.Errorf("summary = %+v, want 1 confirmed, 1 rejected, 1 error", summary)
	}

	got := mustGet(t, st, records.KindBadge, matching.Identity, matching.Discriminator)
	if got.Confirmation != records.Confirmed {
		t.Errorf("matching record = %v, want confirmed", got.Confirmation)
	}
	if got.Note != "" {
		t.Errorf("confirmed record must carry no note, got %q", got.Note)
	}

	got = mustGet(t, st, records.KindBadge, mismatching.Identity, mismatching.Discriminator)
	if got.Confirmation != records.Rejected {
		t.Errorf("mismatching record = %v, want rejected", got.Confirmation)
	}
	if got.Note == "" {
		t.Error("rejected record must carry a reason note")
	}

	got = mustGet(t, st, records.KindBadge, unreachable.Identity, unreachable.Discriminator)
	if got.Confirmation != records.Rejected {
		t.Errorf("unreachable record = %v, want rejected", got.Confirmation)
	}
}

func TestRunRejectsWrongDomainWithoutFetching(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	seeded := testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindProfile, Identity: "ada@example.com",
		Discriminator: "https://evil.example.com/public_profiles/x",
		Reference:     "https://evil.example.com/public_profiles/x",
	})

	fetcher := &fakeFetcher{}
	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(fetcher))
	summary, err := runner.Run(context.Background(), records.KindProfile)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if fetcher.callCount() != 0 {
		t.Errorf("fetcher called %d times for a wrong-domain reference, want 0", fetcher.callCount())
	}
	if summary.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", summary.Rejected)
	}

	got := mustGet(t, st, records.KindProfile, seeded.Identity, seeded.Discriminator)
	if got.Confirmation != records.Rejected {
		t.Errorf("record = %v, want rejected", got.Confirmation)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "ada@example.com",
		Discriminator: "Introduction to Generative AI", Reference: badgeURL(1),
	})

	fetcher := &fakeFetcher{responses: map[string]fakeResponse{
		badgeURL(1): {body: badgeBody("Introduction to Generative AI")},
	}}
	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(fetcher))

	if _, err := runner.Run(context.Background(), records.KindBadge); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runner.Run(context.Background(), records.KindBadge)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Queued != 0 {
		t.Errorf("second run queued %d records, want 0", second.Queued)
	}
	if fetcher.callCount() != 1 {
		t.Errorf("fetcher called %d times across both runs, want 1", fetcher.callCount())
	}
}

func TestRunDropsConflictedWriteBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	seeded := testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "ada@example.com",
		Discriminator: "Introduction to Generative AI", Reference: badgeURL(1),
	})

	fetcher := &fakeFetcher{
		responses: map[string]fakeResponse{
			badgeURL(1): {body: badgeBody("Advanced Kubernetes Networking")},
		},
		// Confirm the record out-of-band while its fetch is in flight: the
		// run's pending-conditioned write-back must then become a no-op.
		onFetch: func(string) {
			concurrent := *seeded
			concurrent.Confirmation = records.Confirmed
			applied, err := st.CompareAndSetSubmission(context.Background(), &concurrent, records.Pending)
			if err != nil || !applied {
				t.Errorf("concurrent confirm failed: applied=%v err=%v", applied, err)
			}
		},
	}

	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(fetcher))
	summary, err := runner.Run(context.Background(), records.KindBadge)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", summary.Conflicts)
	}
	if summary.Rejected != 0 || summary.Errors != 0 {
		t.Errorf("summary = %+v, conflict must not count as rejection or error", summary)
	}

	got := mustGet(t, st, records.KindBadge, seeded.Identity, seeded.Discriminator)
	if got.Confirmation != records.Confirmed {
		t.Errorf("record = %v, concurrent confirmation must survive", got.Confirmation)
	}
}

func TestRunStopsCleanlyOnCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	for i := 1; i <= 5; i++ {
		testsupport.SeedSubmission(t, st, records.Submission{
			Kind: records.KindBadge, Identity: fmt.Sprintf("user%d@example.com", i),
			Discriminator: "Prompt Design", Reference: badgeURL(i),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &fakeFetcher{
		responses: map[string]fakeResponse{},
		onFetch:   func(string) { cancel() },
	}

	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(fetcher), WithWorkers(1))
	if _, err := runner.Run(ctx, records.KindBadge); err == nil {
		t.Fatal("expected error from cancelled run")
	}

	// Nothing may be left half-updated: every record is still either pending
	// or carries a complete terminal outcome, so the next run can resume.
	pending, err := st.ListPendingSubmissions(context.Background(), records.KindBadge, 0)
	if err != nil {
		t.Fatalf("ListPendingSubmissions: %v", err)
	}
	for _, sub := range pending {
		if sub.Note != "" {
			t.Errorf("pending record %s carries note %q", sub.Identity, sub.Note)
		}
	}
	if len(pending) == 0 {
		t.Error("expected unprocessed records to remain pending after cancellation")
	}
}

func TestRunTagsWorkerLogsWithRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "ada@example.com",
		Discriminator: "Introduction to Generative AI", Reference: badgeURL(1),
	})
	fetcher := &fakeFetcher{responses: map[string]fakeResponse{
		badgeURL(1): {body: badgeBody("Introduction to Generative AI")},
	}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	runner := NewRunner(cfg, st, logger, WithFetcher(fetcher))
	summary, err := runner.Run(context.Background(), records.KindBadge)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Worker log lines pick the run ID up from the context, not just the
	// run-level logger.
	want := logging.FieldRunID + "=" + summary.RunID
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "record verified") && !strings.Contains(line, want) {
			t.Errorf("worker log line missing %q: %s", want, line)
		}
	}
	if !strings.Contains(buf.String(), "record verified") {
		t.Fatal("expected a worker log line for the verified record")
	}
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take run lock: locked=%v err=%v", locked, err)
	}
	defer lock.Unlock()

	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(&fakeFetcher{}))
	if _, err := runner.Run(context.Background(), records.KindBadge); !errors.Is(err, ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}
}

func TestRunRecordsCheckpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedSubmission(t, st, records.Submission{
		Kind: records.KindBadge, Identity: "ada@example.com",
		Discriminator: "Introduction to Generative AI", Reference: badgeURL(1),
	})
	fetcher := &fakeFetcher{responses: map[string]fakeResponse{
		badgeURL(1): {body: badgeBody("Introduction to Generative AI")},
	}}

	runner := NewRunner(cfg, st, logging.NewNop(), WithFetcher(fetcher))
	summary, err := runner.Run(context.Background(), records.KindBadge)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	runs, err := st.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d checkpoints, want 1", len(runs))
	}
	if runs[0].ID != summary.RunID {
		t.Errorf("checkpoint ID = %q, want %q", runs[0].ID, summary.RunID)
	}
	if runs[0].Confirmed != 1 {
		t.Errorf("checkpoint Confirmed = %d, want 1", runs[0].Confirmed)
	}
	if runs[0].FinishedAt == nil {
		t.Error("checkpoint missing finish time")
	}
}
