package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"proofcheck/internal/config"
	"proofcheck/internal/fetch"
	"proofcheck/internal/logging"
	"proofcheck/internal/match"
	"proofcheck/internal/ratelimit"
	"proofcheck/internal/records"
	"proofcheck/internal/store"
)

// ErrRunActive means another process holds the verification run lock.
var ErrRunActive = errors.New("verify: another verification run is in progress")

const lockFileName = "verify.lock"

// Fetcher retrieves a reference within a rate-limit class. *fetch.Retrier
// satisfies it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, class, reference string) (*fetch.Result, error)
}

// Summary reports what one verification run did.
type Summary struct {
	RunID    string
	Kind     records.Kind
	Queued   int
	// Confirmed and Rejected count outcome write-backs. Errors counts records
	// whose fetch failed outright (written back as rejected-unreachable).
	// Conflicts counts write-backs dropped because the record changed
	// underneath the run. Each record lands in exactly one counter.
	Confirmed int
	Rejected  int
	Errors    int
	Conflicts int
	Duration  time.Duration
}

// Runner executes verification runs over the pending queue.
type Runner struct {
	cfg     *config.Config
	store   *store.Store
	matcher *match.Matcher
	fetcher Fetcher
	workers int
	limit   int
	logger  *slog.Logger
}

// Option adjusts a Runner.
type Option func(*Runner)

// WithFetcher substitutes the fetch pipeline, bypassing the HTTP client and
// rate governor entirely.
func WithFetcher(fetcher Fetcher) Option {
	return func(r *Runner) {
		if fetcher != nil {
			r.fetcher = fetcher
		}
	}
}

// WithLimit caps how many pending records one run picks up per kind.
func WithLimit(limit int) Option {
	return func(r *Runner) { r.limit = limit }
}

// WithWorkers overrides the configured worker count.
func WithWorkers(workers int) Option {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// NewRunner wires the full pipeline from configuration: rate-governed,
// retrying HTTP fetches feeding the content matcher.
func NewRunner(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		cfg:     cfg,
		store:   st,
		matcher: match.NewMatcher(cfg),
		workers: cfg.Verification.Workers,
		logger:  logging.NewComponentLogger(logger, "verify"),
	}
	if runner.workers < 1 {
		runner.workers = 1
	}

	interval := time.Duration(cfg.Verification.RateLimitDelay * float64(time.Second))
	governor := ratelimit.NewGovernor(interval)
	client := fetch.NewClient(cfg, logger)
	runner.fetcher = fetch.NewRetrier(client.Fetch, governor, cfg.Verification.RetryAttempts, logger)

	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

type runCounters struct {
	confirmed atomic.Int64
	rejected  atomic.Int64
	errors    atomic.Int64
	conflicts atomic.Int64
}

// Run verifies pending records of the given kind; an empty kind covers all
// kinds. The returned summary is valid even when the run was cancelled
// partway, since every completed write-back stands on its own.
func (r *Runner) Run(ctx context.Context, kind records.Kind) (*Summary, error) {
	lock := flock.New(filepath.Join(r.cfg.Paths.DataDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("verify: acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrRunActive
	}
	defer lock.Unlock()

	kinds := []records.Kind{kind}
	if kind == "" {
		kinds = []records.Kind{records.KindProfile, records.KindBadge}
	}

	var queue []*records.Submission
	for _, k := range kinds {
		pending, err := r.store.ListPendingSubmissions(ctx, k, r.limit)
		if err != nil {
			return nil, err
		}
		queue = append(queue, pending...)
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	start := time.Now()
	logger.Info("verification run starting",
		logging.String(logging.FieldKind, string(kind)),
		logging.Int("queued", len(queue)),
		logging.Int("workers", r.workers))

	if err := r.store.StartRun(ctx, runID, kind); err != nil {
		return nil, err
	}

	var counters runCounters
	group, groupCtx := errgroup.WithContext(ctx)
	jobs := make(chan *records.Submission)

	group.Go(func() error {
		defer close(jobs)
		for _, sub := range queue {
			select {
			case jobs <- sub:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	for i := 0; i < r.workers; i++ {
		group.Go(func() error {
			for sub := range jobs {
				if err := r.verifyRecord(groupCtx, sub, &counters); err != nil {
					return err
				}
			}
			return nil
		})
	}

	runErr := group.Wait()

	summary := &Summary{
		RunID:     runID,
		Kind:      kind,
		Queued:    len(queue),
		Confirmed: int(counters.confirmed.Load()),
		Rejected:  int(counters.rejected.Load()),
		Errors:    int(counters.errors.Load()),
		Conflicts: int(counters.conflicts.Load()),
		Duration:  time.Since(start),
	}

	// The checkpoint must land even when the run context was cancelled.
	finishCtx := context.WithoutCancel(ctx)
	if err := r.store.FinishRun(finishCtx, runID, summary.Confirmed, summary.Rejected, summary.Errors, summary.Conflicts); err != nil {
		logger.Warn("failed to record run checkpoint", logging.Error(err))
	}

	logger.Info("verification run finished",
		logging.Int("confirmed", summary.Confirmed),
		logging.Int("rejected", summary.Rejected),
		logging.Int("errors", summary.Errors),
		logging.Int("conflicts", summary.Conflicts),
		logging.Duration("duration", summary.Duration))

	return summary, runErr
}

// verifyRecord derives its logger from the context so worker log lines
// carry the run identifier stamped by Run.
func (r *Runner) verifyRecord(ctx context.Context, sub *records.Submission, counters *runCounters) error {
	logger := logging.WithContext(ctx, r.logger)
	outcome, fetchFailed, err := r.evaluate(ctx, sub)
	if err != nil {
		// Cancellation between records leaves the record untouched; the next
		// run picks it up again from the pending queue.
		return err
	}

	updated := *sub
	updated.Confirmation = outcome.Result
	updated.Note = ""
	if outcome.Result == records.Rejected {
		updated.Note = outcome.Note
	}

	applied, err := r.store.CompareAndSetSubmission(ctx, &updated, records.Pending)
	if err != nil {
		return err
	}
	if !applied {
		counters.conflicts.Add(1)
		logger.Debug("write-back dropped, record changed concurrently",
			logging.String(logging.FieldIdentity, sub.Identity),
			logging.String("discriminator", sub.Discriminator))
		return nil
	}

	switch {
	case fetchFailed:
		counters.errors.Add(1)
	case outcome.Result == records.Confirmed:
		counters.confirmed.Add(1)
	default:
		counters.rejected.Add(1)
	}

	logger.Debug("record verified",
		logging.String(logging.FieldIdentity, sub.Identity),
		logging.String(logging.FieldKind, string(sub.Kind)),
		logging.String("result", outcome.Result.String()),
		logging.String("reason", string(outcome.Reason)))
	return nil
}

// evaluate produces the outcome for one record. The error return is reserved
// for cancellation; every fetch or content failure becomes an outcome.
func (r *Runner) evaluate(ctx context.Context, sub *records.Submission) (Outcome, bool, error) {
	if verdict := r.matcher.CheckReference(sub.Kind, sub.Reference); verdict != nil {
		return outcomeFromVerdict(*verdict), false, nil
	}

	result, err := r.fetcher.Fetch(ctx, fetch.HostClass(sub.Reference), sub.Reference)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return Outcome{}, false, err
		}
		return rejected(ReasonUnreachable, err.Error()), true, nil
	}

	expectation := match.Expectation{Kind: sub.Kind}
	if sub.Kind == records.KindBadge {
		expectation.Title = sub.Discriminator
	}
	return outcomeFromVerdict(r.matcher.Evaluate(expectation, result.FinalURL, result.Body)), false, nil
}
