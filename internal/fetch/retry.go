package fetch

import (
	"context"
	"log/slog"

	"proofcheck/internal/logging"
)

// Func performs one fetch attempt. *Client.Fetch satisfies it; tests swap in
// fakes.
type Func func(ctx context.Context, reference string) (*Result, error)

// Gate grants a send slot for a host class before each attempt. The rate
// governor satisfies it.
type Gate interface {
	Acquire(ctx context.Context, class string) error
}

// Retrier wraps a fetch function with per-host pacing and bounded retries.
// Every attempt goes through the gate, including retries, so a flapping host
// never receives a tighter burst than a healthy one.
type Retrier struct {
	fetch    Func
	gate     Gate
	attempts int
	logger   *slog.Logger
}

// NewRetrier builds a Retrier. attempts is the total attempt count and is
// clamped to a minimum of one; a nil gate disables pacing.
func NewRetrier(fetch Func, gate Gate, attempts int, logger *slog.Logger) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		fetch:    fetch,
		gate:     gate,
		attempts: attempts,
		logger:   logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch retrieves reference, retrying timeouts and connection failures up to
// the configured attempt budget. Content-level failures (missing resource,
// bad status) return immediately.
func (r *Retrier) Fetch(ctx context.Context, class, reference string) (*Result, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if r.gate != nil {
			if err := r.gate.Acquire(ctx, class); err != nil {
				return nil, err
			}
		}

		result, err := r.fetch(ctx, reference)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !Retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		r.logger.Debug("retrying after transient failure",
			logging.String("url", reference),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", r.attempts),
			logging.Error(err))
	}
	return nil, lastErr
}
