// Package ratelimit enforces a minimum spacing between outbound requests to
// one external target class.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Governor hands out dispatch slots per target class (typically the remote
// host). The configured interval is a floor between consecutive dispatches to
// one class; bursts are never permitted. Safe for concurrent use.
type Governor struct {
	interval time.Duration

	mu      sync.Mutex
	classes map[string]*rate.Limiter
}

// NewGovernor constructs a Governor with the given minimum inter-request
// interval.
func NewGovernor(interval time.Duration) *Governor {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return &Governor{
		interval: interval,
		classes:  make(map[string]*rate.Limiter),
	}
}

// Acquire blocks the caller until the class's slot opens, then claims it.
// Claiming and timestamp update are one atomic step inside the limiter, so
// two concurrent callers can never compute overlapping "go" decisions.
// Returns early with the context's error when ctx is cancelled.
func (g *Governor) Acquire(ctx context.Context, class string) error {
	return g.limiter(class).Wait(ctx)
}

func (g *Governor) limiter(class string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	limiter, ok := g.classes[class]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(g.interval), 1)
		g.classes[class] = limiter
	}
	return limiter
}
