package testsupport

import (
	"path/filepath"
	"testing"

	"proofcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Verification.RateLimitDelay = 0.001

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWorkers overrides the verification worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Verification.Workers = workers
	}
}

// WithHosts overrides both host allow-lists on the test config.
func WithHosts(hosts ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.ProfileHosts = hosts
		cfg.Matching.BadgeHosts = hosts
	}
}
