package logging_test

import (
	"context"
	"path/filepath"
	"testing"

	"proofcheck/internal/config"
	"proofcheck/internal/logging"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")
}

func TestWithContextAddsRunID(t *testing.T) {
	ctx := logging.WithRunID(context.Background(), "run-1")
	if got := logging.RunID(ctx); got != "run-1" {
		t.Fatalf("RunID = %q", got)
	}
	logger := logging.WithContext(ctx, logging.NewNop())
	logger.Info("tagged")

	if got := logging.RunID(context.Background()); got != "" {
		t.Fatalf("expected empty run ID, got %q", got)
	}
}
