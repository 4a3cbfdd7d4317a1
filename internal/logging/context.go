package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{ name string }

var runIDKey = contextKey{"run_id"}

// WithRunID stores a verification run identifier in the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID extracts the verification run identifier, if any.
func RunID(ctx context.Context) string {
	if value, ok := ctx.Value(runIDKey).(string); ok {
		return value
	}
	return ""
}

// WithContext returns a logger enriched with any identifiers carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if runID := RunID(ctx); runID != "" {
		logger = logger.With(String(FieldRunID, runID))
	}
	return logger
}
