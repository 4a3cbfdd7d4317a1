// Package logging assembles the structured slog loggers used across
// proofcheck components.
//
// It owns level and output plumbing, typed attribute helpers, and
// context-aware helpers so pipeline code automatically tags log lines with
// run IDs and record identities. Prefer these constructors over hand-rolled
// slog setup so every component emits data with the same shape.
package logging
