package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"proofcheck/internal/logging"
	"proofcheck/internal/reconcile"
	"proofcheck/internal/records"
	"proofcheck/internal/store"
)

// RowError ties a failure to its one-based row position in the batch.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Stats accounts for every row in one import batch. Skipped covers
// reconciler skips and stale-decision conflicts; Errors holds rows that
// never reached the reconciler.
type Stats struct {
	BatchID string
	Total   int
	Created int
	Updated int
	Skipped int
	Errors  []RowError
}

// Importer feeds normalized rows through the reconciler into the store.
type Importer struct {
	store  *store.Store
	mode   reconcile.Mode
	logger *slog.Logger
}

// New builds an Importer running in the given reconciliation mode.
func New(st *store.Store, mode reconcile.Mode, logger *slog.Logger) *Importer {
	return &Importer{
		store:  st,
		mode:   mode,
		logger: logging.NewComponentLogger(logger, "importer"),
	}
}

// ImportSubmissions ingests single-flag claim rows of one kind. Malformed
// rows are collected in the stats and skipped; a store failure aborts the
// batch with the rows so far already committed.
func (i *Importer) ImportSubmissions(ctx context.Context, kind records.Kind, rows []SubmissionRow) (*Stats, error) {
	stats := &Stats{BatchID: uuid.NewString(), Total: len(rows)}
	logger := i.logger.With(logging.String("batch_id", stats.BatchID))

	for index, row := range rows {
		input, err := row.normalize(kind)
		if err != nil {
			stats.Errors = append(stats.Errors, RowError{Row: index + 1, Err: err})
			continue
		}

		existing, err := i.store.GetSubmission(ctx, kind, input.Identity, input.Discriminator)
		if err != nil {
			return stats, err
		}

		decision := reconcile.ReconcileSubmission(existing, input, i.mode)
		applied, err := reconcile.ApplySubmission(ctx, i.store, decision)
		if err != nil {
			return stats, err
		}

		i.account(stats, decision.Action, applied)
		logger.Debug("submission row reconciled",
			logging.String(logging.FieldIdentity, input.Identity),
			logging.String(logging.FieldKind, string(kind)),
			logging.String("action", decision.Action.String()),
			logging.String("skip_reason", string(decision.Reason)))
	}

	i.logBatch(logger, "submission import finished", stats)
	return stats, nil
}

// ImportAttendance ingests attendance rows with the per-flag merge and
// exclusivity semantics of the attendance reconciler.
func (i *Importer) ImportAttendance(ctx context.Context, rows []AttendanceRow) (*Stats, error) {
	stats := &Stats{BatchID: uuid.NewString(), Total: len(rows)}
	logger := i.logger.With(logging.String("batch_id", stats.BatchID))

	for index, row := range rows {
		input, err := row.normalize()
		if err != nil {
			stats.Errors = append(stats.Errors, RowError{Row: index + 1, Err: err})
			continue
		}

		existing, err := i.store.GetAttendance(ctx, input.Identity, input.Session)
		if err != nil {
			return stats, err
		}

		decision := reconcile.ReconcileAttendance(existing, input, i.mode)
		applied, err := reconcile.ApplyAttendance(ctx, i.store, decision)
		if err != nil {
			return stats, err
		}

		i.account(stats, decision.Action, applied)
		logger.Debug("attendance row reconciled",
			logging.String(logging.FieldIdentity, input.Identity),
			logging.String("session", input.Session),
			logging.String("action", decision.Action.String()),
			logging.String("skip_reason", string(decision.Reason)))
	}

	i.logBatch(logger, "attendance import finished", stats)
	return stats, nil
}

func (i *Importer) account(stats *Stats, action reconcile.Action, applied bool) {
	switch {
	case action == reconcile.ActionCreate && applied:
		stats.Created++
	case action == reconcile.ActionUpdate && applied:
		stats.Updated++
	default:
		stats.Skipped++
	}
}

func (i *Importer) logBatch(logger *slog.Logger, message string, stats *Stats) {
	logger.Info(message,
		logging.Int("total", stats.Total),
		logging.Int("created", stats.Created),
		logging.Int("updated", stats.Updated),
		logging.Int("skipped", stats.Skipped),
		logging.Int("errors", len(stats.Errors)))
}
