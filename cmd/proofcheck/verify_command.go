package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"proofcheck/internal/config"
	"proofcheck/internal/records"
	"proofcheck/internal/store"
	"proofcheck/internal/verify"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var limitFlag int
	var workersFlag int
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify pending records against their external references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind records.Kind
			if kindFlag != "" {
				parsed, ok := records.ParseKind(kindFlag)
				if !ok {
					return fmt.Errorf("invalid kind %q (use profile or badge)", kindFlag)
				}
				kind = parsed
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				opts := []verify.Option{verify.WithLimit(limitFlag)}
				if workersFlag > 0 {
					opts = append(opts, verify.WithWorkers(workersFlag))
				}

				runner := verify.NewRunner(cfg, st, logger, opts...)
				summary, err := runner.Run(runCtx, kind)
				if summary != nil {
					if jsonFlag {
						if jsonErr := writeVerifySummaryJSON(cmd, summary); jsonErr != nil {
							return jsonErr
						}
					} else {
						printVerifySummary(cmd, summary)
					}
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Restrict the run to one kind: profile or badge")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Maximum pending records to pick up per kind (0 = all)")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Override the configured worker count")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the run summary as JSON")

	return cmd
}

func printVerifySummary(cmd *cobra.Command, summary *verify.Summary) {
	kind := string(summary.Kind)
	if kind == "" {
		kind = "all"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(out,
		[]string{"Run", "Kind", "Queued", "Confirmed", "Rejected", "Errors", "Conflicts", "Duration"},
		[][]string{{
			summary.RunID,
			kind,
			strconv.Itoa(summary.Queued),
			strconv.Itoa(summary.Confirmed),
			strconv.Itoa(summary.Rejected),
			strconv.Itoa(summary.Errors),
			strconv.Itoa(summary.Conflicts),
			summary.Duration.Round(time.Millisecond).String(),
		}},
		3, 4, 5, 6, 7,
	))
}

func writeVerifySummaryJSON(cmd *cobra.Command, summary *verify.Summary) error {
	return writeJSON(cmd, map[string]any{
		"run_id":    summary.RunID,
		"kind":      string(summary.Kind),
		"queued":    summary.Queued,
		"confirmed": summary.Confirmed,
		"rejected":  summary.Rejected,
		"errors":    summary.Errors,
		"conflicts": summary.Conflicts,
		"duration":  summary.Duration.String(),
	})
}
