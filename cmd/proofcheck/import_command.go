package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"proofcheck/internal/config"
	"proofcheck/internal/importer"
	"proofcheck/internal/reconcile"
	"proofcheck/internal/records"
	"proofcheck/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var modeFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "import file.csv",
		Short: "Import submission or attendance rows from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mode, ok := reconcile.ParseMode(modeFlag)
			if modeFlag == "" {
				mode, ok = reconcile.ParseMode(cfg.Import.DefaultMode)
			}
			if !ok {
				return fmt.Errorf("invalid mode %q (use create, update, or create-update)", modeFlag)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				imp := importer.New(st, mode, logger)

				var stats *importer.Stats
				switch kindFlag {
				case "attendance":
					rows, err := readAttendanceRows(file)
					if err != nil {
						return err
					}
					stats, err = imp.ImportAttendance(cmd.Context(), rows)
					if err != nil {
						return err
					}
				case string(records.KindProfile), string(records.KindBadge):
					kind := records.Kind(kindFlag)
					rows, err := readSubmissionRows(file, kind)
					if err != nil {
						return err
					}
					stats, err = imp.ImportSubmissions(cmd.Context(), kind, rows)
					if err != nil {
						return err
					}
				default:
					return fmt.Errorf("invalid kind %q (use profile, badge, or attendance)", kindFlag)
				}

				if jsonFlag {
					return writeImportStatsJSON(cmd, stats)
				}
				printImportStats(cmd, stats)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Row kind: profile, badge, or attendance")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Reconciliation mode: create, update, or create-update")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit batch statistics as JSON")
	cmd.MarkFlagRequired("kind")

	return cmd
}

func printImportStats(cmd *cobra.Command, stats *importer.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(out,
		[]string{"Batch", "Total", "Created", "Updated", "Skipped", "Errors"},
		[][]string{{
			stats.BatchID,
			strconv.Itoa(stats.Total),
			strconv.Itoa(stats.Created),
			strconv.Itoa(stats.Updated),
			strconv.Itoa(stats.Skipped),
			strconv.Itoa(len(stats.Errors)),
		}},
		2, 3, 4, 5, 6,
	))
	for _, rowErr := range stats.Errors {
		fmt.Fprintf(out, "  %v\n", rowErr)
	}
}

func writeImportStatsJSON(cmd *cobra.Command, stats *importer.Stats) error {
	errs := make([]string, 0, len(stats.Errors))
	for _, rowErr := range stats.Errors {
		errs = append(errs, rowErr.Error())
	}
	return writeJSON(cmd, map[string]any{
		"batch_id": stats.BatchID,
		"total":    stats.Total,
		"created":  stats.Created,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
		"errors":   errs,
	})
}
