package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"proofcheck/internal/config"
	"proofcheck/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool
	var runsFlag int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show record counts and recent verification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.SubmissionStats(cmd.Context())
				if err != nil {
					return err
				}
				attendance, err := st.AttendanceSummary(cmd.Context())
				if err != nil {
					return err
				}
				runs, err := st.RecentRuns(cmd.Context(), runsFlag)
				if err != nil {
					return err
				}

				if jsonFlag {
					return writeStatusJSON(cmd, stats, attendance, runs)
				}
				printStatus(cmd, stats, attendance, runs)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit status as JSON")
	cmd.Flags().IntVar(&runsFlag, "runs", 5, "How many recent verification runs to show")

	return cmd
}

func printStatus(cmd *cobra.Command, stats []store.KindStats, attendance store.AttendanceStats, runs []store.RunCheckpoint) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			string(s.Kind),
			strconv.Itoa(s.Pending),
			strconv.Itoa(s.Confirmed),
			strconv.Itoa(s.Rejected),
		})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No submission records yet")
	} else {
		fmt.Fprintln(out, renderTable(out,
			[]string{"Kind", "Pending", "Confirmed", "Rejected"},
			rows, 2, 3, 4,
		))
	}

	fmt.Fprintf(out, "Attendance: %d records, %d live confirmed, %d recorded confirmed\n",
		attendance.Total, attendance.LiveConfirmed, attendance.RecordedConfirmed)

	if len(runs) == 0 {
		return
	}
	runRows := make([][]string, 0, len(runs))
	for _, run := range runs {
		kind := string(run.Kind)
		if kind == "" {
			kind = "all"
		}
		finished := "running"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Local().Format(time.DateTime)
		}
		runRows = append(runRows, []string{
			run.ID,
			kind,
			run.StartedAt.Local().Format(time.DateTime),
			finished,
			strconv.Itoa(run.Confirmed),
			strconv.Itoa(run.Rejected),
			strconv.Itoa(run.Errors),
			strconv.Itoa(run.Conflicts),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Run", "Kind", "Started", "Finished", "Confirmed", "Rejected", "Errors", "Conflicts"},
		runRows, 5, 6, 7, 8,
	))
}

func writeStatusJSON(cmd *cobra.Command, stats []store.KindStats, attendance store.AttendanceStats, runs []store.RunCheckpoint) error {
	kinds := make([]map[string]any, 0, len(stats))
	for _, s := range stats {
		kinds = append(kinds, map[string]any{
			"kind":      string(s.Kind),
			"pending":   s.Pending,
			"confirmed": s.Confirmed,
			"rejected":  s.Rejected,
		})
	}
	runList := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		entry := map[string]any{
			"id":         run.ID,
			"kind":       string(run.Kind),
			"started_at": run.StartedAt,
			"confirmed":  run.Confirmed,
			"rejected":   run.Rejected,
			"errors":     run.Errors,
			"conflicts":  run.Conflicts,
		}
		if run.FinishedAt != nil {
			entry["finished_at"] = run.FinishedAt
		}
		runList = append(runList, entry)
	}
	return writeJSON(cmd, map[string]any{
		"submissions": kinds,
		"attendance": map[string]any{
			"total":              attendance.Total,
			"live_confirmed":     attendance.LiveConfirmed,
			"recorded_confirmed": attendance.RecordedConfirmed,
		},
		"runs": runList,
	})
}
