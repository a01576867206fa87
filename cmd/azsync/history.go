package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teppoaland/sbsaa/internal/history"
	"github.com/teppoaland/sbsaa/internal/paths"
)

var (
	flagHistoryRun   string
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local run history archive",
	Long: `History lists archived test runs, newest first. With --run it shows the
per-test results of one run, including the work item each result was synced
to and any defect that was filed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := paths.ResolveDataDir(flagDataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}

		archive, err := history.Open(dataDir, logger)
		if err != nil {
			return err
		}
		defer archive.Close()

		if flagHistoryRun != "" {
			return showRunResults(archive, flagHistoryRun)
		}
		return showRuns(archive)
	},
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryRun, "run", "", "show per-test results for this run id")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum number of runs to list")
}

func showRuns(archive *history.Archive) error {
	runs, err := archive.Runs(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}

	for _, run := range runs {
		version := run.AppVersion
		if version == "" {
			version = "unknown"
		}
		fmt.Printf("%s  %s  app %s  %d tests (%d passed, %d failed, %d skipped)\n",
			run.RunID, run.StartedAt.Format(time.RFC3339), version,
			run.Total, run.Passed, run.Failed, run.Skipped)
	}
	return nil
}

func showRunResults(archive *history.Archive, runID string) error {
	results, err := archive.Results(runID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("no results for run %s\n", runID)
		return nil
	}

	for _, r := range results {
		line := fmt.Sprintf("%-30s %-7s %6.2fs  %s", r.TestID, r.Outcome, r.Duration.Seconds(), r.SyncState)
		if r.WorkItemID > 0 {
			line += fmt.Sprintf("  work item %d", r.WorkItemID)
		}
		if r.BugID > 0 {
			line += fmt.Sprintf("  bug %d", r.BugID)
		}
		if r.SyncError != "" {
			line += "  sync error: " + r.SyncError
		}
		fmt.Println(line)
	}
	return nil
}
