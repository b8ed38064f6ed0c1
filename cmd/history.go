package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"markestedt/whisperbatch/config"
	"markestedt/whisperbatch/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent batch runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	db, err := storage.Open(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer db.Close()

	runs, err := db.GetRuns(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("#%d  %s  model=%s  processors=%d  %d files (%d ok, %d failed)\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Model, run.Processors, run.TotalFiles, run.Succeeded, run.Failed)
		for _, f := range run.Files {
			line := fmt.Sprintf("    %-9s %s  segments=%d  %dms", f.Status, f.Path, f.SegmentCount, f.ElapsedMs)
			if f.ErrorMessage != "" {
				line += "  error=" + f.ErrorMessage
			}
			fmt.Println(line)
		}
	}
	return nil
}
