package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old sessions",
	Long: `Delete sessions older than the retention window.

Examples:
  focusmetrics cleanup --retain-days 90   # Keep the last 90 days
  focusmetrics cleanup --retain-days 30 --dry-run`,
	RunE: runCleanup,
}

var (
	cleanupRetainDays int
	cleanupDryRun     bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVar(&cleanupRetainDays, "retain-days", 90, "Days of history to keep")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Preview what would be deleted")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if cleanupRetainDays < 1 {
		return fmt.Errorf("--retain-days must be at least 1")
	}

	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	retain := time.Duration(cleanupRetainDays) * 24 * time.Hour

	if cleanupDryRun {
		cutoff := time.Now().Add(-retain)
		var would int
		for _, rec := range app.Recorder.History() {
			if rec.StartTime.Before(cutoff) {
				would++
			}
		}
		fmt.Printf("Would delete %d sessions older than %s\n", would, cutoff.Format("2006-01-02"))
		return nil
	}

	removed, err := app.Recorder.Cleanup(context.Background(), retain)
	if err != nil {
		return fmt.Errorf("failed to clean up sessions: %w", err)
	}
	fmt.Printf("Deleted %d sessions\n", removed)
	return nil
}
