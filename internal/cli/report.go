package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmpllc001/focusmetrics/internal/compare"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a productivity report",
	Long: `Generate a comprehensive productivity report for a date range.

Examples:
  focusmetrics report                  # Last 30 days
  focusmetrics report --days 7         # Last 7 days
  focusmetrics report --json           # Machine-readable output
  focusmetrics report --session <id>   # Drill into one session`,
	RunE: runReport,
}

var (
	reportDays    int
	reportJSON    bool
	reportSession string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportDays, "days", 30, "Number of trailing days to cover")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Emit JSON instead of formatted output")
	reportCmd.Flags().StringVar(&reportSession, "session", "", "Show full detail for one session in the range")
}

func runReport(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	r := compare.LastDays(time.Now(), reportDays)

	if reportSession != "" {
		rec, err := app.Reports.SessionDetail(r, reportSession)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	report, err := app.Reports.Generate(r)
	if err != nil {
		return err
	}

	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(renderTitle(fmt.Sprintf("PRODUCTIVITY REPORT - last %d days", reportDays)))
	fmt.Println(renderSeparator())

	if report.Insufficient != nil {
		fmt.Println(report.Insufficient.Message())
		return nil
	}

	m := report.Summary
	fmt.Println(renderRow("Sessions", fmt.Sprintf("%d", m.Count)))
	fmt.Println(renderRow("Avg focus", renderScore(m.AvgFocusScore)))
	fmt.Println(renderRow("Avg efficiency", renderScore(m.AvgEfficiencyScore)))
	fmt.Println(renderRow("Completion rate", fmt.Sprintf("%.0f%%", m.CompletionRate)))
	fmt.Println(renderRow("Avg duration", formatDuration(m.AvgDuration)))
	fmt.Println(renderRow("Interruptions/session", fmt.Sprintf("%.1f", m.InterruptionsPerSession)))

	if best := report.Productivity.Best; best != nil {
		fmt.Println()
		fmt.Println(renderRow("Best session", fmt.Sprintf("%s (focus %.1f)",
			best.StartTime.Format("Jan 2 15:04"), best.FocusScore)))
	}
	if worst := report.Productivity.Worst; worst != nil {
		fmt.Println(renderRow("Worst session", fmt.Sprintf("%s (focus %.1f)",
			worst.StartTime.Format("Jan 2 15:04"), worst.FocusScore)))
	}

	if len(report.Sessions) > 1 {
		scores := make([]float64, 0, len(report.Sessions))
		for _, d := range report.Sessions {
			scores = append(scores, d.FocusScore)
		}
		fmt.Println()
		fmt.Println(renderRow("Focus trend", renderSparkline(scores)))
	}

	fmt.Println()
	fmt.Println(renderTitle("Recommendations"))
	for _, rec := range report.Recommendations {
		fmt.Printf("  • %s\n", rec)
	}
	return nil
}
