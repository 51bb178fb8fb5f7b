package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmpllc001/focusmetrics/internal/session"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	Long: `Show summary statistics for recorded focus sessions.

Examples:
  focusmetrics stats          # Today and this week at a glance`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	printStats(app.Recorder.Summary())
	return nil
}

func printStats(summary session.StatsSummary) {
	fmt.Println(renderTitle("FOCUS STATS"))
	fmt.Println(renderSeparator())

	printPeriod("Today", summary.Today)
	fmt.Println()
	printPeriod("This week", summary.Week)
	fmt.Println()

	fmt.Println(renderRow("Total sessions", fmt.Sprintf("%d", summary.TotalSessions)))
	fmt.Println(renderRow("Total work time", formatDuration(summary.TotalWorkTime)))
}

func printPeriod(label string, p session.PeriodStats) {
	fmt.Println(renderTitle(label))
	fmt.Println(renderRow("Work sessions", fmt.Sprintf("%d (%d completed)", p.WorkSessions, p.CompletedSessions)))
	fmt.Println(renderRow("Breaks", fmt.Sprintf("%d", p.BreakSessions)))
	fmt.Println(renderRow("Work time", formatDuration(p.WorkTime)))
	if p.WorkSessions > 0 {
		fmt.Println(renderRow("Avg focus", renderScore(p.AvgFocusScore)))
	}
}
