package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmpllc001/focusmetrics/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare performance across periods and groups",
	Long: `Compare session performance across time windows.

Examples:
  focusmetrics compare --granularity week       # This week vs last week
  focusmetrics compare --granularity day --n 7  # Today vs the last 7 days
  focusmetrics compare --weekend                # Weekdays vs weekends
  focusmetrics compare --time-periods           # Morning through night
  focusmetrics compare --progress               # Smoothed trend over the range`,
	RunE: runCompare,
}

var (
	compareGranularity string
	compareN           int
	compareDays        int
	compareWeekend     bool
	compareTimePeriods bool
	compareProgress    bool
	compareWindow      int
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareGranularity, "granularity", "g", "week", "Window size: day, week, month")
	compareCmd.Flags().IntVar(&compareN, "n", 1, "Number of prior windows to compare against")
	compareCmd.Flags().IntVar(&compareDays, "days", 30, "Trailing days for group comparisons")
	compareCmd.Flags().BoolVar(&compareWeekend, "weekend", false, "Compare weekdays against weekends")
	compareCmd.Flags().BoolVar(&compareTimePeriods, "time-periods", false, "Compare morning/afternoon/evening/night")
	compareCmd.Flags().BoolVar(&compareProgress, "progress", false, "Analyze progress trends over the range")
	compareCmd.Flags().IntVar(&compareWindow, "window", 7, "Moving-average window in days for --progress")
}

func runCompare(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	r := compare.LastDays(time.Now(), compareDays)

	switch {
	case compareWeekend:
		return printWeekendComparison(app, r)
	case compareTimePeriods:
		return printTimePeriodComparison(app, r)
	case compareProgress:
		return printProgressTrends(app, r)
	default:
		return printPeriodComparison(app)
	}
}

func printPeriodComparison(app *AppContext) error {
	result, err := app.Compare.ComparePeriods(
		compare.Granularity(compareGranularity), time.Now(), compareN)
	if err != nil {
		return err
	}

	fmt.Println(renderTitle(fmt.Sprintf("PERIOD COMPARISON - by %s", result.Granularity)))
	fmt.Println(renderSeparator())

	if result.Insufficient != nil {
		fmt.Println(result.Insufficient.Message())
		return nil
	}

	m := result.Anchor.Metrics
	fmt.Println(renderRow("Current window", fmt.Sprintf("%d sessions", m.Count)))
	fmt.Println(renderRow("Avg focus", renderScore(m.AvgFocusScore)))
	fmt.Println(renderRow("Avg efficiency", renderScore(m.AvgEfficiencyScore)))
	fmt.Println(renderRow("Completion rate", fmt.Sprintf("%.0f%%", m.CompletionRate)))

	for i, prev := range result.Previous {
		if prev.Metrics.Count == 0 {
			continue
		}
		fmt.Println()
		fmt.Println(renderTitle(fmt.Sprintf("vs %d window(s) back", i+1)))
		for _, key := range []string{compare.MetricFocus, compare.MetricEfficiency, compare.MetricCompletion} {
			if v, ok := prev.Changes[key]; ok {
				fmt.Println(renderRow(key, formatPercent(v)))
			}
		}
	}

	fmt.Println()
	fmt.Println(renderRow("Verdict", result.Verdict))
	for _, insight := range result.Insights {
		fmt.Printf("  • %s\n", insight)
	}
	return nil
}

func printWeekendComparison(app *AppContext, r compare.DateRange) error {
	result, err := app.Compare.CompareWeekdaysVsWeekends(r)
	if err != nil {
		return err
	}

	fmt.Println(renderTitle("WEEKDAY VS WEEKEND"))
	fmt.Println(renderSeparator())

	if result.Insufficient != nil {
		fmt.Println(result.Insufficient.Message())
		return nil
	}

	fmt.Println(renderRow("Weekday sessions", fmt.Sprintf("%d (focus %.1f, efficiency %.1f)",
		result.Weekday.Metrics.Count, result.Weekday.Metrics.AvgFocusScore, result.Weekday.Metrics.AvgEfficiencyScore)))
	fmt.Println(renderRow("Weekend sessions", fmt.Sprintf("%d (focus %.1f, efficiency %.1f)",
		result.Weekend.Metrics.Count, result.Weekend.Metrics.AvgFocusScore, result.Weekend.Metrics.AvgEfficiencyScore)))
	fmt.Println(renderRow("Stronger group", result.Better))
	if result.EffectSize.Sufficient {
		fmt.Println(renderRow("Effect size", fmt.Sprintf("%.2f (%s)", result.EffectSize.Value, result.EffectSize.Band)))
	}
	if result.Recommendation != "" {
		fmt.Println()
		fmt.Printf("  • %s\n", result.Recommendation)
	}
	return nil
}

func printTimePeriodComparison(app *AppContext, r compare.DateRange) error {
	result, err := app.Compare.CompareTimePeriods(r)
	if err != nil {
		return err
	}

	fmt.Println(renderTitle("TIME OF DAY"))
	fmt.Println(renderSeparator())

	if result.Insufficient != nil {
		fmt.Println(result.Insufficient.Message())
		return nil
	}

	for _, p := range result.Periods {
		fmt.Println(renderRow(string(p.Period), fmt.Sprintf("composite %.1f over %d sessions (%s confidence)",
			p.Composite, p.Metrics.Count, p.Confidence)))
	}
	fmt.Println()
	fmt.Printf("  • %s\n", result.Insight)
	return nil
}

func printProgressTrends(app *AppContext, r compare.DateRange) error {
	result, err := app.Compare.AnalyzeProgressTrends(r, compareWindow)
	if err != nil {
		return err
	}

	fmt.Println(renderTitle("PROGRESS TRENDS"))
	fmt.Println(renderSeparator())

	if result.Insufficient != nil {
		fmt.Println(result.Insufficient.Message())
		return nil
	}

	for _, t := range result.Trends {
		fmt.Println(renderRow(t.Metric, fmt.Sprintf("%s (%s, %+.2f/day)",
			renderSparkline(t.MovingAverage), t.Direction, t.Slope)))
	}
	fmt.Println()
	fmt.Println(renderRow("Overall", string(result.Overall)))
	for _, m := range result.Milestones {
		fmt.Println(renderRow("Best "+m.Metric, fmt.Sprintf("%s (%.1f)", m.Date, m.Value)))
	}
	return nil
}
