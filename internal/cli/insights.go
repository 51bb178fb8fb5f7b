package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show environmental insights",
	Long: `Show what your session history says about when you work best.

Examples:
  focusmetrics insights                     # Last 30 days
  focusmetrics insights --lookback-days 90  # Longer window`,
	RunE: runInsights,
}

var insightsLookbackDays int

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().IntVar(&insightsLookbackDays, "lookback-days", 30, "Days of history to analyze")
}

func runInsights(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	insights := app.Environment.GetInsights(insightsLookbackDays)

	fmt.Println(renderTitle(fmt.Sprintf("ENVIRONMENT INSIGHTS - last %d days", insights.LookbackDays)))
	fmt.Println(renderSeparator())

	if insights.Insufficient != nil {
		fmt.Println(insights.Insufficient.Message())
		return nil
	}

	fmt.Println(renderRow("Sessions analyzed", fmt.Sprintf("%d", insights.Sessions)))
	if insights.BestTimePeriod != "" {
		fmt.Println(renderRow("Best time of day", fmt.Sprintf("%s (avg %.1f)",
			insights.BestTimePeriod, insights.BestPeriodMean)))
	}
	fmt.Println(renderRow("Weekday avg", renderScore(insights.WeekdayMean)))
	fmt.Println(renderRow("Weekend avg", renderScore(insights.WeekendMean)))

	window := app.Environment.DetectOptimalWindow()
	if window.Insufficient == nil {
		fmt.Println()
		label := fmt.Sprintf("%s (avg %.1f over %d sessions)", window.Weekday, window.Mean, window.Samples)
		if window.Kind == "hour" {
			label = fmt.Sprintf("%02d:00 (avg %.1f over %d sessions)", window.Hour, window.Mean, window.Samples)
		}
		fmt.Println(renderRow("Optimal window", label))
	}

	if insights.Recommendation != "" {
		fmt.Println()
		fmt.Printf("  • %s\n", insights.Recommendation)
	}

	mining := app.Patterns.Mine()
	if mining.Insufficient == nil && len(mining.Patterns) > 0 {
		fmt.Println()
		fmt.Println(renderTitle("Patterns"))
		for _, alert := range mining.Patterns {
			fmt.Printf("  • %s\n", alert.Message)
			if alert.Recommendation != "" {
				fmt.Printf("    %s\n", labelStyle.Render(alert.Recommendation))
			}
		}
	}
	return nil
}
