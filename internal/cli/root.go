package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focusmetrics",
	Short: "Productivity analytics for focus sessions",
	Long: `focusmetrics is a personal productivity analytics engine for focus sessions.

Record work and break sessions, score focus and efficiency, track
interruptions, and mine your history for the conditions you work best in.`,
}

var verbose bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
