package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history as JSON",
	Long: `Export the full session history with summary statistics.

Examples:
  focusmetrics export                  # Write to stdout
  focusmetrics export -o sessions.json # Write to a file`,
	RunE: runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	doc := app.Recorder.Export()

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if exportOutput != "" {
		fmt.Printf("Exported %d sessions to %s\n", len(doc.Sessions), exportOutput)
	}
	return nil
}
