package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tmpllc001/focusmetrics/internal/reports"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage report templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved report templates",
	RunE:  runTemplateList,
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a report template from a YAML file",
	Long: `Save a report template. The file holds a single report config:

  name: weekly-review
  range_preset: last_7_days
  sections:
    - name: Summary
      type: summary
    - name: Trends
      type: trend_analysis`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateSave,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a report template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

var templateRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Build a report from a saved template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateRun,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateRunCmd)
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	names, err := app.Templates.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No templates saved.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runTemplateSave(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	var cfg reports.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse template file: %w", err)
	}

	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Templates.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Saved template %q\n", cfg.Name)
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Templates.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted template %q\n", args[0])
	return nil
}

func runTemplateRun(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	cfg, err := app.Templates.Resolve(args[0], nil)
	if err != nil {
		return err
	}
	report, err := app.Reports.Build(cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
