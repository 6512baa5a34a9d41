package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sqlparam/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a sqlparam configuration file without extracting anything.

Checks:
  - YAML syntax
  - Extraction strategy and its keyword, marker or label settings
  - String type tags
  - Output format
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		Annotations: map[string]string{
			AnnotationSkipConfig: "true",
		},
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Strategy:     %s\n", cfg.Extraction.Strategy)
	switch cfg.Extraction.Strategy {
	case config.StrategyKeyword:
		fmt.Fprintf(w, "  Keywords:     %s\n", strings.Join(cfg.Extraction.SQLKeywords, ", "))
		fmt.Fprintf(w, "  Markers:      %s\n", strings.Join(cfg.Extraction.ValueMarkers, ", "))
	case config.StrategyLabel:
		fmt.Fprintf(w, "  SQL label:    %q\n", cfg.Extraction.SQLLabel)
		fmt.Fprintf(w, "  Value label:  %q\n", cfg.Extraction.ValueLabel)
	}
	fmt.Fprintf(w, "  String types: %s\n", strings.Join(cfg.StringTypes, ", "))
	fmt.Fprintf(w, "  Output:       %s\n", cfg.Output)
	fmt.Fprintf(w, "  Join:         %t\n", cfg.Join)

	if cfg.History.Enabled() {
		fmt.Fprintf(w, "  History:      %s\n", cfg.History.Path)
	} else {
		fmt.Fprintf(w, "  History:      disabled\n")
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, name, wh.Trigger)
		}
	}

	return nil
}
