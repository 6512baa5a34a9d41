package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/sqlparam/pkg/config"
	"github.com/ccollicutt/sqlparam/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect how a log file prints SQL statements",
		Long: `Sample a log file and score every known logging dialect on it.

Reports the dialect that finds the most complete statement / parameter pairs
together with a ready-to-use YAML configuration snippet.

Optionally generates a starter config file with --write-config.`,
		Example: `  sqlparam detect app.log
  sqlparam detect --sample 500 --all app.log
  sqlparam detect -w sqlparam.yaml app.log`,
		Args: cobra.ExactArgs(1),
		Annotations: map[string]string{
			AnnotationSkipConfig: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching dialects, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if _, err := os.Stat(logFile); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote starter config to: %s\n\n", opts.WriteConfig)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, logFile, opts)
	case "text", "":
		return outputDetectText(w, result, logFile, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== SQL Log Dialect Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with statements or parameters: %d\n", result.MatchedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No SQL statements or parameters detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: enable debug logging of your SQL mapper, or configure custom")
		fmt.Fprintln(w, "sql_label / value_label settings for the label strategy.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected dialect: %s\n", best.Dialect.Name)
	fmt.Fprintf(w, "  %s\n", best.Dialect.Description)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d template(s), %d value list(s))\n",
		best.Confidence*100, best.Templates, best.ValueLists)
	fmt.Fprintln(w)
	if best.SampleSQL != "" {
		fmt.Fprintf(w, "Sample statement:\n  %s\n", best.SampleSQL)
	}
	if best.SampleVals != "" {
		fmt.Fprintf(w, "Sample values:\n  %s\n", best.SampleVals)
	}
	fmt.Fprintln(w)

	if result.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", result.Note)
		fmt.Fprintln(w)
	}

	snippet, err := extractionSnippet(best.Dialect)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprint(w, snippet)
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative dialects detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence, %d pair(s))\n", i+2, m.Dialect.Name, m.Confidence*100, m.Pairs())
			fmt.Fprintf(w, "   strategy: %s\n", m.Dialect.Extraction.Strategy)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a dialect match in JSON output.
type JSONMatch struct {
	Name       string                  `json:"name"`
	Extraction config.ExtractionConfig `json:"extraction"`
	Confidence float64                 `json:"confidence"`
	Templates  int                     `json:"templates"`
	ValueLists int                     `json:"value_lists"`
	SampleSQL  string                  `json:"sample_sql,omitempty"`
	SampleVals string                  `json:"sample_values,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	MatchedLines int         `json:"matched_lines"`
	Note         string      `json:"note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		MatchedLines: result.MatchedLines,
		Note:         result.Note,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Dialect.Name,
			Extraction: m.Dialect.Extraction,
			Confidence: m.Confidence,
			Templates:  m.Templates,
			ValueLists: m.ValueLists,
			SampleSQL:  m.SampleSQL,
			SampleVals: m.SampleVals,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// extractionSnippet renders the extraction section for a dialect.
func extractionSnippet(d *detector.Dialect) (string, error) {
	data, err := yaml.Marshal(struct {
		Extraction config.ExtractionConfig `yaml:"extraction"`
	}{d.Extraction})
	if err != nil {
		return "", fmt.Errorf("rendering config snippet: %w", err)
	}
	return string(data), nil
}

// writeStarterConfig writes a config file for the detected dialect. An
// existing file is never overwritten.
func writeStarterConfig(result *detector.DetectionResult, configPath string) error {
	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no SQL logging dialect detected")
	}

	content, err := generateStarterConfig(result.BestMatch())
	if err != nil {
		return err
	}

	// #nosec G302 G304 -- config file doesn't need restrictive permissions
	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateStarterConfig creates a YAML config for a detected dialect.
func generateStarterConfig(match *detector.DialectMatch) ([]byte, error) {
	cfg := config.DefaultConfig()
	cfg.Extraction = match.Dialect.Extraction

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	header := fmt.Sprintf(`# sqlparam configuration
# Generated by: sqlparam detect
# Detected dialect: %s (%.0f%% confidence)
#
# history.path enables a sqlite history of rendered statements.
# webhooks:
#   - name: team-channel
#     url: https://hooks.example.com/sql
#     token: ${SQLPARAM_WEBHOOK_TOKEN}
#     trigger: on_issues

`, match.Dialect.Name, match.Confidence*100)

	return append([]byte(header), body...), nil
}
