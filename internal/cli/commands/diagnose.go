package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/sqlparam/internal/history"
	"github.com/ccollicutt/sqlparam/pkg/config"
	"github.com/ccollicutt/sqlparam/pkg/detector"
	"github.com/ccollicutt/sqlparam/pkg/logparser"
)

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [log-file...]",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks:
- Config file syntax and structure
- The extraction strategy
- Log files, and whether the configured strategy suits them
- Clipboard access
- The history database
- Webhook settings (and connectivity with --verbose)

Example:
  sqlparam diagnose
  sqlparam --config sqlparam.yaml diagnose app.log
  sqlparam --verbose diagnose app.log`,
		Annotations: map[string]string{
			AnnotationSkipConfig: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, args, g)
		},
	}

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string, g *GlobalOptions) error {
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	configPath := g.ConfigPath
	if configPath == "" {
		configPath = os.Getenv(config.EnvConfig)
	}

	var results []DiagnosticResult

	cfg, result := checkConfig(ctx, configPath)
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(w, results, g.Verbose)
		return nil
	}

	results = append(results, checkStrategy(cfg))
	results = append(results, checkLogFiles(ctx, cfg, args)...)
	results = append(results, checkClipboard())
	results = append(results, checkHistory(ctx, cfg, g.Verbose)...)
	results = append(results, checkWebhooks(ctx, cfg, rawWebhookTokens(configPath), g.Verbose)...)

	printDiagnostics(w, results, g.Verbose)
	return nil
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config File",
	}

	if path == "" {
		cfg, err := config.Load(ctx, "")
		if err != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf("Built-in defaults rejected: %v", err)
			result.Suggests = []string{"Check the " + config.EnvStrategy + " environment variable"}
			return nil, result
		}
		result.Status = StatusOK
		result.Message = "No config file, using built-in defaults"
		result.Suggests = []string{
			"Use 'sqlparam detect <log-file> --write-config sqlparam.yaml' to generate a starter config",
		}
		return cfg, result
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.Status = StatusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'sqlparam detect <log-file> --write-config " + path + "' to generate a starter config",
		}
		return nil, result
	case err != nil:
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return nil, result
	case info.IsDir():
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
		return nil, result
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "parsing") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Loaded: %s (%d bytes)", path, info.Size())
	result.Details = []string{
		fmt.Sprintf("String types: %s", strings.Join(cfg.StringTypes, ", ")),
		fmt.Sprintf("Output: %s", cfg.Output),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkStrategy(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Extraction Strategy",
	}

	if _, err := cfg.Extraction.NewStrategy(); err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot build strategy: %v", err)
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Strategy: %s", cfg.Extraction.Strategy)
	switch cfg.Extraction.Strategy {
	case config.StrategyKeyword:
		result.Details = []string{
			fmt.Sprintf("Keywords: %s", strings.Join(cfg.Extraction.SQLKeywords, ", ")),
			fmt.Sprintf("Markers: %s", strings.Join(cfg.Extraction.ValueMarkers, ", ")),
		}
	case config.StrategyLabel:
		result.Details = []string{
			fmt.Sprintf("SQL label: %q", cfg.Extraction.SQLLabel),
			fmt.Sprintf("Value label: %q", cfg.Extraction.ValueLabel),
		}
	}
	return result
}

func checkLogFiles(ctx context.Context, cfg *config.Config, patterns []string) []DiagnosticResult {
	if len(patterns) == 0 {
		return nil
	}

	var results []DiagnosticResult

	files, err := logparser.ExpandGlobs(patterns)
	if err != nil {
		return append(results, DiagnosticResult{
			Check:   "Log Files",
			Status:  StatusError,
			Message: fmt.Sprintf("Cannot expand log sources: %v", err),
			Suggests: []string{
				"Check if the log files exist at this path",
				"Verify the glob pattern syntax",
			},
		})
	}

	d := detector.New(detector.WithSampleSize(200))

	for _, file := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Log File: %s", file),
		}

		info, err := os.Stat(file)
		switch {
		case err != nil:
			result.Status = StatusError
			result.Message = fmt.Sprintf("Cannot access file: %v", err)
			results = append(results, result)
			continue
		case info.IsDir():
			result.Status = StatusError
			result.Message = "Path is a directory, not a file"
			result.Suggests = []string{"Use a glob pattern to match files in directory"}
			results = append(results, result)
			continue
		case info.Size() == 0:
			result.Status = StatusWarning
			result.Message = "File is empty (0 bytes)"
			results = append(results, result)
			continue
		}

		detected, err := d.DetectFromFile(ctx, file)
		if err != nil {
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("Cannot sample file: %v", err)
			results = append(results, result)
			continue
		}

		result.Details = []string{
			fmt.Sprintf("Size: %d bytes", info.Size()),
			fmt.Sprintf("Sampled lines: %d", detected.SampledLines),
		}

		best := detected.BestMatch()
		switch {
		case best == nil:
			result.Status = StatusWarning
			result.Message = "No SQL statements or parameters found in the sample"
			result.Suggests = []string{
				"Enable debug logging of your SQL mapper",
				"Use 'sqlparam detect " + file + "' with a larger --sample",
			}
		case best.Dialect.Extraction.Strategy != cfg.Extraction.Strategy:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("Best dialect %q uses the %s strategy, configured strategy is %s",
				best.Dialect.Name, best.Dialect.Extraction.Strategy, cfg.Extraction.Strategy)
			result.Suggests = []string{
				"Use 'sqlparam detect " + file + "' to get a matching configuration",
			}
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("Matches %s (%d template(s), %d value list(s))",
				best.Dialect.Name, best.Templates, best.ValueLists)
			if best.SampleSQL != "" {
				result.Details = append(result.Details, "Sample statement: "+truncate(best.SampleSQL, 80))
			}
		}
		if detected.Note != "" {
			result.Details = append(result.Details, detected.Note)
		}

		results = append(results, result)
	}

	return results
}

func checkClipboard() DiagnosticResult {
	if clipboardAvailable() {
		return DiagnosticResult{
			Check:   "Clipboard",
			Status:  StatusOK,
			Message: "Clipboard is available",
		}
	}
	return DiagnosticResult{
		Check:   "Clipboard",
		Status:  StatusWarning,
		Message: "No clipboard utility found",
		Suggests: []string{
			"Install xclip, xsel or wl-clipboard for --clipboard, --copy and the editor",
			"Pipe logs to 'sqlparam extract' instead",
		},
	}
}

func checkHistory(ctx context.Context, cfg *config.Config, verbose bool) []DiagnosticResult {
	if !cfg.History.Enabled() {
		if verbose {
			return []DiagnosticResult{{
				Check:   "History",
				Status:  StatusOK,
				Message: "History disabled (optional)",
			}}
		}
		return nil
	}

	result := DiagnosticResult{
		Check: "History",
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot open history database: %v", err)
		result.Suggests = []string{"Check that the directory of history.path is writable"}
		return []DiagnosticResult{result}
	}
	defer store.Close()

	records, err := store.List(ctx, 0)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot read history database: %v", err)
		return []DiagnosticResult{result}
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%s (%d statement(s))", store.Path(), len(records))
	return []DiagnosticResult{result}
}

// rawWebhookTokens returns the webhook tokens as written in the config file,
// before environment expansion.
func rawWebhookTokens(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil
	}
	var raw struct {
		Webhooks []struct {
			Token string `yaml:"token"`
		} `yaml:"webhooks"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	tokens := make([]string, len(raw.Webhooks))
	for i, wh := range raw.Webhooks {
		tokens[i] = wh.Token
	}
	return tokens
}

func checkWebhooks(ctx context.Context, cfg *config.Config, rawTokens []string, verbose bool) []DiagnosticResult {
	var results []DiagnosticResult

	if len(cfg.Webhooks) == 0 {
		if verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  StatusOK,
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		var warnings []string
		if i < len(rawTokens) && strings.HasPrefix(rawTokens[i], "$") && wh.Token == "" {
			warnings = append(warnings, fmt.Sprintf("Token env var is not set: %s", rawTokens[i]))
		}
		if wh.Trigger == config.WebhookTriggerNever {
			warnings = append(warnings, "Trigger is never, this webhook is disabled")
		}

		if len(warnings) > 0 {
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			result.Status = StatusOK
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)
	}

	if verbose {
		for _, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(ctx, wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	// Any response means the server is reachable.
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (reports will still be sent)",
			"Check authentication if using a token",
		}
	}

	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, verbose bool) {
	fmt.Fprintln(w, "=== sqlparam Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before extracting.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
