package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/sqlparam/internal/history"
	"github.com/ccollicutt/sqlparam/pkg/analyzer"
	"github.com/ccollicutt/sqlparam/pkg/config"
	"github.com/ccollicutt/sqlparam/pkg/logparser"
	"github.com/ccollicutt/sqlparam/pkg/output"
	"github.com/ccollicutt/sqlparam/pkg/webhook"
)

// SourceClipboard names batches read from the clipboard.
const SourceClipboard = "clipboard"

// ExtractOptions holds command-line options for the extract command.
type ExtractOptions struct {
	Output      string
	Style       string
	Strategy    string
	Concurrency int
	Join        bool
	Strict      bool
	Quiet       bool
	Copy        bool
	Clipboard   bool
	NoHistory   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(g *GlobalOptions) *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [log-file|glob|-]...",
		Short: "Render the SQL statements logged in files, stdin or the clipboard",
		Long: `Extract prepared statements and their parameters from application logs and
print them with the placeholders replaced.

The Nth statement is paired with the Nth parameter list of the same source.
Pairs whose placeholder and value counts differ are reported as issues.

Reads standard input when no file is given.

Exit codes:
  0 - Statements rendered
  1 - Pairing issues found (with --strict)
  2 - Configuration or runtime error`,
		Example: `  sqlparam extract app.log
  kubectl logs my-pod | sqlparam extract
  sqlparam extract --clipboard --copy
  sqlparam extract --strategy label --output json 'logs/*.log'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|markdown), defaults to the configured output")
	cmd.Flags().StringVar(&opts.Style, "style", "auto", "Markdown style (auto|dark|light|notty)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "Extraction strategy (keyword|label), defaults to the configured strategy")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Files read in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.Join, "join", false, "Render each source as one statement")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 when pairing issues are found")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "Copy the rendered SQL to the clipboard")
	cmd.Flags().BoolVar(&opts.Clipboard, "clipboard", false, "Read log text from the clipboard instead of files")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record rendered statements")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, g *GlobalOptions, opts *ExtractOptions) error {
	ctx := commandContext(cmd)
	cfg := g.config()
	log := g.logger()

	ext, err := g.extractor(opts.Strategy)
	if err != nil {
		return err
	}

	batches, err := collectBatches(cmd, ext, args, opts)
	if err != nil {
		return err
	}

	a := analyzer.NewAnalyzer(
		analyzer.WithSubstituter(g.substituter()),
		analyzer.WithJoin(opts.Join || cfg.Join),
		analyzer.WithStrategyName(ext.Strategy().Name()),
	)
	result, err := a.Analyze(ctx, batches)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	log.Debug("extraction finished",
		zap.String("strategy", result.Metadata.Strategy),
		zap.Int("sources", len(result.Metadata.Sources)),
		zap.Int("lines", result.Metadata.LinesProcessed),
		zap.Int("templates", result.Metadata.Templates),
		zap.Int("value_lists", result.Metadata.ValueLists))

	report := output.NewReport(result, g.ConfigPath)

	format := opts.Output
	if format == "" {
		format = cfg.Output
	}
	formatter, err := output.NewFormatter(format, output.FormatOptions{
		Verbose: g.Verbose,
		Quiet:   opts.Quiet,
		Style:   opts.Style,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if len(report.Statements) == 0 {
		log.Warn("no SQL statements or parameters found", zap.Strings("sources", result.Metadata.Sources))
	}

	if opts.Copy {
		if err := clipboardWrite(strings.Join(report.SQL(), "\n")); err != nil {
			log.Warn("copy to clipboard failed", zap.Error(err))
		}
	}

	if cfg.History.Enabled() && !opts.NoHistory {
		if err := saveHistory(ctx, cfg.History.Path, report); err != nil {
			log.Warn("recording history failed", zap.String("path", cfg.History.Path), zap.Error(err))
		}
	}

	// Errors are logged but don't fail the extraction.
	sendWebhooks(ctx, log, cfg, opts, report)

	if opts.Strict && report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// collectBatches reads the clipboard, stdin or files.
func collectBatches(cmd *cobra.Command, ext *logparser.Extractor, args []string, opts *ExtractOptions) ([]*logparser.FileBatch, error) {
	ctx := commandContext(cmd)

	if opts.Clipboard {
		if len(args) > 0 {
			return nil, fmt.Errorf("--clipboard does not take file arguments")
		}
		text, err := clipboardRead()
		if err != nil {
			return nil, err
		}
		batch, lines, err := ext.ExtractSource(ctx, logparser.NewReaderSource(SourceClipboard, strings.NewReader(text)))
		if err != nil {
			return nil, err
		}
		return []*logparser.FileBatch{{Source: SourceClipboard, Lines: lines, Batch: batch}}, nil
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == logparser.StdinPath) {
		batch, lines, err := ext.ExtractSource(ctx, logparser.NewReaderSource(logparser.StdinPath, cmd.InOrStdin()))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []*logparser.FileBatch{{Source: logparser.StdinPath, Lines: lines, Batch: batch}}, nil
	}

	files, err := logparser.ExpandGlobs(args)
	if err != nil {
		return nil, fmt.Errorf("expanding log sources: %w", err)
	}

	return ext.ExtractFiles(ctx, files, opts.Concurrency)
}

func saveHistory(ctx context.Context, path string, report *output.Report) error {
	if len(report.Statements) == 0 {
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	records := make([]*history.Record, 0, len(report.Statements))
	for _, st := range report.Statements {
		records = append(records, &history.Record{
			Source:   st.Source,
			Template: st.Template,
			Values:   st.Values,
			SQL:      st.SQL,
			Issues:   len(st.Issues),
		})
	}
	return store.Save(ctx, records...)
}

// sendWebhooks sends the report to all configured webhooks.
func sendWebhooks(ctx context.Context, log *zap.Logger, cfg *config.Config, opts *ExtractOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	for _, resp := range webhook.NewClient().SendAll(ctx, report, webhooks) {
		if resp.Success() {
			log.Info("webhook sent",
				zap.String("webhook", resp.Name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", resp.Duration))
		} else {
			log.Warn("webhook failed", zap.String("webhook", resp.Name), zap.Error(resp.Error))
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ExtractOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
