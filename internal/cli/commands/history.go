package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sqlparam/internal/history"
	"github.com/ccollicutt/sqlparam/pkg/config"
)

// HistoryOptions holds command-line options for the history command.
type HistoryOptions struct {
	Limit  int
	Output string
	Clear  bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(g *GlobalOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously rendered statements",
		Long: `Show the statements recorded by extract, newest first.

History is recorded when history.path is configured or ` + config.EnvHistoryPath + ` is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, g, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of statements to show (0 = all)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all recorded statements")

	return cmd
}

func runHistory(cmd *cobra.Command, g *GlobalOptions, opts *HistoryOptions) error {
	cfg := g.config()
	if !cfg.History.Enabled() {
		return fmt.Errorf("history is disabled (set history.path or %s)", config.EnvHistoryPath)
	}

	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.Clear {
		n, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Deleted %d statement(s)\n", n)
		return nil
	}

	records, err := store.List(ctx, opts.Limit)
	if err != nil {
		return err
	}

	switch opts.Output {
	case "json":
		if records == nil {
			records = []*history.Record{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	case "text", "":
		return outputHistoryText(w, records)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputHistoryText(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No statements recorded.")
		return err
	}

	for i, r := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "-- %s %s", r.CreatedAt.Format("2006-01-02 15:04:05"), sourceLabel(r.Source))
		if r.Issues > 0 {
			fmt.Fprintf(w, " (%d issue(s))", r.Issues)
		}
		fmt.Fprintln(w)

		if r.SQL != "" {
			fmt.Fprintln(w, r.SQL)
		} else {
			fmt.Fprintf(w, "-- unrendered: %s%s\n", r.Template, r.Values)
		}
	}
	return nil
}

func sourceLabel(source string) string {
	if source == "" {
		return "input"
	}
	return source
}
