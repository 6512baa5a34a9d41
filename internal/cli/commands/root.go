package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/sqlparam/internal/tui"
	"github.com/ccollicutt/sqlparam/pkg/logparser"
)

// ErrIncompleteInput is returned when only one of --sql and --value is given.
var ErrIncompleteInput = errors.New("both --sql and --value must be provided together")

// RootOptions holds the flags of the bare sqlparam command.
type RootOptions struct {
	SQL    string
	Values string
}

// AddRootFlags registers --sql and --value.
func AddRootFlags(cmd *cobra.Command, opts *RootOptions) {
	cmd.Flags().StringVarP(&opts.SQL, "sql", "s", "",
		"SQL with placeholders, e.g. 'UPDATE user SET name = ? WHERE id = ?;'")
	cmd.Flags().StringVarP(&opts.Values, "value", "v", "",
		"Comma separated values, e.g. 'zhangsan(String), 7(Long)'")
}

// RunRoot substitutes --sql with --value. Without either flag it extracts
// from piped stdin, or starts the interactive editor on a terminal.
func RunRoot(cmd *cobra.Command, g *GlobalOptions, opts *RootOptions) error {
	sqlSet := cmd.Flags().Changed("sql")
	valuesSet := cmd.Flags().Changed("value")

	switch {
	case sqlSet && valuesSet:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), g.substituter().Substitute(opts.SQL, opts.Values))
		return err
	case sqlSet || valuesSet:
		return fmt.Errorf("%w (use --help for more information)", ErrIncompleteInput)
	}

	if !stdinIsTerminal() {
		g.logger().Debug("stdin is not a terminal, extracting from it")
		return runExtract(cmd, []string{logparser.StdinPath}, g, &ExtractOptions{})
	}

	return runEditor(cmd, g)
}

func runEditor(cmd *cobra.Command, g *GlobalOptions) error {
	ext, err := g.extractor("")
	if err != nil {
		return err
	}

	opts := tui.Options{
		Substituter: g.substituter(),
		Extractor:   ext,
	}
	if clipboardAvailable() {
		opts.Clipboard = tui.SystemClipboard{}
	}

	result, err := startEditor(commandContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	g.logger().Debug("editor closed", zap.Int("result_bytes", len(result)))
	return nil
}
