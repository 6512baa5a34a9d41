// Package cli provides the command-line interface for sqlparam.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sqlparam/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	commands.ExitCode = 0

	rootCmd := NewRootCommand(&commands.GlobalOptions{})
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors prevents Cobra from printing this.
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand(g *commands.GlobalOptions) *cobra.Command {
	opts := &commands.RootOptions{}

	rootCmd := &cobra.Command{
		Use:   "sqlparam",
		Short: "Fill the placeholders of logged SQL with their parameters",
		Long: `sqlparam turns the prepared statements and parameter lists printed by SQL
mappers into runnable SQL.

  sqlparam -s 'SELECT * FROM user WHERE id = ?' -v '7(Long)'
      prints the statement with the value substituted

  kubectl logs my-pod | sqlparam
      renders every statement found in the piped log

  sqlparam
      opens an editor with SQL, Values and Result panes, pre-filled
      from the clipboard

Values tagged String or Timestamp are quoted (see string_types in the
config), everything else is inserted as written.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: g.Setup,
		PersistentPostRun: g.Sync,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunRoot(cmd, g, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Config file (default $SQLPARAM_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&g.Verbose, "verbose", false, "Verbose output and caller information in logs")
	commands.AddRootFlags(rootCmd, opts)

	// Add subcommands
	rootCmd.AddCommand(commands.NewExtractCommand(g))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand(g))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
