package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/sqlparam/internal/clip"
	"github.com/ccollicutt/sqlparam/internal/logging"
	"github.com/ccollicutt/sqlparam/internal/tui"
	"github.com/ccollicutt/sqlparam/pkg/config"
	"github.com/ccollicutt/sqlparam/pkg/logparser"
	"github.com/ccollicutt/sqlparam/pkg/sqlparam"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnnotationSkipConfig marks commands that run with defaults when the
// global configuration cannot be loaded.
const AnnotationSkipConfig = "sqlparam/skip-config"

// Swapped out in tests.
var (
	clipboardRead      = clip.Read
	clipboardWrite     = clip.Write
	clipboardAvailable = clip.Available
	startEditor        = tui.Run
	stdinIsTerminal    = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

// GlobalOptions holds the persistent flags and the state built from them
// before any command runs.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool

	// Set by Setup.
	Config *config.Config
	Logger *zap.Logger
}

// Setup loads the configuration and builds the logger. A logger that is
// already set is kept.
func (g *GlobalOptions) Setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(commandContext(cmd), g.ConfigPath)
	if err != nil {
		if cmd.Annotations[AnnotationSkipConfig] == "" {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.DefaultConfig()
	}
	g.Config = cfg

	if g.Logger == nil {
		logger, err := logging.New(cfg.LogLevel, g.Verbose)
		if err != nil {
			return err
		}
		g.Logger = logger
	}
	return nil
}

// Sync flushes the logger.
func (g *GlobalOptions) Sync(_ *cobra.Command, _ []string) {
	if g.Logger != nil {
		_ = g.Logger.Sync()
	}
}

func (g *GlobalOptions) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *GlobalOptions) config() *config.Config {
	if g.Config == nil {
		g.Config = config.DefaultConfig()
	}
	return g.Config
}

func (g *GlobalOptions) substituter() *sqlparam.Substituter {
	return sqlparam.New(sqlparam.WithStringTypes(g.config().StringTypes...))
}

// extractor builds the configured extractor; a non-empty strategy overrides
// the configured one.
func (g *GlobalOptions) extractor(strategy string) (*logparser.Extractor, error) {
	ex := g.config().Extraction
	if strategy != "" {
		ex.Strategy = config.Strategy(strategy)
	}
	s, err := ex.NewStrategy()
	if err != nil {
		return nil, err
	}
	return logparser.NewExtractor(logparser.WithStrategy(s)), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
