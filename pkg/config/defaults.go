package config

import (
	"os"
	"time"

	"github.com/ccollicutt/sqlparam/pkg/logparser"
	"github.com/ccollicutt/sqlparam/pkg/sqlparam"
)

// Default values for configuration.
const (
	DefaultStrategy       = StrategyKeyword
	DefaultOutput         = OutputText
	DefaultLogLevel       = "info"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultSQLLabel       = logparser.DefaultSQLLabel
	DefaultValueLabel     = logparser.DefaultValueLabel
)

// Environment variable names.
const (
	EnvConfig      = "SQLPARAM_CONFIG"
	EnvStrategy    = "SQLPARAM_STRATEGY"
	EnvHistoryPath = "SQLPARAM_HISTORY_PATH"
	EnvLogLevel    = "SQLPARAM_LOG_LEVEL"
)

// DefaultConfig returns a configuration with the built-in extraction rules.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Strategy:     DefaultStrategy,
			SQLKeywords:  append([]string(nil), logparser.DefaultSQLKeywords...),
			ValueMarkers: append([]string(nil), logparser.DefaultValueMarkers...),
			SQLLabel:     DefaultSQLLabel,
			ValueLabel:   DefaultValueLabel,
		},
		StringTypes: append([]string(nil), sqlparam.DefaultStringTypes...),
		Output:      DefaultOutput,
		LogLevel:    DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if s := os.Getenv(EnvStrategy); s != "" {
		c.Extraction.Strategy = Strategy(s)
	}
	if p := os.Getenv(EnvHistoryPath); p != "" {
		c.History.Path = p
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		c.LogLevel = l
	}
}
