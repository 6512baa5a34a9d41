package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/sqlparam/pkg/logparser"
)

// ErrUnknownStrategy is returned for an extraction strategy other than keyword or label.
var ErrUnknownStrategy = errors.New("unknown extraction strategy")

// Load reads and validates a configuration file.
// An empty path falls back to $SQLPARAM_CONFIG, then to the defaults.
func Load(_ context.Context, path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills defaulted fields.
func Validate(cfg *Config) error {
	if err := validateExtraction(&cfg.Extraction); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}

	if len(cfg.StringTypes) == 0 {
		return errors.New("string_types: at least one type tag is required")
	}
	for i, tag := range cfg.StringTypes {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("string_types[%d]: empty type tag", i)
		}
	}

	switch cfg.Output {
	case "":
		cfg.Output = DefaultOutput
	case OutputText, OutputJSON, OutputMarkdown:
	default:
		return fmt.Errorf("output: invalid format %q (must be text, json, or markdown)", cfg.Output)
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateExtraction(ex *ExtractionConfig) error {
	if ex.Strategy == "" {
		ex.Strategy = DefaultStrategy
	}

	switch ex.Strategy {
	case StrategyKeyword:
		if len(ex.SQLKeywords) == 0 {
			return errors.New("sql_keywords: at least one keyword is required for the keyword strategy")
		}
		if len(ex.ValueMarkers) == 0 {
			return errors.New("value_markers: at least one marker is required for the keyword strategy")
		}
		for i, kw := range ex.SQLKeywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("sql_keywords[%d]: empty keyword", i)
			}
		}
		for i, m := range ex.ValueMarkers {
			if m == "" {
				return fmt.Errorf("value_markers[%d]: empty marker", i)
			}
		}
	case StrategyLabel:
		if ex.SQLLabel == "" {
			ex.SQLLabel = DefaultSQLLabel
		}
		if ex.ValueLabel == "" {
			ex.ValueLabel = DefaultValueLabel
		}
		if ex.SQLLabel == ex.ValueLabel {
			return fmt.Errorf("sql_label and value_label must differ (both %q)", ex.SQLLabel)
		}
	default:
		return fmt.Errorf("%w %q (must be keyword or label)", ErrUnknownStrategy, ex.Strategy)
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a token given as ${VAR} or $VAR.
func expandEnvVar(s string) string {
	switch {
	case strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}"):
		return os.Getenv(s[2 : len(s)-1])
	case strings.HasPrefix(s, "$") && len(s) > 1:
		return os.Getenv(s[1:])
	default:
		return s
	}
}

// NewStrategy builds the log extraction strategy described by the settings.
func (ex ExtractionConfig) NewStrategy() (logparser.Strategy, error) {
	return logparser.NewStrategy(string(ex.Strategy), ex.SQLKeywords, ex.ValueMarkers, ex.SQLLabel, ex.ValueLabel)
}
