// Package config provides configuration loading and validation for sqlparam.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Extraction  ExtractionConfig `yaml:"extraction"`
	StringTypes []string         `yaml:"string_types"`
	Output      string           `yaml:"output"`
	Join        bool             `yaml:"join"`
	History     HistoryConfig    `yaml:"history"`
	LogLevel    string           `yaml:"log_level,omitempty"`
	Webhooks    []WebhookConfig  `yaml:"webhooks,omitempty"`
}

// Strategy names a log extraction strategy.
type Strategy string

const (
	// StrategyKeyword scans lines for leading SQL keywords and value type markers.
	StrategyKeyword Strategy = "keyword"
	// StrategyLabel anchors on the labels printed before statements and parameters.
	StrategyLabel Strategy = "label"
)

// ExtractionConfig controls how statements and value lists are found in logs.
type ExtractionConfig struct {
	Strategy Strategy `yaml:"strategy" json:"strategy"`

	// Keyword scan settings.
	SQLKeywords  []string `yaml:"sql_keywords,omitempty" json:"sql_keywords,omitempty"`
	ValueMarkers []string `yaml:"value_markers,omitempty" json:"value_markers,omitempty"`

	// Label anchor settings.
	SQLLabel   string `yaml:"sql_label,omitempty" json:"sql_label,omitempty"`
	ValueLabel string `yaml:"value_label,omitempty" json:"value_label,omitempty"`
}

// HistoryConfig controls the rendered statement history.
type HistoryConfig struct {
	// Path is the sqlite database file. Empty disables history.
	Path string `yaml:"path"`
}

// Enabled reports whether history is recorded.
func (h HistoryConfig) Enabled() bool {
	return h.Path != ""
}

// Output formats.
const (
	OutputText     = "text"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when pairing issues are found (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every extraction.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives extraction reports.
type WebhookConfig struct {
	Name    string         `yaml:"name,omitempty"`
	URL     string         `yaml:"url"`
	Token   string         `yaml:"token,omitempty"` // bearer token, $VAR and ${VAR} are expanded
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`
	Timeout time.Duration  `yaml:"timeout,omitempty"`
}
