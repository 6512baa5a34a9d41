package detector

import (
	"github.com/ccollicutt/sqlparam/pkg/config"
	"github.com/ccollicutt/sqlparam/pkg/logparser"
)

// Dialect is a known way applications log prepared statements.
type Dialect struct {
	Name        string                  // Human-readable name
	Description string                  // What the log lines look like
	Extraction  config.ExtractionConfig // Settings that extract this dialect
	Examples    []string                // Example lines
}

// DefaultDialects returns the built-in dialects to detect.
// More specific dialects come first and win ties.
func DefaultDialects() []*Dialect {
	return []*Dialect{
		{
			Name:        "MyBatis labels",
			Description: "statements after \"Preparing:\", parameters after \"Parameters:\"",
			Extraction: config.ExtractionConfig{
				Strategy:   config.StrategyLabel,
				SQLLabel:   logparser.DefaultSQLLabel,
				ValueLabel: logparser.DefaultValueLabel,
			},
			Examples: []string{
				"DEBUG ==>  Preparing: SELECT * FROM users WHERE id = ?",
				"DEBUG ==> Parameters: 42(Long)",
			},
		},
		{
			Name:        "JDBC labels",
			Description: "statements after \"SQL:\", parameters after \"Params:\"",
			Extraction: config.ExtractionConfig{
				Strategy:   config.StrategyLabel,
				SQLLabel:   "SQL:",
				ValueLabel: "Params:",
			},
			Examples: []string{
				"INFO SQL: UPDATE orders SET state = ? WHERE id = ?",
				"INFO Params: shipped(String), 7(Integer)",
			},
		},
		{
			Name:        "Keyword scan",
			Description: "any line with a SQL keyword and '?', values recognized by type tags",
			Extraction: config.ExtractionConfig{
				Strategy:     config.StrategyKeyword,
				SQLKeywords:  append([]string(nil), logparser.DefaultSQLKeywords...),
				ValueMarkers: append([]string(nil), logparser.DefaultValueMarkers...),
			},
			Examples: []string{
				"select name from users where id = ?",
				"params 42(Long), bob(String)",
			},
		},
	}
}
