// Package output provides formatting and output generation for rendered statements.
package output

import (
	"time"

	"github.com/ccollicutt/sqlparam/pkg/analyzer"
)

// Report is the complete extraction output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Statements contains the rendered pairs.
	Statements []*analyzer.Statement `json:"statements"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Statements is the number of rendered pairs.
	Statements int `json:"statements"`

	// StatementsWithIssues is the number of pairs whose counts do not line up.
	StatementsWithIssues int `json:"statements_with_issues"`

	// TotalIssues is the total number of issues detected.
	TotalIssues int `json:"total_issues"`

	// LinesProcessed is the total number of log lines examined.
	LinesProcessed int `json:"lines_processed"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the inputs that were read.
	Sources []string `json:"sources"`

	// Strategy is the extraction strategy used.
	Strategy string `json:"strategy,omitempty"`

	// Joined is true when each source was rendered as one statement.
	Joined bool `json:"joined,omitempty"`

	// AnalyzedAt is when the run finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult, configFile string) *Report {
	return &Report{
		Statements: result.Statements,
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    result.Metadata.Sources,
			Strategy:   result.Metadata.Strategy,
			Joined:     result.Metadata.Joined,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			Statements:           len(result.Statements),
			StatementsWithIssues: result.StatementsWithIssues(),
			TotalIssues:          result.TotalIssues(),
			LinesProcessed:       result.Metadata.LinesProcessed,
		},
	}
}

// HasIssues returns true if any issues were detected.
func (r *Report) HasIssues() bool {
	return r.Summary.TotalIssues > 0
}

// SQL returns the non-empty rendered statements in order.
func (r *Report) SQL() []string {
	out := make([]string, 0, len(r.Statements))
	for _, s := range r.Statements {
		if s.SQL != "" {
			out = append(out, s.SQL)
		}
	}
	return out
}
