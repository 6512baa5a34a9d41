// Package analyzer pairs extracted templates with value lists, renders them
// and reports pairs whose counts do not line up.
package analyzer

import (
	"time"
)

// IssueType categorizes detected issues.
type IssueType string

const (
	// IssueTypeMissingValues indicates more placeholders than values; the
	// surplus placeholders render as nothing.
	IssueTypeMissingValues IssueType = "missing_values"

	// IssueTypeExtraValues indicates more values than placeholders; the
	// surplus values are ignored.
	IssueTypeExtraValues IssueType = "extra_values"

	// IssueTypeUnpairedTemplate indicates a template with no value list at its position.
	IssueTypeUnpairedTemplate IssueType = "unpaired_template"

	// IssueTypeUnpairedValues indicates a value list with no template at its position.
	IssueTypeUnpairedValues IssueType = "unpaired_values"
)

// Issue represents a single detected problem.
type Issue struct {
	// Type categorizes the issue.
	Type IssueType `json:"type"`

	// Description is a human-readable summary of the issue.
	Description string `json:"description"`
}

// Statement is one rendered template / value list pair.
type Statement struct {
	// Index is the 0-based position of the pair within its source.
	Index int `json:"index"`

	// Source is the file, "-" or "clipboard" the pair was extracted from.
	Source string `json:"source,omitempty"`

	// Template is the SQL with placeholders.
	Template string `json:"template"`

	// Values is the raw value list.
	Values string `json:"values"`

	// SQL is the rendered statement. Empty when either half is missing.
	SQL string `json:"sql"`

	// Placeholders is the number of '?' markers in Template.
	Placeholders int `json:"placeholders"`

	// ValueCount is the number of values in Values.
	ValueCount int `json:"value_count"`

	// Issues contains pairing problems.
	Issues []Issue `json:"issues,omitempty"`
}

// HasIssues returns true if any issues were detected.
func (s *Statement) HasIssues() bool {
	return len(s.Issues) > 0
}

// AnalysisResult contains the complete analysis output.
type AnalysisResult struct {
	// Statements in source order, then pair order.
	Statements []*Statement

	// Metadata provides context about the analysis.
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Sources lists the inputs that were analyzed.
	Sources []string

	// Strategy is the extraction strategy name, if extraction ran.
	Strategy string

	// Joined is true when each source was rendered as one statement.
	Joined bool

	// LinesProcessed is the total number of log lines examined.
	LinesProcessed int

	// Templates is the number of SQL templates extracted.
	Templates int

	// ValueLists is the number of value lists extracted.
	ValueLists int

	// StartTime is when analysis began.
	StartTime time.Time

	// EndTime is when analysis completed.
	EndTime time.Time
}

// TotalIssues returns the total number of issues across all statements.
func (r *AnalysisResult) TotalIssues() int {
	total := 0
	for _, s := range r.Statements {
		total += len(s.Issues)
	}
	return total
}

// StatementsWithIssues returns the count of statements that have issues.
func (r *AnalysisResult) StatementsWithIssues() int {
	count := 0
	for _, s := range r.Statements {
		if s.HasIssues() {
			count++
		}
	}
	return count
}

// SQL returns the non-empty rendered statements in order.
func (r *AnalysisResult) SQL() []string {
	out := make([]string, 0, len(r.Statements))
	for _, s := range r.Statements {
		if s.SQL != "" {
			out = append(out, s.SQL)
		}
	}
	return out
}
