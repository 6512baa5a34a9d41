package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/sqlparam/pkg/analyzer"
)

// TextFormatter writes rendered SQL as plain text. Issues and verbose
// details are written as "--" comments so the output stays runnable.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatSummary(report, w)
	}

	for i, st := range report.Statements {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f.formatStatement(st, w)
	}

	if f.opts.Verbose {
		if len(report.Statements) > 0 {
			fmt.Fprintln(w)
		}
		if err := f.formatSummary(report, w); err != nil {
			return err
		}
		fmt.Fprintf(w, "-- lines processed: %d, duration: %s\n",
			report.Summary.LinesProcessed,
			report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatSummary(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "-- %d statement(s), %d with issues, %d total issues\n",
		report.Summary.Statements,
		report.Summary.StatementsWithIssues,
		report.Summary.TotalIssues)
	return err
}

func (f *TextFormatter) formatStatement(st *analyzer.Statement, w io.Writer) {
	if f.opts.Verbose {
		fmt.Fprintf(w, "-- %s #%d (%d placeholder(s), %d value(s))\n",
			sourceName(st.Source), st.Index+1, st.Placeholders, st.ValueCount)
		if st.Template != "" {
			fmt.Fprintf(w, "-- template: %s\n", commentLine(st.Template))
		}
		if st.Values != "" {
			fmt.Fprintf(w, "-- values: %s\n", commentLine(st.Values))
		}
	}

	for _, issue := range st.Issues {
		fmt.Fprintf(w, "-- %s: %s\n", strings.ToUpper(string(issue.Type)), issue.Description)
	}

	if st.SQL != "" {
		fmt.Fprintln(w, st.SQL)
	}
}

func sourceName(source string) string {
	if source == "" {
		return "input"
	}
	return source
}

// commentLine keeps multi-line text inside a single "--" comment.
func commentLine(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", " ")
}
