package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ccollicutt/sqlparam/pkg/analyzer"
)

const defaultMarkdownWidth = 80

// MarkdownFormatter renders reports as terminal-styled markdown.
type MarkdownFormatter struct {
	opts FormatOptions
}

// NewMarkdownFormatter creates a new markdown formatter with the given options.
func NewMarkdownFormatter(opts FormatOptions) *MarkdownFormatter {
	return &MarkdownFormatter{opts: opts}
}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format renders the report through glamour.
func (f *MarkdownFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	renderer, err := f.renderer()
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}

	out, err := renderer.Render(f.Markdown(report))
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

func (f *MarkdownFormatter) renderer() (*glamour.TermRenderer, error) {
	width := f.opts.Width
	if width <= 0 {
		width = defaultMarkdownWidth
	}

	style := glamour.WithAutoStyle()
	if f.opts.Style != "" && f.opts.Style != "auto" {
		style = glamour.WithStylePath(f.opts.Style)
	}

	return glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
}

// Markdown returns the unrendered markdown document for a report.
func (f *MarkdownFormatter) Markdown(report *Report) string {
	var b strings.Builder

	b.WriteString("# SQL Statements\n\n")
	fmt.Fprintf(&b, "%d statement(s), %d with issues, %d total issues\n\n",
		report.Summary.Statements,
		report.Summary.StatementsWithIssues,
		report.Summary.TotalIssues)

	if f.opts.Quiet {
		return b.String()
	}

	for _, st := range report.Statements {
		f.writeStatement(&b, st)
	}

	if f.opts.Verbose {
		fmt.Fprintf(&b, "---\n\nLines processed: %d, strategy: %s\n",
			report.Summary.LinesProcessed, report.Metadata.Strategy)
	}

	return b.String()
}

func (f *MarkdownFormatter) writeStatement(b *strings.Builder, st *analyzer.Statement) {
	fmt.Fprintf(b, "## %s #%d\n\n", sourceName(st.Source), st.Index+1)

	for _, issue := range st.Issues {
		fmt.Fprintf(b, "- **%s**: %s\n", issue.Type, issue.Description)
	}
	if len(st.Issues) > 0 {
		b.WriteString("\n")
	}

	if st.SQL != "" {
		fmt.Fprintf(b, "```sql\n%s\n```\n\n", st.SQL)
	}

	if f.opts.Verbose {
		if st.Template != "" {
			fmt.Fprintf(b, "Template:\n\n```sql\n%s\n```\n\n", st.Template)
		}
		if st.Values != "" {
			fmt.Fprintf(b, "Values: `%s`\n\n", strings.TrimSpace(st.Values))
		}
	}
}
