package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/sqlparam/pkg/analyzer"
)

func createTestReport() *Report {
	a := analyzer.NewAnalyzer()

	ok := a.AnalyzePair("SELECT * FROM users WHERE name = ?", "alice(String), ")
	ok.Source = "app.log"

	bad := a.AnalyzePair("UPDATE users SET age = ? WHERE id = ?", "30(Integer), ")
	bad.Source = "app.log"
	bad.Index = 1

	result := &analyzer.AnalysisResult{
		Statements: []*analyzer.Statement{ok, bad},
		Metadata: analyzer.AnalysisMetadata{
			Sources:        []string{"app.log"},
			Strategy:       "keyword",
			LinesProcessed: 12,
			StartTime:      time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			EndTime:        time.Date(2024, 1, 15, 10, 0, 1, 0, time.UTC),
		},
	}
	return NewReport(result, "sqlparam.yaml")
}

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "SELECT * FROM users WHERE name = 'alice'\n" +
		"\n" +
		"-- MISSING_VALUES: 2 placeholder(s) but only 1 value(s)\n" +
		"UPDATE users SET age = 30 WHERE id = \n"
	if got := buf.String(); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(&analyzer.AnalysisResult{}, "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format() = %q, want empty", buf.String())
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"-- app.log #1 (1 placeholder(s), 1 value(s))",
		"-- template: SELECT * FROM users WHERE name = ?",
		"-- values: alice(String), ",
		"-- app.log #2 (2 placeholder(s), 1 value(s))",
		"-- 2 statement(s), 1 with issues, 1 total issues",
		"-- lines processed: 12, duration: 1s",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Format() output missing %q\n%s", want, output)
		}
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "-- 2 statement(s), 1 with issues, 1 total issues\n"
	if got := buf.String(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestCommentLine(t *testing.T) {
	if got := commentLine("SELECT 1\nSELECT 2\n"); got != "SELECT 1 SELECT 2" {
		t.Errorf("commentLine() = %q", got)
	}
}

func TestReport(t *testing.T) {
	report := createTestReport()

	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
	if report.Summary.Statements != 2 {
		t.Errorf("Summary.Statements = %d, want 2", report.Summary.Statements)
	}
	if report.Metadata.Duration != time.Second {
		t.Errorf("Metadata.Duration = %s, want 1s", report.Metadata.Duration)
	}
	if got := report.SQL(); len(got) != 2 {
		t.Errorf("SQL() = %v", got)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "text", false},
		{"text", "text", false},
		{"json", "json", false},
		{"markdown", "markdown", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name, FormatOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.want)
			}
		})
	}
}
