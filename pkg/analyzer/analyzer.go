package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/ccollicutt/sqlparam/pkg/logparser"
	"github.com/ccollicutt/sqlparam/pkg/sqlparam"
)

// Analyzer renders extracted batches.
type Analyzer struct {
	substituter *sqlparam.Substituter
	strategy    string
	join        bool
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithSubstituter sets the substituter used to render pairs.
func WithSubstituter(s *sqlparam.Substituter) AnalyzerOption {
	return func(a *Analyzer) {
		if s != nil {
			a.substituter = s
		}
	}
}

// WithJoin renders each source as a single statement built from all of its
// templates and value lists, instead of pairing them by position.
func WithJoin(join bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.join = join
	}
}

// WithStrategyName records the extraction strategy in the result metadata.
func WithStrategyName(name string) AnalyzerOption {
	return func(a *Analyzer) {
		a.strategy = name
	}
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{substituter: sqlparam.New()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze renders every batch. Pairs never cross sources.
func (a *Analyzer) Analyze(ctx context.Context, batches []*logparser.FileBatch) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Statements: []*Statement{},
		Metadata: AnalysisMetadata{
			Sources:   make([]string, 0, len(batches)),
			Strategy:  a.strategy,
			Joined:    a.join,
			StartTime: time.Now(),
		},
	}

	for _, fb := range batches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if fb == nil || fb.Batch == nil {
			return nil, fmt.Errorf("analyzing: missing batch")
		}

		result.Metadata.Sources = append(result.Metadata.Sources, fb.Source)
		result.Metadata.LinesProcessed += fb.Lines
		result.Metadata.Templates += len(fb.Batch.SQLTemplates)
		result.Metadata.ValueLists += len(fb.Batch.ValueLists)

		result.Statements = append(result.Statements, a.render(fb)...)
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}

func (a *Analyzer) render(fb *logparser.FileBatch) []*Statement {
	if fb.Batch.Empty() {
		return nil
	}

	if a.join {
		sql, values := fb.Batch.Joined()
		st := a.AnalyzePair(sql, values)
		st.Source = fb.Source
		return []*Statement{st}
	}

	pairs := fb.Batch.Pairs()
	statements := make([]*Statement, 0, len(pairs))
	for i, p := range pairs {
		st := a.AnalyzePair(p.Template, p.Values)
		st.Index = i
		st.Source = fb.Source
		statements = append(statements, st)
	}
	return statements
}

// AnalyzePair renders one template with one value list and checks their counts.
func (a *Analyzer) AnalyzePair(template, values string) *Statement {
	st := &Statement{
		Template:     template,
		Values:       values,
		SQL:          a.substituter.Substitute(template, values),
		Placeholders: sqlparam.CountPlaceholders(template),
		ValueCount:   sqlparam.CountValues(values),
	}

	switch {
	case template == "" && values == "":
	case template == "":
		st.Issues = append(st.Issues, Issue{
			Type:        IssueTypeUnpairedValues,
			Description: fmt.Sprintf("%d value(s) with no statement", st.ValueCount),
		})
	case values == "":
		st.Issues = append(st.Issues, Issue{
			Type:        IssueTypeUnpairedTemplate,
			Description: fmt.Sprintf("statement with %d placeholder(s) has no values", st.Placeholders),
		})
	case st.Placeholders > st.ValueCount:
		st.Issues = append(st.Issues, Issue{
			Type:        IssueTypeMissingValues,
			Description: fmt.Sprintf("%d placeholder(s) but only %d value(s)", st.Placeholders, st.ValueCount),
		})
	case st.Placeholders < st.ValueCount:
		st.Issues = append(st.Issues, Issue{
			Type:        IssueTypeExtraValues,
			Description: fmt.Sprintf("%d value(s) but only %d placeholder(s)", st.ValueCount, st.Placeholders),
		})
	}

	return st
}
