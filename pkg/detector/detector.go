// Package detector identifies how a log file prints prepared statements.
package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/sqlparam/pkg/logparser"
)

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches      []DialectMatch // Dialects that found something, best first
	SampledLines int            // Number of lines sampled
	MatchedLines int            // Lines classified by the best match
	Note         string         // Warning about the best match, if any
}

// DialectMatch represents a dialect that found statements or value lists.
type DialectMatch struct {
	Dialect    *Dialect
	Templates  int     // SQL template lines found
	ValueLists int     // Value list lines found
	Confidence float64 // 0.0 to 1.0 (share of sampled lines classified)
	SampleSQL  string  // First template found
	SampleVals string  // First value list found
}

// Pairs returns the number of complete template / value list pairs.
func (m *DialectMatch) Pairs() int {
	return min(m.Templates, m.ValueLists)
}

// Balanced reports whether every template has a value list and vice versa.
func (m *DialectMatch) Balanced() bool {
	return m.Templates == m.ValueLists
}

// Detector samples log lines and scores each dialect on them.
type Detector struct {
	dialects   []*Dialect
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithDialects replaces the dialects to score.
func WithDialects(dialects []*Dialect) Option {
	return func(d *Detector) {
		if len(dialects) > 0 {
			d.dialects = dialects
		}
	}
}

// New creates a new Detector with default dialects.
func New(opts ...Option) *Detector {
	d := &Detector{
		dialects:   DefaultDialects(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file and returns matching dialects.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sample(ctx, logparser.NewFileSource([]string{path}))
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines scores every dialect on a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	for _, dialect := range d.dialects {
		strategy, err := dialect.Extraction.NewStrategy()
		if err != nil {
			continue
		}

		m := DialectMatch{Dialect: dialect}
		for _, line := range lines {
			c := strategy.Classify(line)
			switch c.Kind {
			case logparser.LineSQL:
				m.Templates++
				if m.SampleSQL == "" {
					m.SampleSQL = c.Content
				}
			case logparser.LineValue:
				m.ValueLists++
				if m.SampleVals == "" {
					m.SampleVals = c.Content
				}
			}
		}

		if m.Templates+m.ValueLists == 0 {
			continue
		}
		m.Confidence = float64(m.Templates+m.ValueLists) / float64(len(lines))
		result.Matches = append(result.Matches, m)
	}

	// Most complete pairs first, then balanced, then coverage. Stable so
	// earlier dialects win ties.
	sort.SliceStable(result.Matches, func(i, j int) bool {
		a, b := &result.Matches[i], &result.Matches[j]
		if a.Pairs() != b.Pairs() {
			return a.Pairs() > b.Pairs()
		}
		if a.Balanced() != b.Balanced() {
			return a.Balanced()
		}
		return a.Confidence > b.Confidence
	})

	if best := result.BestMatch(); best != nil {
		result.MatchedLines = best.Templates + best.ValueLists
		if !best.Balanced() {
			result.Note = fmt.Sprintf("%d template(s) but %d value list(s); positional pairing will leave some unpaired",
				best.Templates, best.ValueLists)
		}
	}

	return result
}

// sample reads up to sampleSize non-empty lines from a source.
func (d *Detector) sample(ctx context.Context, src logparser.LineSource) ([]string, error) {
	defer src.Close()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line.Content) != "" {
			lines = append(lines, line.Content)
		}
	}

	return lines, nil
}

// BestMatch returns the highest ranked match, or nil if none found.
func (r *DetectionResult) BestMatch() *DialectMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one dialect matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
