package logparser

import (
	"fmt"
	"strings"
)

// Extractor turns log lines into a Batch using a Strategy.
type Extractor struct {
	strategy Strategy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrategy sets the line classification strategy (default: keyword scan).
func WithStrategy(s Strategy) Option {
	return func(e *Extractor) {
		if s != nil {
			e.strategy = s
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{strategy: NewKeywordStrategy(nil, nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewStrategy returns the built-in strategy with the given name.
func NewStrategy(name string, keywords, markers []string, sqlLabel, valueLabel string) (Strategy, error) {
	switch name {
	case "", StrategyKeyword:
		return NewKeywordStrategy(keywords, markers), nil
	case StrategyLabel:
		return NewLabelStrategy(sqlLabel, valueLabel), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q (use %s or %s)", name, StrategyKeyword, StrategyLabel)
	}
}

var defaultExtractor = NewExtractor()

// Extract runs the keyword scan over lines.
func Extract(lines []string) (*Batch, bool) {
	return defaultExtractor.Extract(lines)
}

// ExtractText splits text into lines and extracts from them.
func ExtractText(text string) (*Batch, bool) {
	return defaultExtractor.ExtractText(text)
}

// Strategy returns the strategy in use.
func (e *Extractor) Strategy() Strategy {
	return e.strategy
}

// Extract classifies every line independently. It returns false only when
// lines is empty; otherwise the batch may be empty.
func (e *Extractor) Extract(lines []string) (*Batch, bool) {
	if len(lines) == 0 {
		return nil, false
	}

	batch := &Batch{
		SQLTemplates: []string{},
		ValueLists:   []string{},
	}
	for _, line := range lines {
		e.add(batch, line)
	}
	return batch, true
}

// ExtractText splits text on line breaks and extracts from the lines.
// Empty text has no lines.
func (e *Extractor) ExtractText(text string) (*Batch, bool) {
	if text == "" {
		return e.Extract(nil)
	}
	return e.Extract(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

func (e *Extractor) add(batch *Batch, line string) {
	l := e.strategy.Classify(line)
	switch l.Kind {
	case LineSQL:
		batch.SQLTemplates = append(batch.SQLTemplates, l.Content)
	case LineValue:
		batch.ValueLists = append(batch.ValueLists, l.Content)
	}
}
