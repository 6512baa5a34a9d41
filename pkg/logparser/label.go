package logparser

import "regexp"

// StrategyLabel is the name of the label-anchor strategy.
const StrategyLabel = "label"

// Default labels printed by MyBatis style executors.
const (
	DefaultSQLLabel   = "Preparing:"
	DefaultValueLabel = "Parameters:"
)

// LabelStrategy anchors on the labels ORM loggers print in front of the
// statement and its parameters. The captured text is used as-is; unlike the
// keyword scan there is no '?' filter.
type LabelStrategy struct {
	sql    *regexp.Regexp
	values *regexp.Regexp
}

// NewLabelStrategy builds a label anchor. Empty labels fall back to the defaults.
func NewLabelStrategy(sqlLabel, valueLabel string) *LabelStrategy {
	if sqlLabel == "" {
		sqlLabel = DefaultSQLLabel
	}
	if valueLabel == "" {
		valueLabel = DefaultValueLabel
	}
	return &LabelStrategy{
		sql:    labelPattern(sqlLabel),
		values: labelPattern(valueLabel),
	}
}

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + `\s*(.*)$`)
}

// Name returns "label".
func (s *LabelStrategy) Name() string {
	return StrategyLabel
}

// Classify inspects a single line.
func (s *LabelStrategy) Classify(line string) Line {
	if m := s.sql.FindStringSubmatch(line); m != nil {
		return Line{Kind: LineSQL, Content: m[1]}
	}
	if m := s.values.FindStringSubmatch(line); m != nil {
		return Line{Kind: LineValue, Content: m[1] + ValueListSeparator}
	}
	return Line{Kind: LineUnrelated}
}
