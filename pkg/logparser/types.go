// Package logparser recovers SQL templates and value lists from application logs.
package logparser

import "strings"

// LineKind classifies a single log line.
type LineKind int

const (
	// LineUnrelated lines contribute nothing to a batch.
	LineUnrelated LineKind = iota

	// LineSQL lines carry a prepared statement template.
	LineSQL

	// LineValue lines carry the bound value list of a statement.
	LineValue
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case LineSQL:
		return "sql"
	case LineValue:
		return "value"
	default:
		return "unrelated"
	}
}

// Line is the classification of one log line.
type Line struct {
	// Kind is the classification.
	Kind LineKind

	// Content is the SQL template or value list text. Empty for unrelated lines.
	Content string
}

// LogLine is a raw line read from a source.
type LogLine struct {
	// Content is the raw line text.
	Content string

	// Source is the file path (or "-" / "clipboard") this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}

// Batch holds the templates and value lists found in one extraction, in the
// order their lines appeared. The Nth template is assumed to pair with the
// Nth value list; counts are not checked.
type Batch struct {
	SQLTemplates []string `json:"sql_templates"`
	ValueLists   []string `json:"value_lists"`
}

// Pair is one positional template / value list pairing.
type Pair struct {
	Template string
	Values   string
}

// Pairs zips templates and value lists by position. Surplus entries on either
// side are returned with the missing half empty.
func (b *Batch) Pairs() []Pair {
	n := max(len(b.SQLTemplates), len(b.ValueLists))
	pairs := make([]Pair, n)
	for i := range pairs {
		if i < len(b.SQLTemplates) {
			pairs[i].Template = b.SQLTemplates[i]
		}
		if i < len(b.ValueLists) {
			pairs[i].Values = b.ValueLists[i]
		}
	}
	return pairs
}

// Joined concatenates every template (newline separated) and every value
// list so that the whole batch can be rendered in one substitution.
func (b *Batch) Joined() (sql, values string) {
	return strings.Join(b.SQLTemplates, "\n"), strings.Join(b.ValueLists, "")
}

// Empty reports whether the batch found nothing.
func (b *Batch) Empty() bool {
	return len(b.SQLTemplates) == 0 && len(b.ValueLists) == 0
}

// Append adds the entries of another batch after this one's.
func (b *Batch) Append(other *Batch) {
	b.SQLTemplates = append(b.SQLTemplates, other.SQLTemplates...)
	b.ValueLists = append(b.ValueLists, other.ValueLists...)
}

// FileBatch is the batch extracted from one source.
type FileBatch struct {
	Source string
	Lines  int
	Batch  *Batch
}
