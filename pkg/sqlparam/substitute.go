package sqlparam

import "strings"

// Placeholder is the positional parameter marker.
const Placeholder = '?'

// Substituter replaces placeholders with values from a value list.
// It holds no per-call state and is safe for concurrent use.
type Substituter struct {
	stringTypes classifier
}

// Option configures a Substituter.
type Option func(*Substituter)

// WithStringTypes replaces the set of type tags rendered as quoted strings.
// An empty call keeps the defaults.
func WithStringTypes(tags ...string) Option {
	return func(s *Substituter) {
		if len(tags) > 0 {
			s.stringTypes = newClassifier(tags)
		}
	}
}

// New creates a Substituter. Without options String and Timestamp values are quoted.
func New(opts ...Option) *Substituter {
	s := &Substituter{stringTypes: newClassifier(DefaultStringTypes)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSubstituter = New()

// Substitute renders sql with the values of a value list using the default
// string types.
func Substitute(sql, values string) string {
	return defaultSubstituter.Substitute(sql, values)
}

// Kind reports how a value with the given type tag is rendered.
func (s *Substituter) Kind(tag string) Kind {
	return s.stringTypes.kind(tag)
}

// Substitute renders sql with the values of a value list.
//
// Empty sql or empty values yield the empty string. Each '?' takes the next
// value by position; placeholders beyond the last value render as nothing and
// unused values are ignored. Every other character is copied unchanged, so
// several ';' separated statements share one value sequence.
func (s *Substituter) Substitute(sql, values string) string {
	if sql == "" || values == "" {
		return ""
	}
	return s.SubstituteValues(sql, ParseValueList(values))
}

// SubstituteValues renders sql with already parsed values.
func (s *Substituter) SubstituteValues(sql string, values []TypedValue) string {
	var b strings.Builder
	b.Grow(len(sql) + len(values)*8)

	// '?' is ASCII, so a byte walk leaves multi-byte text untouched.
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != Placeholder {
			b.WriteByte(sql[i])
			continue
		}
		if next < len(values) {
			s.writeValue(&b, values[next])
		}
		next++
	}
	return b.String()
}

func (s *Substituter) writeValue(b *strings.Builder, v TypedValue) {
	if s.Kind(v.Type) == KindString {
		b.WriteByte('\'')
		b.WriteString(v.Raw)
		b.WriteByte('\'')
		return
	}
	b.WriteString(v.Raw)
}

// CountPlaceholders returns the number of '?' markers in sql.
func CountPlaceholders(sql string) int {
	return strings.Count(sql, string(Placeholder))
}
