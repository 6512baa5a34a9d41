// Package sqlparam renders parameterized SQL into literal SQL.
//
// A value list is the comma separated text printed by ORM debug logs, for
// example "zhangsan(String), 18(Integer), null". Each segment carries a raw
// value and an optional type tag in parentheses.
package sqlparam

import "strings"

// TypedValue is one segment of a value list.
type TypedValue struct {
	// Raw is the text before the first '(' of the trimmed segment.
	Raw string `json:"raw"`

	// Type is the text between that '(' and the next ')'.
	// Empty when the segment has no annotation or the annotation is unterminated.
	Type string `json:"type,omitempty"`
}

// ParseValueList splits a value list on ',' into typed values.
// It never fails: malformed segments yield empty fields, and the empty
// string yields a single empty value.
func ParseValueList(text string) []TypedValue {
	segments := strings.Split(text, ",")
	values := make([]TypedValue, 0, len(segments))
	for _, seg := range segments {
		values = append(values, parseSegment(seg))
	}
	return values
}

func parseSegment(seg string) TypedValue {
	seg = strings.TrimSpace(seg)

	open := strings.IndexByte(seg, '(')
	if open < 0 {
		return TypedValue{Raw: seg}
	}

	v := TypedValue{Raw: seg[:open]}
	rest := seg[open+1:]
	if end := strings.IndexByte(rest, ')'); end >= 0 {
		v.Type = rest[:end]
	}
	return v
}

// CountValues returns how many values a list carries, not counting the empty
// segment left behind by a trailing separator. Empty text counts zero.
func CountValues(text string) int {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ",")
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return strings.Count(text, ",") + 1
}
