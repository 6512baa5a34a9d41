package logparser

import (
	"regexp"
	"strings"
)

// StrategyKeyword is the name of the keyword-scan strategy.
const StrategyKeyword = "keyword"

// DefaultSQLKeywords start the statements the keyword scan looks for.
var DefaultSQLKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP", "WITH"}

// DefaultValueMarkers identify value list lines.
var DefaultValueMarkers = []string{"(String)", "(Integer)", "(Timestamp)", "(Long)"}

// ValueListSeparator is appended to every extracted value list so that lists
// from several lines concatenate into one well-formed list.
const ValueListSeparator = ", "

// KeywordStrategy finds statements by their leading SQL keyword and value
// lists by their type markers.
//
// A line with a keyword (case-insensitive, whole word) yields the text from the
// earliest keyword to the end of the line, but only when it contains a '?'.
// Keyword lines without a '?' are unrelated and are not checked for markers.
// Any other line containing a marker (case-sensitive) yields the text after the
// last ':' preceding the earliest marker.
type KeywordStrategy struct {
	keywords *regexp.Regexp
	markers  []string
}

// NewKeywordStrategy builds a keyword scan. Empty arguments fall back to the defaults.
func NewKeywordStrategy(keywords, markers []string) *KeywordStrategy {
	if len(keywords) == 0 {
		keywords = DefaultSQLKeywords
	}
	if len(markers) == 0 {
		markers = DefaultValueMarkers
	}

	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	return &KeywordStrategy{
		keywords: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		markers:  append([]string(nil), markers...),
	}
}

// Name returns "keyword".
func (s *KeywordStrategy) Name() string {
	return StrategyKeyword
}

// Classify inspects a single line.
func (s *KeywordStrategy) Classify(line string) Line {
	if loc := s.keywords.FindStringIndex(line); loc != nil {
		sql := strings.TrimSpace(line[loc[0]:])
		if strings.ContainsRune(sql, '?') {
			return Line{Kind: LineSQL, Content: sql}
		}
		return Line{Kind: LineUnrelated}
	}

	first := s.firstMarker(line)
	if first < 0 {
		return Line{Kind: LineUnrelated}
	}

	start := strings.LastIndexByte(line[:first], ':') + 1
	return Line{
		Kind:    LineValue,
		Content: strings.TrimSpace(line[start:]) + ValueListSeparator,
	}
}

func (s *KeywordStrategy) firstMarker(line string) int {
	first := -1
	for _, marker := range s.markers {
		if i := strings.Index(line, marker); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	return first
}
