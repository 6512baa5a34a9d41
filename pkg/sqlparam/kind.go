package sqlparam

// Kind decides how a value is written into the rendered SQL.
type Kind int

const (
	// KindLiteral values are copied verbatim (numbers, null, unknown tags).
	KindLiteral Kind = iota

	// KindString values are wrapped in single quotes.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	default:
		return "literal"
	}
}

// DefaultStringTypes are the type tags rendered as quoted strings.
var DefaultStringTypes = []string{"String", "Timestamp"}

// classifier maps type tags to kinds. Tags are matched case-sensitively.
type classifier map[string]struct{}

func newClassifier(tags []string) classifier {
	c := make(classifier, len(tags))
	for _, tag := range tags {
		c[tag] = struct{}{}
	}
	return c
}

func (c classifier) kind(tag string) Kind {
	if _, ok := c[tag]; ok {
		return KindString
	}
	return KindLiteral
}
