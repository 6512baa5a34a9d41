package logparser

import "context"

// Strategy classifies log lines. Implementations keep no state between
// calls, so one Strategy may serve many extractions concurrently.
type Strategy interface {
	// Name returns the strategy name used in configuration.
	Name() string

	// Classify inspects a single line.
	Classify(line string) Line
}

// LineSource provides an iterator over raw log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}
