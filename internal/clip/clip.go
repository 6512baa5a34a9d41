// Package clip reads and writes the system clipboard.
package clip

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is available.
var ErrUnavailable = errors.New("clipboard unavailable")

// Swapped out in tests.
var (
	clipboardReadAll  = clipboard.ReadAll
	clipboardWriteAll = clipboard.WriteAll
	unsupported       = func() bool { return clipboard.Unsupported }
)

// Read returns the clipboard text.
func Read() (string, error) {
	if unsupported() {
		return "", ErrUnavailable
	}
	text, err := clipboardReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// Write replaces the clipboard text.
func Write(text string) error {
	if unsupported() {
		return ErrUnavailable
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Available reports whether a clipboard utility was found.
func Available() bool {
	return !unsupported()
}
