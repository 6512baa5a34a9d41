package logparser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// StdinPath names standard input in a list of paths.
const StdinPath = "-"

// maxLineSize bounds a single log line; ORM statements can be long.
const maxLineSize = 4 * 1024 * 1024

// FileSource implements LineSource over a list of files.
type FileSource struct {
	files []string
	stdin io.Reader

	current     io.ReadCloser
	scanner     *bufio.Scanner
	currentName string
	currentLine int
	fileIndex   int
}

// NewFileSource creates a LineSource that reads the given files in order.
// The path "-" reads standard input.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		stdin:     os.Stdin,
		fileIndex: -1,
	}
}

// Next returns the next line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.scanner == nil {
			if err := s.openNext(); err != nil {
				return nil, err
			}
		}

		if s.scanner.Scan() {
			s.currentLine++
			return &LogLine{
				Content: s.scanner.Text(),
				Source:  s.currentName,
				LineNum: s.currentLine,
			}, nil
		}

		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentName, err)
		}

		if err := s.closeCurrent(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrent()
}

func (s *FileSource) openNext() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	if path == StdinPath {
		s.current = io.NopCloser(s.stdin)
	} else {
		f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", path, err)
		}
		s.current = f
	}

	s.scanner = newScanner(s.current)
	s.currentName = path
	s.currentLine = 0
	return nil
}

func (s *FileSource) closeCurrent() error {
	s.scanner = nil
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}

// ReaderSource implements LineSource over an in-memory reader such as
// clipboard text.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
	line    int
}

// NewReaderSource creates a LineSource reading r; name is reported as the Source.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, scanner: newScanner(r)}
}

// Next returns the next line or io.EOF.
func (s *ReaderSource) Next(ctx context.Context) (*LogLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		return nil, io.EOF
	}
	s.line++
	return &LogLine{Content: s.scanner.Text(), Source: s.name, LineNum: s.line}, nil
}

// Close is a no-op; the reader is owned by the caller.
func (s *ReaderSource) Close() error {
	return nil
}

// Collect drains a source into a slice of line contents.
func Collect(ctx context.Context, src LineSource) ([]string, error) {
	var lines []string
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line.Content)
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}
