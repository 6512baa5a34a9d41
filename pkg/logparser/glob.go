package logparser

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandGlobs expands paths and glob patterns into a sorted, deduplicated
// list of files. Patterns that match nothing are kept as literal paths so the
// open error names them. "-" is kept first when present.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	stdin := false

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		if pattern == StdinPath {
			stdin = true
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	if stdin {
		files = append([]string{StdinPath}, files...)
	}
	return files, nil
}
