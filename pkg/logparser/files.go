package logparser

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ExtractSource reads every line of src and extracts a batch from them.
// A source with no lines yields an empty batch.
func (e *Extractor) ExtractSource(ctx context.Context, src LineSource) (*Batch, int, error) {
	lines, err := Collect(ctx, src)
	if err != nil {
		return nil, 0, err
	}
	batch, ok := e.Extract(lines)
	if !ok {
		batch = &Batch{SQLTemplates: []string{}, ValueLists: []string{}}
	}
	return batch, len(lines), nil
}

// ExtractFiles extracts each file concurrently, at most limit at a time
// (limit <= 0 uses GOMAXPROCS). Results keep the order of files. The first
// error cancels the remaining work.
func (e *Extractor) ExtractFiles(ctx context.Context, files []string, limit int) ([]*FileBatch, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*FileBatch, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			src := NewFileSource([]string{path})
			defer src.Close()

			batch, n, err := e.ExtractSource(gctx, src)
			if err != nil {
				return err
			}
			results[i] = &FileBatch{Source: path, Lines: n, Batch: batch}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
