// Package dispatch fans per-file work out to a bounded worker pool.
package dispatch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ListFiles enumerates files with the given extension (without dot)
// recursively under root. A missing root or an empty result is an error:
// both indicate a broken setup, and commands abort before any work starts.
func ListFiles(root, ext string) ([]string, error) {
	suffix := "." + strings.ToLower(ext)
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(path), suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .%s files found in %s", ext, root)
	}
	return files, nil
}

// ForEach runs fn for every file on a pool of at most workers goroutines
// (the CPU count when workers is not positive). Every queued file runs to
// completion regardless of other failures; the first error is returned only
// after the whole batch has drained, so partial progress is preserved.
func ForEach(ctx context.Context, files []string, workers int, fn func(ctx context.Context, file string) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			return fn(ctx, file)
		})
	}
	return g.Wait()
}
