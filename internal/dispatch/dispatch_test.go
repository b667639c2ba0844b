package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.gui", "sub/b.gui", "sub/deep/c.GUI", "d.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	files, err := ListFiles(dir, "gui")
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.gui"),
		filepath.Join(dir, "sub", "b.gui"),
		filepath.Join(dir, "sub", "deep", "c.GUI"),
	}, files)
}

func TestListFiles_MissingRoot(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "absent"), "gui")
	assert.Error(t, err)
}

func TestListFiles_NoMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))

	_, err := ListFiles(dir, "gui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .gui files found")
}

func TestForEach_RunsEveryFile(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}

	var mu sync.Mutex
	seen := make(map[string]bool)
	err := ForEach(context.Background(), files, 3, func(_ context.Context, file string) error {
		mu.Lock()
		seen[file] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, len(files))
}

func TestForEach_ErrorDoesNotStopBatch(t *testing.T) {
	files := []string{"a", "b", "c", "d"}
	wantErr := errors.New("bad file")

	var ran atomic.Int32
	err := ForEach(context.Background(), files, 2, func(_ context.Context, file string) error {
		ran.Add(1)
		if file == "b" {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, int32(len(files)), ran.Load(), "every file runs even after a failure")
}

func TestForEach_DefaultWorkerCount(t *testing.T) {
	var ran atomic.Int32
	err := ForEach(context.Background(), []string{"a", "b"}, 0, func(_ context.Context, _ string) error {
		ran.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), ran.Load())
}
