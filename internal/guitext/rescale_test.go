package guitext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/uprez/internal/dispatch"
	"github.com/modforge/uprez/internal/logger"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRescaleFile_WritesChangedFile(t *testing.T) {
	ctx := logger.NopContext()
	in := t.TempDir()
	out := t.TempDir()
	file := writeFixture(t, in, "gui/main.gui", "x = 10\ny = 20\n")

	res := RescaleFile(ctx, file, in, out, Fixed(2.0))
	require.Equal(t, OutcomeWritten, res.Outcome)

	want := filepath.Join(out, "gui", "main.gui")
	assert.Equal(t, want, res.OutputPath)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "x = 20\ny = 40\n", string(data))
}

func TestRescaleFile_UnchangedNotWritten(t *testing.T) {
	ctx := logger.NopContext()
	in := t.TempDir()
	out := t.TempDir()
	file := writeFixture(t, in, "empty.gui", "nothing positional here\n")

	res := RescaleFile(ctx, file, in, out, Fixed(2.0))
	require.Equal(t, OutcomeUnchanged, res.Outcome)

	_, err := os.Stat(filepath.Join(out, "empty.gui"))
	assert.True(t, os.IsNotExist(err), "unchanged file must not be written")
}

func TestRescaleFile_UnreadableFails(t *testing.T) {
	ctx := logger.NopContext()
	res := RescaleFile(ctx, filepath.Join(t.TempDir(), "missing.gui"), "/tmp", t.TempDir(), Fixed(2.0))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Error(t, res.Err)
}

// Processing a directory sequentially and with the worker pool must produce
// identical output trees.
func TestRescaleFile_ParallelMatchesSequential(t *testing.T) {
	ctx := logger.NopContext()
	in := t.TempDir()

	var files []string
	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("window_%d = {\n\tx = %d\n\ty = %d\n\tmaxWidth = %d\n}\n", i, i*3, i*7, 100+i)
		files = append(files, writeFixture(t, in, fmt.Sprintf("sub%d/f%d.gui", i%3, i), content))
	}

	outSeq := t.TempDir()
	outPar := t.TempDir()
	for _, workers := range []int{1, 8} {
		out := outSeq
		if workers > 1 {
			out = outPar
		}
		err := dispatch.ForEach(ctx, files, workers, func(ctx context.Context, file string) error {
			RescaleFile(ctx, file, in, out, Fixed(1.5))
			return nil
		})
		require.NoError(t, err)
	}

	for _, file := range files {
		rel, err := filepath.Rel(in, file)
		require.NoError(t, err)
		seq, err := os.ReadFile(filepath.Join(outSeq, rel))
		require.NoError(t, err)
		par, err := os.ReadFile(filepath.Join(outPar, rel))
		require.NoError(t, err)
		assert.Equal(t, string(seq), string(par), "output mismatch for %s", rel)
	}
}
