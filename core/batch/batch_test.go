package batch

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ok Outcome = "ok"

func seed(t *testing.T, fs afero.Fs, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("work", name), []byte(name), 0o644))
	}
}

func TestListTextFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "02.txt", "01.txt", "notes.md", "10.TXT")
	require.NoError(t, fs.MkdirAll(filepath.Join("work", "sub.txt"), 0o755))

	files, err := ListTextFiles(fs, "work")

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("work", "01.txt"),
		filepath.Join("work", "02.txt"),
		filepath.Join("work", "10.TXT"),
	}, files)
}

func TestRunner_Run(t *testing.T) {
	t.Run("Should process files in order and keep going after errors", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seed(t, fs, "01.txt", "02.txt", "03.txt")

		var seen []string
		var progress []int
		step := func(_ context.Context, path string) Outcome {
			seen = append(seen, filepath.Base(path))
			if strings.HasSuffix(path, "02.txt") {
				return Errors
			}
			return ok
		}

		stats, err := New(fs, 0, logger.Discard()).Run(context.Background(), "work", step,
			func(index, total int, _ string) {
				assert.Equal(t, 3, total)
				progress = append(progress, index)
			})

		require.NoError(t, err)
		assert.Equal(t, []string{"01.txt", "02.txt", "03.txt"}, seen)
		assert.Equal(t, []int{1, 2, 3}, progress)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 2, stats.Count(ok))
		assert.Equal(t, 1, stats.Count(Errors))
	})

	t.Run("Should return empty stats for an empty folder", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("work", 0o755))

		stats, err := New(fs, 0, logger.Discard()).Run(context.Background(), "work",
			func(context.Context, string) Outcome { return ok }, nil)

		require.NoError(t, err)
		assert.Zero(t, stats.Total)
	})

	t.Run("Should fail for a missing folder", func(t *testing.T) {
		_, err := New(afero.NewMemMapFs(), 0, logger.Discard()).Run(context.Background(), "missing",
			func(context.Context, string) Outcome { return ok }, nil)
		assert.Error(t, err)
	})

	t.Run("Should stop when the context is cancelled during the delay", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seed(t, fs, "01.txt", "02.txt")
		ctx, cancel := context.WithCancel(context.Background())

		step := func(context.Context, string) Outcome {
			cancel()
			return ok
		}
		stats, err := New(fs, time.Hour, logger.Discard()).Run(ctx, "work", step, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, stats.Total)
	})
}

func TestFormatStats(t *testing.T) {
	stats := Stats{
		Total:   4,
		Counts:  map[Outcome]int{"improved": 1, "unchanged": 2, Errors: 1},
		Elapsed: 125 * time.Second,
	}

	out := FormatStats("Verification complete", stats, "improved", "unchanged", Errors)

	assert.Contains(t, out, "Verification complete")
	assert.Contains(t, out, "Processed files: 4")
	assert.Contains(t, out, "improved: 1 (25.0%)")
	assert.Contains(t, out, "unchanged: 2 (50.0%)")
	assert.Contains(t, out, "errors: 1 (25.0%)")
	assert.Contains(t, out, "2 min 5 sec")
}
