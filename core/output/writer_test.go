package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFs refuses to create files whose name matches failOn.
type failingFs struct {
	afero.Fs
	failOn string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.HasSuffix(name, f.failOn) {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "01.txt", FileName(1))
	assert.Equal(t, "09.txt", FileName(9))
	assert.Equal(t, "42.txt", FileName(42))
	assert.Equal(t, "100.txt", FileName(100))
}

func TestWriter_WriteChunks(t *testing.T) {
	t.Run("Should write numbered files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		w, err := New(fs, "chunks")
		require.NoError(t, err)

		infos, err := w.WriteChunks([]string{"alpha", "бета"})

		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, filepath.Join("chunks", "01.txt"), infos[0].File)
		assert.Equal(t, 2, infos[1].Index)
		assert.Equal(t, 4, infos[1].Length)

		data, err := afero.ReadFile(fs, filepath.Join("chunks", "02.txt"))
		require.NoError(t, err)
		assert.Equal(t, "бета", string(data))
	})

	t.Run("Should refuse a non-empty folder", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, filepath.Join("chunks", "old.txt"), []byte("x"), 0o644))
		w, err := New(fs, "chunks")
		require.NoError(t, err)

		_, err = w.WriteChunks([]string{"new"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFolderNotEmpty))
		exists, _ := afero.Exists(fs, filepath.Join("chunks", "01.txt"))
		assert.False(t, exists)
	})

	t.Run("Should clear the folder", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, filepath.Join("chunks", "old.txt"), []byte("x"), 0o644))
		require.NoError(t, fs.MkdirAll(filepath.Join("chunks", "nested"), 0o755))
		w, err := New(fs, "chunks")
		require.NoError(t, err)

		require.NoError(t, w.Clear())

		empty, err := w.IsEmpty()
		require.NoError(t, err)
		assert.True(t, empty)
		dirExists, _ := afero.DirExists(fs, "chunks")
		assert.True(t, dirExists)
	})

	t.Run("Should remove written files when a write fails", func(t *testing.T) {
		fs := failingFs{Fs: afero.NewMemMapFs(), failOn: "03.txt"}
		w, err := New(fs, "chunks")
		require.NoError(t, err)

		_, err = w.WriteChunks([]string{"one", "two", "three", "four"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		empty, err := w.IsEmpty()
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("Should require a folder", func(t *testing.T) {
		_, err := New(afero.NewMemMapFs(), "")
		assert.Error(t, err)
	})
}
