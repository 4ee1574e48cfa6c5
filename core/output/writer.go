// Package output writes chunks to numbered files.
// Chunk i (1-based) goes to "%02d.txt" inside the chunks folder: 01.txt,
// 02.txt, … A run either writes every chunk or leaves no chunk file behind.
package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/spf13/afero"
)

// ErrFolderNotEmpty is returned by WriteChunks when the folder must be
// cleared first. Callers are expected to confirm with the user.
var ErrFolderNotEmpty = errors.New("output folder is not empty")

// Writer writes chunk files to disk.
type Writer struct {
	fs  afero.Fs
	Dir string
}

// New creates a Writer targeting dir, creating it when missing.
func New(fs afero.Fs, dir string) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("output folder is required")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}
	return &Writer{fs: fs, Dir: dir}, nil
}

// FileName returns the file name for the 1-based chunk index.
func FileName(index int) string {
	return fmt.Sprintf("%02d.txt", index)
}

// IsEmpty reports whether the folder has no entries.
func (w *Writer) IsEmpty() (bool, error) {
	empty, err := afero.IsEmpty(w.fs, w.Dir)
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", w.Dir, err)
	}
	return empty, nil
}

// Clear removes every entry inside the folder, keeping the folder itself.
func (w *Writer) Clear() error {
	entries, err := afero.ReadDir(w.fs, w.Dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", w.Dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(w.Dir, entry.Name())
		if err := w.fs.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

// WriteChunks writes every chunk to its numbered file. The folder must be
// empty. If any write fails, files written by this call are removed.
func (w *Writer) WriteChunks(chunks []string) ([]core.ChunkInfo, error) {
	empty, err := w.IsEmpty()
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotEmpty, w.Dir)
	}

	infos := make([]core.ChunkInfo, 0, len(chunks))
	for i, text := range chunks {
		name := FileName(i + 1)
		path := filepath.Join(w.Dir, name)
		if err := afero.WriteFile(w.fs, path, []byte(text), 0o644); err != nil {
			w.rollback(infos, path)
			return nil, fmt.Errorf("writing file %s: %w", path, err)
		}
		infos = append(infos, core.ChunkInfo{
			Index:  i + 1,
			File:   path,
			Length: utf8.RuneCountInString(text),
			Text:   text,
		})
	}
	return infos, nil
}

// rollback is best effort; the failed file may or may not exist.
func (w *Writer) rollback(written []core.ChunkInfo, failed string) {
	for _, info := range written {
		_ = w.fs.Remove(info.File)
	}
	_ = w.fs.Remove(failed)
}
