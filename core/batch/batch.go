// Package batch runs a per-file step over the numbered .txt files of a
// folder, one at a time, pausing between files for rate limiting.
// A failing file is counted and the loop moves on.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/spf13/afero"
)

// Outcome is the result of processing one file.
type Outcome string

// Errors is shared by every step: the file could not be processed.
const Errors Outcome = "errors"

// Step processes one file.
type Step func(ctx context.Context, path string) Outcome

// Progress is called before each file with its 1-based index.
type Progress func(index, total int, name string)

// Stats counts outcomes over a run.
type Stats struct {
	Total   int
	Counts  map[Outcome]int
	Elapsed time.Duration
}

// Count returns how many files ended with o.
func (s Stats) Count(o Outcome) int {
	return s.Counts[o]
}

// Runner drives a Step over a folder.
type Runner struct {
	fs    afero.Fs
	delay time.Duration
	log   logger.Logger
	now   func() time.Time
}

// New creates a Runner pausing delay between two files.
func New(fs afero.Fs, delay time.Duration, log logger.Logger) *Runner {
	return &Runner{fs: fs, delay: delay, log: log, now: time.Now}
}

// ListTextFiles returns the .txt files directly inside dir, sorted by name.
func ListTextFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Run applies step to every .txt file in dir. It stops early only when ctx
// is cancelled, returning the stats gathered so far with ctx's error.
func (r *Runner) Run(ctx context.Context, dir string, step Step, progress Progress) (Stats, error) {
	stats := Stats{Counts: make(map[Outcome]int)}

	files, err := ListTextFiles(r.fs, dir)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		r.log.Warn("no .txt files to process", "folder", dir)
		return stats, nil
	}

	start := r.now()

	for i, path := range files {
		if i > 0 && r.delay > 0 {
			if err := sleep(ctx, r.delay); err != nil {
				stats.Elapsed = r.now().Sub(start)
				return stats, err
			}
		}
		if progress != nil {
			progress(i+1, len(files), filepath.Base(path))
		}
		r.log.Info("processing file", "index", i+1, "total", len(files), "file", filepath.Base(path))

		outcome := step(ctx, path)
		stats.Total++
		stats.Counts[outcome]++

		if err := ctx.Err(); err != nil {
			stats.Elapsed = r.now().Sub(start)
			return stats, err
		}
	}
	stats.Elapsed = r.now().Sub(start)
	return stats, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
