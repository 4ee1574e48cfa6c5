// Package verify sends each numbered file to a text-generation service
// together with an instruction prompt and rewrites the file when the
// service returns a materially different text.
//
// "Different" ignores whitespace layout: both texts are compared with every
// whitespace run collapsed to one space. The file receives the service's
// answer as returned (trimmed), never the collapsed form.
package verify

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/gaurav-prasanna/chunkpipe/core/batch"
	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/spf13/afero"
)

// Outcomes of verifying one file.
const (
	Improved  batch.Outcome = "improved"
	Unchanged batch.Outcome = "unchanged"
	Errors                  = batch.Errors
)

// Outcomes lists the summary rows in display order.
var Outcomes = []batch.Outcome{Improved, Unchanged, Errors}

// Verifier checks files against an instruction prompt.
type Verifier struct {
	fs          afero.Fs
	gen         core.Generator
	runner      *batch.Runner
	log         logger.Logger
	Model       string
	Temperature float64
}

// New creates a Verifier. runner controls pacing between files.
func New(fs afero.Fs, gen core.Generator, runner *batch.Runner, log logger.Logger) *Verifier {
	return &Verifier{fs: fs, gen: gen, runner: runner, log: log}
}

// VerifyFolder verifies every .txt file in dir in name order.
func (v *Verifier) VerifyFolder(ctx context.Context, dir, instruction string, progress batch.Progress) (batch.Stats, error) {
	return v.runner.Run(ctx, dir, func(ctx context.Context, path string) batch.Outcome {
		return v.VerifyFile(ctx, path, instruction)
	}, progress)
}

// VerifyFile verifies one file. Any failure is logged and reported as Errors.
func (v *Verifier) VerifyFile(ctx context.Context, path, instruction string) batch.Outcome {
	name := filepath.Base(path)

	data, err := afero.ReadFile(v.fs, path)
	if err != nil {
		v.log.Error("reading file failed", "file", name, "err", err)
		return Errors
	}
	original := strings.TrimSpace(string(data))
	if original == "" {
		v.log.Warn("file is empty, skipping", "file", name)
		return Unchanged
	}

	v.log.Debug("sending file for verification", "file", name, "chars", len([]rune(original)))
	response, err := v.gen.Generate(ctx, core.GenerateRequest{
		System:      instruction,
		User:        original,
		Model:       v.Model,
		Temperature: v.Temperature,
	})
	if err != nil {
		v.log.Error("verification request failed", "file", name, "err", err)
		return Errors
	}
	improved := strings.TrimSpace(response)
	if improved == "" {
		v.log.Error("service returned an empty answer", "file", name)
		return Errors
	}

	if NormalizeWhitespace(original) == NormalizeWhitespace(improved) {
		v.log.Info("unchanged", "file", name)
		return Unchanged
	}
	if err := afero.WriteFile(v.fs, path, []byte(improved), 0o644); err != nil {
		v.log.Error("writing improved file failed", "file", name, "err", err)
		return Errors
	}
	v.log.Info("improved", "file", name)
	return Improved
}

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims the ends. It is used for comparison only.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
