// Package prompts turns chunk files into prompt files.
// Each chunk is sent as the user message with the configured system prompt;
// the answer is written under the same file name in the prompts folder.
package prompts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/gaurav-prasanna/chunkpipe/core/batch"
	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/spf13/afero"
)

// Outcomes of generating prompts for one chunk.
const (
	Generated batch.Outcome = "generated"
	Skipped   batch.Outcome = "skipped"
	Errors                  = batch.Errors
)

// Outcomes lists the summary rows in display order.
var Outcomes = []batch.Outcome{Generated, Skipped, Errors}

// ErrNoSystemPrompt is returned when no system prompt is configured.
var ErrNoSystemPrompt = errors.New("system prompt is empty")

// TemplateData is available to the system prompt template.
type TemplateData struct {
	Count int // prompts to generate per chunk
}

// Generator writes one prompt file per chunk file.
type Generator struct {
	fs          afero.Fs
	gen         core.Generator
	runner      *batch.Runner
	log         logger.Logger
	Model       string
	Temperature float64
}

// New creates a Generator.
func New(fs afero.Fs, gen core.Generator, runner *batch.Runner, log logger.Logger) *Generator {
	return &Generator{fs: fs, gen: gen, runner: runner, log: log}
}

// RenderSystemPrompt expands the system prompt template, e.g.
// "Write {{ .Count }} prompts for the scene below."
func RenderSystemPrompt(text string, count int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSystemPrompt
	}
	tmpl, err := template.New("system_prompt").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing system prompt: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TemplateData{Count: count}); err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	return buf.String(), nil
}

// GenerateFolder generates prompts for every chunk file in chunksDir and
// writes them to promptsDir.
func (g *Generator) GenerateFolder(ctx context.Context, chunksDir, promptsDir, systemPrompt string, progress batch.Progress) (batch.Stats, error) {
	if err := g.fs.MkdirAll(promptsDir, 0o755); err != nil {
		return batch.Stats{}, fmt.Errorf("creating prompts folder: %w", err)
	}
	return g.runner.Run(ctx, chunksDir, func(ctx context.Context, path string) batch.Outcome {
		return g.GenerateFile(ctx, path, filepath.Join(promptsDir, filepath.Base(path)), systemPrompt)
	}, progress)
}

// GenerateFile generates prompts for the chunk at src and writes them to dst.
func (g *Generator) GenerateFile(ctx context.Context, src, dst, systemPrompt string) batch.Outcome {
	name := filepath.Base(src)

	data, err := afero.ReadFile(g.fs, src)
	if err != nil {
		g.log.Error("reading chunk failed", "file", name, "err", err)
		return Errors
	}
	chunk := strings.TrimSpace(string(data))
	if chunk == "" {
		g.log.Warn("chunk is empty, skipping", "file", name)
		return Skipped
	}

	answer, err := g.gen.Generate(ctx, core.GenerateRequest{
		System:      systemPrompt,
		User:        chunk,
		Model:       g.Model,
		Temperature: g.Temperature,
	})
	if err != nil {
		g.log.Error("generation request failed", "file", name, "err", err)
		return Errors
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		g.log.Error("service returned an empty answer", "file", name)
		return Errors
	}

	if err := afero.WriteFile(g.fs, dst, []byte(answer), 0o644); err != nil {
		g.log.Error("writing prompts failed", "file", dst, "err", err)
		return Errors
	}
	g.log.Info("prompts written", "file", dst)
	return Generated
}
