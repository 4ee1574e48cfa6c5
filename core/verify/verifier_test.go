package verify

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/gaurav-prasanna/chunkpipe/core/batch"
	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator answers from a function and records requests.
type fakeGenerator struct {
	answer   func(req core.GenerateRequest) (string, error)
	requests []core.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req core.GenerateRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.answer(req)
}

func newVerifier(fs afero.Fs, gen core.Generator) *Verifier {
	v := New(fs, gen, batch.New(fs, 0, logger.Discard()), logger.Discard())
	v.Model = "test-model"
	v.Temperature = 1
	return v
}

func write(t *testing.T, fs afero.Fs, name, body string) string {
	t.Helper()
	path := filepath.Join("prompts", name)
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	return path
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestVerifier_VerifyFile(t *testing.T) {
	ctx := context.Background()

	t.Run("Should rewrite the file with the raw answer when it differs", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := write(t, fs, "01.txt", "  a prompt with typo  \n")
		gen := &fakeGenerator{answer: func(core.GenerateRequest) (string, error) {
			return "\nA prompt,\n  without typo.\n", nil
		}}

		outcome := newVerifier(fs, gen).VerifyFile(ctx, path, "Fix typos.")

		assert.Equal(t, Improved, outcome)
		assert.Equal(t, "A prompt,\n  without typo.", read(t, fs, path))
		require.Len(t, gen.requests, 1)
		assert.Equal(t, "Fix typos.", gen.requests[0].System)
		assert.Equal(t, "a prompt with typo", gen.requests[0].User)
		assert.Equal(t, "test-model", gen.requests[0].Model)
	})

	t.Run("Should leave the file alone when only whitespace differs", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		original := "line one\nline   two"
		path := write(t, fs, "01.txt", original)
		gen := &fakeGenerator{answer: func(core.GenerateRequest) (string, error) {
			return "line one line two\n", nil
		}}

		outcome := newVerifier(fs, gen).VerifyFile(ctx, path, "Fix.")

		assert.Equal(t, Unchanged, outcome)
		assert.Equal(t, original, read(t, fs, path))
	})

	t.Run("Should skip an empty file without calling the service", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := write(t, fs, "01.txt", " \n\t")
		gen := &fakeGenerator{answer: func(core.GenerateRequest) (string, error) { return "x", nil }}

		outcome := newVerifier(fs, gen).VerifyFile(ctx, path, "Fix.")

		assert.Equal(t, Unchanged, outcome)
		assert.Empty(t, gen.requests)
	})

	t.Run("Should report service failures as errors", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := write(t, fs, "01.txt", "text")
		gen := &fakeGenerator{answer: func(core.GenerateRequest) (string, error) {
			return "", errors.New("connection refused")
		}}

		assert.Equal(t, Errors, newVerifier(fs, gen).VerifyFile(ctx, path, "Fix."))
		assert.Equal(t, "text", read(t, fs, path))
	})

	t.Run("Should report a blank answer as an error", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := write(t, fs, "01.txt", "text")
		gen := &fakeGenerator{answer: func(core.GenerateRequest) (string, error) { return "   ", nil }}

		assert.Equal(t, Errors, newVerifier(fs, gen).VerifyFile(ctx, path, "Fix."))
		assert.Equal(t, "text", read(t, fs, path))
	})

	t.Run("Should report a missing file as an error", func(t *testing.T) {
		gen := &fakeGenerator{answer: func(core.GenerateRequest) (string, error) { return "x", nil }}
		assert.Equal(t, Errors, newVerifier(afero.NewMemMapFs(), gen).VerifyFile(ctx, "prompts/09.txt", "Fix."))
	})
}

func TestVerifier_VerifyFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "01.txt", "keep me")
	write(t, fs, "02.txt", "fix me")
	write(t, fs, "03.txt", "break me")
	write(t, fs, "readme.md", "not a prompt file")

	gen := &fakeGenerator{answer: func(req core.GenerateRequest) (string, error) {
		switch {
		case strings.HasPrefix(req.User, "fix"):
			return "fixed", nil
		case strings.HasPrefix(req.User, "break"):
			return "", errors.New("503")
		default:
			return req.User, nil
		}
	}}

	stats, err := newVerifier(fs, gen).VerifyFolder(context.Background(), "prompts", "Check.", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Count(Improved))
	assert.Equal(t, 1, stats.Count(Unchanged))
	assert.Equal(t, 1, stats.Count(Errors))
	assert.Equal(t, "fixed", read(t, fs, filepath.Join("prompts", "02.txt")))
	assert.Len(t, gen.requests, 3)
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a\n\tb   c\r\n"))
	assert.Equal(t, "", NormalizeWhitespace(" \n "))
}
