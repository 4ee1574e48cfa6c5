package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() core.SplitReport {
	return core.SplitReport{
		Source:       "book.txt",
		MaxSize:      100,
		Tolerance:    0.1,
		MinThreshold: 0.5,
		MaxAllowed:   110,
		MinSize:      50,
		Merged:       1,
		Chunks: []core.ChunkInfo{
			{Index: 1, File: "chunks/01.txt", Length: 122, Text: strings.Repeat("x", 40) + "\nmore"},
			{Index: 2, File: "chunks/02.txt", Length: 70, Text: strings.Repeat("ы", 70)},
		},
		CreatedAt: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
}

func TestJSONRenderer(t *testing.T) {
	data, err := NewJSONRenderer().Render(sampleReport())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.EqualValues(t, 110, got["max_allowed"])
	assert.EqualValues(t, 1, got["merged"])
	chunks, ok := got["chunks"].([]any)
	require.True(t, ok)
	require.Len(t, chunks, 2)
	first := chunks[0].(map[string]any)
	assert.Equal(t, "chunks/01.txt", first["file"])
	assert.NotContains(t, first, "text")
	assert.Equal(t, ".json", NewJSONRenderer().Extension())

	t.Run("Should write an empty list for no chunks", func(t *testing.T) {
		data, err := NewJSONRenderer().Render(core.SplitReport{})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"chunks": []`)
	})
}

func TestMarkdownRenderer(t *testing.T) {
	data, err := NewMarkdownRenderer().Render(sampleReport())
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# Split report")
	assert.Contains(t, md, "Source: `book.txt`")
	assert.Contains(t, md, "Tolerance: 10% (max allowed 110)")
	assert.Contains(t, md, "Min threshold: 50% (min size 50)")
	assert.Contains(t, md, "Merged short chunks: 1")
	assert.Contains(t, md, "1. `01.txt` 122 characters: "+strings.Repeat("x", 40)+"…")
	assert.Contains(t, md, "2. `02.txt` 70 characters: "+strings.Repeat("ы", 60)+"…")
}

func TestPDFRenderer(t *testing.T) {
	data, err := NewPDFRenderer().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, ".pdf", NewPDFRenderer().Extension())
}

func TestForPath(t *testing.T) {
	for path, ext := range map[string]string{
		"report.json":      ".json",
		"out/REPORT.MD":    ".md",
		"x.markdown":       ".md",
		"split-report.pdf": ".pdf",
	} {
		r, err := ForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, ext, r.Extension(), path)
	}

	_, err := ForPath("report.docx")
	assert.Error(t, err)
}
