// Package render provides split report renderers.
// This file implements the Markdown renderer; the PDF renderer lays out
// the same Markdown.
package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/chunkpipe/core"
)

const previewLength = 60

// MarkdownRenderer writes the report as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render implements core.Renderer.
func (r *MarkdownRenderer) Render(report core.SplitReport) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Split report\n\n")
	fmt.Fprintf(&b, "Source: `%s`\n\n", report.Source)
	fmt.Fprintf(&b, "Created: %s\n\n", report.CreatedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Parameters\n\n")
	fmt.Fprintf(&b, "- Target size: %d characters\n", report.MaxSize)
	fmt.Fprintf(&b, "- Tolerance: %.0f%% (max allowed %d)\n", report.Tolerance*100, report.MaxAllowed)
	fmt.Fprintf(&b, "- Min threshold: %.0f%% (min size %d)\n\n", report.MinThreshold*100, report.MinSize)

	b.WriteString("## Result\n\n")
	fmt.Fprintf(&b, "- Chunks: %d\n", len(report.Chunks))
	fmt.Fprintf(&b, "- Merged short chunks: %d\n\n", report.Merged)

	if len(report.Chunks) > 0 {
		b.WriteString("## Chunks\n\n")
		for _, c := range report.Chunks {
			fmt.Fprintf(&b, "%d. `%s` %d characters: %s\n", c.Index, filepath.Base(c.File), c.Length, preview(c.Text))
		}
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// preview is the first line of text cut to previewLength characters.
func preview(text string) string {
	line, _, cut := strings.Cut(text, "\n")
	runes := []rune(line)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "…"
	}
	if cut {
		return line + "…"
	}
	return line
}
