// Package render — JSON renderer.
// The JSON report is a machine-readable manifest of a split run: the
// parameters, derived bounds, merge count and one entry per chunk file.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/chunkpipe/core"
)

// JSONRenderer produces the JSON manifest.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render implements core.Renderer.
func (r *JSONRenderer) Render(report core.SplitReport) ([]byte, error) {
	if report.Chunks == nil {
		report.Chunks = []core.ChunkInfo{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
