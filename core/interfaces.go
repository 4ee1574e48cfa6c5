// Package core defines the pipeline interfaces for chunkpipe.
// Each stage around the chunker is a clean, testable interface.
package core

import (
	"context"
	"time"
)

// Source holds the text read from a source location.
type Source struct {
	Location    string
	ContentType string // detected MIME type of the raw bytes
	Text        string
}

// ChunkInfo describes one written chunk.
type ChunkInfo struct {
	Index  int    `json:"index"` // 1-based
	File   string `json:"file"`
	Length int    `json:"length"` // characters
	Text   string `json:"-"`
}

// SplitReport summarizes one split run.
type SplitReport struct {
	Source       string      `json:"source"`
	MaxSize      int         `json:"max_size"`
	Tolerance    float64     `json:"tolerance"`
	MinThreshold float64     `json:"min_threshold"`
	MaxAllowed   int         `json:"max_allowed"`
	MinSize      int         `json:"min_size"`
	Merged       int         `json:"merged"`
	Chunks       []ChunkInfo `json:"chunks"`
	CreatedAt    time.Time   `json:"created_at"`
}

// GenerateRequest is one call to a text-generation service.
type GenerateRequest struct {
	System      string
	User        string
	Model       string
	Temperature float64
}

// Fetcher reads raw source bytes from a location (file path or URL).
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*Source, error)
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts cleaned HTML into Markdown text.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Generator sends a prompt to a text-generation service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Renderer converts a split report into a file format.
type Renderer interface {
	Render(report SplitReport) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".json").
	Extension() string
}
