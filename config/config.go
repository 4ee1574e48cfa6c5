// Package config loads the chunkpipe configuration document.
//
// Values are layered in precedence order: built-in defaults, the JSON
// document on disk, CHUNKPIPE_* environment variables, then explicit
// overrides (CLI flags).
package config

import (
	"time"

	"github.com/gaurav-prasanna/chunkpipe/core/chunk"
)

// DefaultPath is the configuration document looked up when --config is not set.
const DefaultPath = "config.json"

// Config mirrors the JSON configuration document.
type Config struct {
	ChunkSize         int     `koanf:"chunk_size"          json:"chunk_size"          validate:"gt=0"`
	ChunkTolerance    float64 `koanf:"chunk_tolerance"     json:"chunk_tolerance"     validate:"gte=0"`
	ChunkMinThreshold float64 `koanf:"chunk_min_threshold" json:"chunk_min_threshold" validate:"gte=0,lt=1"`
	SourceTextFile    string  `koanf:"source_text_file"    json:"source_text_file"`
	ChunksFolder      string  `koanf:"chunks_folder"       json:"chunks_folder"       validate:"required"`
	PromptsFolder     string  `koanf:"prompts_folder"      json:"prompts_folder"      validate:"required"`
	Model             string  `koanf:"model"               json:"model"`
	Temperature       float64 `koanf:"temperature"         json:"temperature"         validate:"gte=0,lte=2"`
	SystemPrompt      string  `koanf:"system_prompt"       json:"system_prompt"`
	PromptsCount      int     `koanf:"prompts_count"       json:"prompts_count"       validate:"gt=0"`
	Delay             int     `koanf:"delay"               json:"delay"               validate:"gte=0"`
	BaseURL           string  `koanf:"base_url"            json:"base_url"            validate:"omitempty,url"`

	// APIKey comes from the environment only and is never written back.
	APIKey string `koanf:"api_key" json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ChunkSize:         chunk.DefaultMaxSize,
		ChunkTolerance:    chunk.DefaultTolerance,
		ChunkMinThreshold: chunk.DefaultMinThreshold,
		ChunksFolder:      "chunks",
		PromptsFolder:     "prompts",
		Model:             "meta-llama/llama-guard-4-12b",
		Temperature:       0.8,
		PromptsCount:      5,
		Delay:             1,
		BaseURL:           "https://api.groq.com/openai/v1",
	}
}

// ChunkParams returns the chunker parameters held by the document.
func (c *Config) ChunkParams() chunk.Params {
	return chunk.Params{
		MaxSize:      c.ChunkSize,
		Tolerance:    c.ChunkTolerance,
		MinThreshold: c.ChunkMinThreshold,
	}
}

// DelayDuration is the pause between two service calls.
func (c *Config) DelayDuration() time.Duration {
	return time.Duration(c.Delay) * time.Second
}
