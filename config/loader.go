package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
)

// EnvPrefix is stripped from environment variables: CHUNKPIPE_CHUNK_SIZE → chunk_size.
const EnvPrefix = "CHUNKPIPE_"

// groqKeyEnv is honoured as the API key when CHUNKPIPE_API_KEY is not set.
const groqKeyEnv = "GROQ_API_KEY"

// ErrNotFound is returned when the configuration document does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Loader reads configuration through an afero filesystem.
type Loader struct {
	fs      afero.Fs
	environ func() []string
}

// NewLoader creates a Loader that reads files from fs and the process environment.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs, environ: os.Environ}
}

// WithEnviron replaces the environment source, mainly for tests.
func (l *Loader) WithEnviron(environ func() []string) *Loader {
	l.environ = environ
	return l
}

// Load builds the effective configuration. A missing document at path is
// reported as ErrNotFound only when required is true; otherwise defaults are
// used. overrides are applied last and use document keys (e.g. "chunk_size").
func (l *Loader) Load(path string, required bool, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	doc, err := ReadDocument(l.fs, path)
	switch {
	case errors.Is(err, ErrNotFound) && !required:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawMap(doc), nil); err != nil {
			return nil, fmt.Errorf("applying %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: l.envTransform(),
		EnvironFunc:   l.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(rawMap(overrides), nil); err != nil {
			return nil, fmt.Errorf("applying overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) envTransform() func(key, value string) (string, any) {
	ownKey := false
	for _, kv := range l.environ() {
		if strings.HasPrefix(kv, EnvPrefix+"API_KEY=") {
			ownKey = true
			break
		}
	}
	return func(key, value string) (string, any) {
		switch {
		case strings.HasPrefix(key, EnvPrefix):
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		case key == groqKeyEnv && !ownKey:
			return "api_key", value
		default:
			return "", nil
		}
	}
}

// Validate checks value ranges on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ReadDocument decodes the JSON document at path into a generic map so that
// keys this package does not know about survive a later Save.
func ReadDocument(fs afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// SaveDocument writes doc as indented JSON, keeping non-ASCII text readable.
func SaveDocument(fs afero.Fs, path string, doc map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// EnsureChunkerSettings adds any missing chunker keys to the document at
// path with their default values and saves it. It returns the keys added.
// A missing document is left alone.
func EnsureChunkerSettings(fs afero.Fs, path string) ([]string, error) {
	doc, err := ReadDocument(fs, path)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	def := Default()
	defaults := map[string]any{
		"source_text_file":    def.SourceTextFile,
		"chunk_size":          def.ChunkSize,
		"chunk_tolerance":     def.ChunkTolerance,
		"chunk_min_threshold": def.ChunkMinThreshold,
	}

	var added []string
	for key, value := range defaults {
		if _, ok := doc[key]; !ok {
			doc[key] = value
			added = append(added, key)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}
	sort.Strings(added)

	if err := SaveDocument(fs, path, doc); err != nil {
		return nil, err
	}
	return added, nil
}

// rawMap feeds an already decoded map into koanf.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not implemented")
}
