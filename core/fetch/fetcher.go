// Package fetch implements the Fetcher interface.
// Sources are local files (read through afero) or http(s) URLs; the raw
// bytes must be valid UTF-8 and their MIME type is sniffed so that HTML can
// be routed through extraction.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/spf13/afero"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "chunkpipe/1.0 (https://github.com/gaurav-prasanna/chunkpipe)"
)

// ErrNotUTF8 is returned for sources that do not decode as UTF-8.
var ErrNotUTF8 = errors.New("source is not valid UTF-8")

// ErrNotFound is returned when a local source file does not exist.
var ErrNotFound = errors.New("source not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HTTPFetcher fetches sources via HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher with a sensible timeout.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch retrieves the body of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/plain,text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return decode(url, body)
}

// FileFetcher reads sources from a filesystem.
type FileFetcher struct {
	fs afero.Fs
}

// NewFile creates a FileFetcher over fs.
func NewFile(fs afero.Fs) *FileFetcher {
	return &FileFetcher{fs: fs}
}

// Fetch reads the file at path. The context is unused; reads are local.
func (f *FileFetcher) Fetch(_ context.Context, path string) (*core.Source, error) {
	data, err := afero.ReadFile(f.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(path, data)
}

// AutoFetcher dispatches URLs to HTTP and everything else to the filesystem.
type AutoFetcher struct {
	http core.Fetcher
	file core.Fetcher
}

// NewAuto creates an AutoFetcher reading local files from fs.
func NewAuto(fs afero.Fs) *AutoFetcher {
	return &AutoFetcher{http: New(), file: NewFile(fs)}
}

// Fetch implements core.Fetcher.
func (a *AutoFetcher) Fetch(ctx context.Context, location string) (*core.Source, error) {
	if IsURL(location) {
		return a.http.Fetch(ctx, location)
	}
	return a.file.Fetch(ctx, location)
}

// IsURL reports whether location is an http(s) URL.
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsHTML reports whether the source was detected as HTML.
func IsHTML(src *core.Source) bool {
	return mimetype.Lookup("text/html").Is(src.ContentType)
}

func decode(location string, data []byte) (*core.Source, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrNotUTF8, location)
	}
	return &core.Source{
		Location:    location,
		ContentType: mimetype.Detect(data).String(),
		Text:        string(data),
	}, nil
}
