package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/chunkpipe/core"
)

// ForPath picks a renderer from the report file's extension.
func ForPath(path string) (core.Renderer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONRenderer(), nil
	case ".md", ".markdown":
		return NewMarkdownRenderer(), nil
	case ".pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q (use .json, .md or .pdf)", filepath.Ext(path))
	}
}
