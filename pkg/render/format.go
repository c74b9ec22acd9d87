package render

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/obsexport/pkg/errors"
)

// Format is an output form of an exported notebook.
type Format string

const (
	FormatJS       Format = "js"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatDOT      Format = "dot"
	FormatSVG      Format = "svg"
	FormatRaw      Format = "raw"
)

// Formats lists every supported format.
var Formats = []Format{FormatJS, FormatMarkdown, FormatJSON, FormatDOT, FormatSVG, FormatRaw}

var formatAliases = map[string]Format{
	"ojs":      FormatRaw,
	"mjs":      FormatJS,
	"markdown": FormatMarkdown,
	"gv":       FormatDOT,
}

// ParseFormat returns the format named s. Matching is case-insensitive and
// accepts the aliases ojs (raw), mjs (js), markdown and gv (dot).
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported output format %q (want one of js, md, json, dot, svg, raw)", s)
}

// FormatFromPath infers the format from the extension of path. It returns
// false when the path has no extension or the extension is unknown.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// ContentType returns the MIME type of the rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatJS, FormatRaw:
		return "text/javascript; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}
