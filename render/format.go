// ABOUTME: Output formats understood by the renderer and helpers to derive them from flags and paths.
// ABOUTME: "dot" is text produced in-process; svg, png and pdf require Graphviz.
package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output format accepted by a Renderer.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// ParseFormat validates s (case-insensitive, a leading dot is accepted).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	case "gv":
		return FormatDOT, nil
	}
	return "", fmt.Errorf("unsupported format %q: supported formats are dot, svg, png, pdf", s)
}

// FormatFromPath derives the format from an output file extension, falling
// back to svg when the extension is missing or unknown.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatSVG
}

// IsText reports whether the format is produced without Graphviz.
func (f Format) IsText() bool { return f == FormatDOT }

// ContentType returns the MIME type for HTTP responses.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

func (f Format) String() string { return string(f) }
