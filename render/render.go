// ABOUTME: Rendering boundary: the Renderer interface and the Graphviz implementation that shells out to dot.
// ABOUTME: Renderer failures are reported as *RenderError, which wraps ErrRender and carries dot's stderr.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the Graphviz executable looked up on PATH.
const DefaultBinary = "dot"

// ErrRender is the sentinel wrapped by every RenderError.
var ErrRender = errors.New("render failed")

// ErrGraphvizNotFound reports that the Graphviz binary is not installed.
var ErrGraphvizNotFound = errors.New("graphviz dot command not found")

// InstallHint is shown when a non-text format is requested without Graphviz.
const InstallHint = `install Graphviz to render svg, png or pdf output:
  macOS: brew install graphviz
  Ubuntu/Debian: sudo apt-get install graphviz
  Windows: https://graphviz.org/download/
or use --format dot to write the graph description only`

// Renderer turns DOT text into the requested output format.
type Renderer interface {
	Render(ctx context.Context, dotText []byte, format Format) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, dotText []byte, format Format) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, dotText []byte, format Format) ([]byte, error) {
	return f(ctx, dotText, format)
}

// RenderError describes a failed external renderer invocation.
type RenderError struct {
	Format Format
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %s", e.Format)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *RenderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRender}
	}
	return []error{ErrRender, e.Err}
}

// Graphviz renders by piping DOT text to the dot command.
type Graphviz struct {
	// Binary is the executable name or path; empty means DefaultBinary.
	Binary string
}

// NewGraphviz returns a Graphviz renderer for binary, or DefaultBinary when empty.
func NewGraphviz(binary string) *Graphviz {
	return &Graphviz{Binary: binary}
}

func (g *Graphviz) binary() string {
	if g == nil || g.Binary == "" {
		return DefaultBinary
	}
	return g.Binary
}

// Available checks whether the dot command is installed and reachable.
func (g *Graphviz) Available() bool {
	_, err := exec.LookPath(g.binary())
	return err == nil
}

// Version returns the version line reported by dot -V (which writes to stderr).
func (g *Graphviz) Version(ctx context.Context) (string, error) {
	path, err := exec.LookPath(g.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGraphvizNotFound, g.binary())
	}
	cmd := exec.CommandContext(ctx, path, "-V")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("graphviz version probe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseVersion(stderr.String() + stdout.String()), nil
}

// parseVersion extracts "graphviz version X" from dot -V output, or returns
// the first non-empty line when the expected phrase is missing.
func parseVersion(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(strings.ToLower(line), "graphviz version"); i >= 0 {
			return line[i:]
		}
		return line
	}
	return ""
}

// Render returns dotText unchanged for FormatDOT and otherwise runs
// dot -T<format> with dotText on stdin.
func (g *Graphviz) Render(ctx context.Context, dotText []byte, format Format) ([]byte, error) {
	if len(dotText) == 0 {
		return nil, &RenderError{Format: format, Err: errors.New("empty DOT text")}
	}
	if format.IsText() {
		return dotText, nil
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, &RenderError{Format: format, Err: err}
	}

	path, err := exec.LookPath(g.binary())
	if err != nil {
		return nil, &RenderError{Format: format, Err: fmt.Errorf("%w: %s", ErrGraphvizNotFound, g.binary())}
	}

	cmd := exec.CommandContext(ctx, path, "-T"+string(format))
	cmd.Stdin = bytes.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &RenderError{Format: format, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}
