// ABOUTME: Output side of the pipeline: rendering a built map and writing it to disk atomically.
// ABOUTME: Also provides string helpers for embedding the map as DOT text or inline SVG.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2389-research/coursemap/render"
)

// Render builds the map for dir and converts it to format. Text formats never
// touch the renderer.
func (a *App) Render(ctx context.Context, dir string, format render.Format) ([]byte, *Result, error) {
	res, err := a.Build(ctx, dir)
	if err != nil {
		return nil, res, err
	}
	if format.IsText() {
		return []byte(res.DOT), res, nil
	}
	data, err := a.renderer.Render(ctx, []byte(res.DOT), format)
	if err != nil {
		a.logger.Error("render failed", "run_id", res.RunID.String(), "format", string(format), "error", err)
		return nil, res, err
	}
	return data, res, nil
}

// Run builds, renders and writes the map to outputPath. Nothing is written
// when any stage fails.
func (a *App) Run(ctx context.Context, dir, outputPath string, format render.Format) (*Result, error) {
	data, res, err := a.Render(ctx, dir, format)
	if err != nil {
		return res, err
	}
	if err := writeFileAtomic(outputPath, data); err != nil {
		return res, fmt.Errorf("write %s: %w", outputPath, err)
	}
	a.logger.Info("course map written", "run_id", res.RunID.String(), "output", outputPath, "format", string(format), "bytes", len(data))
	return res, nil
}

// DOTString returns the DOT text for dir.
func (a *App) DOTString(ctx context.Context, dir string) (string, error) {
	res, err := a.Build(ctx, dir)
	if err != nil {
		return "", err
	}
	return res.DOT, nil
}

// InlineSVG returns the rendered SVG for dir with the XML prolog and doctype
// removed so it can be embedded directly in HTML.
func (a *App) InlineSVG(ctx context.Context, dir string) (string, error) {
	data, _, err := a.Render(ctx, dir, render.FormatSVG)
	if err != nil {
		return "", err
	}
	return string(StripSVGProlog(data)), nil
}

// StripSVGProlog drops everything before the opening <svg element.
func StripSVGProlog(data []byte) []byte {
	if i := bytes.Index(data, []byte("<svg")); i > 0 {
		return data[i:]
	}
	return data
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".coursemap-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
