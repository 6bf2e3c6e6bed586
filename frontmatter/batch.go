// ABOUTME: Parallel per-file extraction bounded by an errgroup limit.
// ABOUTME: Results are re-joined in scan order; per-file failures become parse warnings.
package frontmatter

import (
	"context"
	"errors"
	"runtime"

	"github.com/2389-research/coursemap/course"
	"golang.org/x/sync/errgroup"
)

// Batch is the outcome of extracting a list of files.
type Batch struct {
	Documents []course.Document
	Warnings  []course.Warning
}

// ExtractAll extracts every path using up to workers goroutines (GOMAXPROCS
// when workers <= 0). Documents and warnings come back in the order of
// paths regardless of completion order. The only error returned is a
// context cancellation.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string, workers int) (Batch, error) {
	type slot struct {
		doc course.Document
		err *course.ParseError
	}
	results := make([]slot, len(paths))

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := e.ExtractFile(path)
			if err != nil {
				var perr *course.ParseError
				if !errors.As(err, &perr) {
					perr = &course.ParseError{FilePath: path, Reason: "extraction failed", Err: err}
				}
				results[i].err = perr
				return nil
			}
			results[i].doc = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	batch := Batch{Documents: make([]course.Document, 0, len(paths))}
	for _, r := range results {
		if r.err != nil {
			batch.Warnings = append(batch.Warnings, course.ParseWarning(r.err))
			continue
		}
		batch.Documents = append(batch.Documents, r.doc)
	}
	return batch, nil
}
