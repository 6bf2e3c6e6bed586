// ABOUTME: App wiring scan, extraction, graph building and DOT emission into one run.
// ABOUTME: Each run gets a ULID, logs its warnings through slog and returns them in a Result.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/course"
	"github.com/2389-research/coursemap/depgraph"
	"github.com/2389-research/coursemap/dot"
	"github.com/2389-research/coursemap/dot/validator"
	"github.com/2389-research/coursemap/frontmatter"
	"github.com/2389-research/coursemap/logging"
	"github.com/2389-research/coursemap/render"
	"github.com/2389-research/coursemap/scan"
	"github.com/oklog/ulid/v2"
)

// App runs the course map pipeline for one configuration.
type App struct {
	cfg       *config.Config
	extractor *frontmatter.Extractor
	renderer  render.Renderer
	logger    *slog.Logger
	workers   int
	newID     func() ulid.ULID
}

// Option configures an App.
type Option func(*App)

// WithRenderer sets the renderer used for non-text formats.
func WithRenderer(r render.Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithLogger sets the logger; nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = logging.OrDiscard(l) }
}

// WithWorkers bounds parallel extraction. Values below one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *App) { a.workers = n }
}

// New returns an App for cfg. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:      cfg,
		renderer: render.NewGraphviz(""),
		logger:   logging.Discard(),
		workers:  runtime.GOMAXPROCS(0),
		newID:    ulid.Make,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.extractor = frontmatter.NewExtractor(cfg)
	return a
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Renderer returns the renderer used for non-text formats.
func (a *App) Renderer() render.Renderer { return a.renderer }

// Result is the outcome of one pipeline run.
type Result struct {
	RunID       ulid.ULID
	Root        string
	Scanned     int
	Documents   []course.Document // extracted documents in scan order
	Graph       *depgraph.Graph
	DOT         string
	Warnings    []course.Warning
	Diagnostics []dot.Diagnostic
}

// WarningCounts tallies the result's warnings by kind.
func (r *Result) WarningCounts() map[course.WarningKind]int {
	return course.CountByKind(r.Warnings)
}

// ParseDocuments scans dir and extracts every candidate file. Files that fail
// to parse become warnings. It fails with DirectoryNotFoundError for a bad
// root and EmptyCorpusError when no document survives.
func (a *App) ParseDocuments(ctx context.Context, dir string) ([]course.Document, []course.Warning, error) {
	docs, warnings, _, err := a.parse(ctx, dir)
	return docs, warnings, err
}

func (a *App) parse(ctx context.Context, dir string) ([]course.Document, []course.Warning, int, error) {
	s, err := scan.New(dir, a.cfg.Ignore)
	if err != nil {
		return nil, nil, 0, err
	}
	paths, err := s.Files()
	if err != nil {
		return nil, nil, 0, err
	}
	a.logger.Debug("scanned directory", "root", dir, "files", len(paths))

	batch, err := a.extractor.ExtractAll(ctx, paths, a.workers)
	if err != nil {
		return nil, nil, len(paths), err
	}
	if len(batch.Documents) == 0 {
		return nil, batch.Warnings, len(paths), &course.EmptyCorpusError{
			Root:     dir,
			Scanned:  len(paths),
			Rejected: len(paths) - len(batch.Documents),
			Warnings: batch.Warnings,
		}
	}
	return batch.Documents, batch.Warnings, len(paths), nil
}

// Build runs scan, extraction, graph building and emission for dir. On
// failure the partial Result is still returned so callers can report the
// warnings gathered before the error.
func (a *App) Build(ctx context.Context, dir string) (*Result, error) {
	res := &Result{RunID: a.newID(), Root: dir}
	log := a.logger.With("run_id", res.RunID.String())

	docs, warnings, scanned, err := a.parse(ctx, dir)
	res.Scanned = scanned
	res.Warnings = warnings
	if err != nil {
		a.logWarnings(log, res.Warnings)
		log.Error("pipeline failed", "root", dir, "error", err)
		return res, err
	}
	res.Documents = docs

	g, graphWarnings, err := depgraph.Build(docs, a.cfg.Phases)
	res.Warnings = append(res.Warnings, graphWarnings...)
	if err != nil {
		a.logWarnings(log, res.Warnings)
		log.Error("pipeline failed", "root", dir, "error", err)
		return res, err
	}
	res.Graph = g

	ast := render.ToGraph(g, a.cfg.Phases, a.cfg.GraphName())
	res.DOT = dot.Serialize(ast)
	res.Diagnostics = validator.Lint(ast)
	if validator.HasErrors(res.Diagnostics) {
		for _, d := range res.Diagnostics {
			if d.Severity == "error" {
				log.Error("emitted graph failed lint", "rule", d.Rule, "message", d.Message)
			}
		}
	}

	a.logWarnings(log, res.Warnings)
	log.Info("course map built",
		"root", dir,
		"files", scanned,
		"documents", g.Len(),
		"edges", len(g.Edges()),
		"roots", len(g.Roots()),
		"warnings", len(res.Warnings),
	)
	return res, nil
}

func (a *App) logWarnings(log *slog.Logger, warnings []course.Warning) {
	for _, w := range warnings {
		attrs := []any{"kind", string(w.Kind), "file", w.FilePath}
		if w.DocumentID != "" {
			attrs = append(attrs, "id", w.DocumentID)
		}
		if w.Reference != "" {
			attrs = append(attrs, "ref", w.Reference)
		}
		log.Warn(w.Message, attrs...)
	}
}
