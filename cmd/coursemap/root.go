// ABOUTME: cobra root command that generates a course map, plus exit code mapping for every subcommand.
// ABOUTME: Exit codes: 0 success, 1 fatal error, 2 usage error, 3 warnings under --strict.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/logging"
	"github.com/2389-research/coursemap/pipeline"
	"github.com/2389-research/coursemap/render"
	"github.com/2389-research/coursemap/scan"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess  = 0
	ExitCodeError    = 1
	ExitCodeUsage    = 2
	ExitCodeWarnings = 3
)

// Environment variables read by the CLI.
const (
	EnvConfig   = "COURSEMAP_CONFIG"
	EnvGraphviz = "COURSEMAP_GRAPHVIZ"
)

// cli carries the streams and collaborators shared by every command.
type cli struct {
	out      io.Writer
	errOut   io.Writer
	version  string
	getenv   func(string) string
	renderer render.Renderer // nil selects Graphviz
	graphviz *render.Graphviz

	// persistent flags
	input   string
	cfgPath string
	verbose bool
	workers int
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{out: out, errOut: errOut, version: version, getenv: os.Getenv}
}

// usageError marks errors caused by invalid invocation.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// strictError reports warnings that fail a --strict run.
type strictError struct{ count int }

func (e *strictError) Error() string {
	return fmt.Sprintf("%d warning(s) reported with --strict", e.count)
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// exitCode determines the exit code for an error returned by a command.
func exitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return ExitCodeUsage
	}
	var strict *strictError
	if errors.As(err, &strict) {
		return ExitCodeWarnings
	}
	return ExitCodeError
}

// execute runs the command tree with args and returns the process exit code.
func execute(ctx context.Context, c *cli, args []string) int {
	cmd := c.rootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		var strict *strictError
		if !errors.As(err, &strict) {
			fmt.Fprintln(c.errOut, errorStyle.Render("Error: ")+err.Error())
			if hint := hintFor(err); hint != "" {
				fmt.Fprintln(c.errOut, hintStyle.Render(hint))
			}
		}
	}
	return exitCode(err)
}

func (c *cli) rootCmd() *cobra.Command {
	var (
		output string
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "coursemap",
		Short: "Visualize course dependencies from Quarto/Markdown documents",
		Long:  longHelp(c),
		Example: `  coursemap -i course -o course_map.svg
  coursemap -i course -o map.dot
  coursemap -i course -f png -o map.png --strict
  coursemap list -i course
  coursemap serve -i course --addr 127.0.0.1:8080`,
		Version:       c.version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.generate(cmd.Context(), output, format, strict)
		},
	}
	cmd.SetOut(c.out)
	cmd.SetErr(c.errOut)
	cmd.SetVersionTemplate(`{{printf "coursemap version %s\n" .Version}}`)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &usageError{err} })

	pf := cmd.PersistentFlags()
	pf.StringVarP(&c.input, "input", "i", ".", "directory containing course documents")
	pf.StringVarP(&c.cfgPath, "config", "c", "", "configuration file (default: search, or $"+EnvConfig+")")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")
	pf.IntVar(&c.workers, "workers", 0, "parallel extraction workers (default: number of CPUs)")

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "course_map.svg", "output file")
	f.StringVarP(&format, "format", "f", "", "output format: dot, svg, png, pdf (default: from output extension)")
	f.BoolVar(&strict, "strict", false, "exit with code 3 when any warning is reported")

	cmd.AddCommand(
		c.listCmd(),
		c.checkGraphvizCmd(),
		c.serveCmd(),
		c.configCmd(),
		c.versionCmd(),
	)
	return cmd
}

// generate writes the course map for the input directory.
func (c *cli) generate(ctx context.Context, output, formatFlag string, strict bool) error {
	format := render.FormatFromPath(output)
	if formatFlag != "" {
		f, err := render.ParseFormat(formatFlag)
		if err != nil {
			return &usageError{err}
		}
		format = f
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := c.logger()

	if c.verbose {
		c.printConfigSummary(cfg)
	}
	if !format.IsText() && c.renderer == nil {
		gv := c.graphvizRenderer()
		if !gv.Available() {
			return fmt.Errorf("cannot generate %s format: %w", format, render.ErrGraphvizNotFound)
		}
		if c.verbose {
			if v, err := gv.Version(ctx); err == nil {
				fmt.Fprintf(c.out, "%s %s\n\n", labelStyle.Render("Graphviz:"), v)
			}
		}
	}

	fmt.Fprintf(c.out, "%s %s\n", labelStyle.Render("Scanning directory:"), c.input)
	fmt.Fprintf(c.out, "%s %s\n", labelStyle.Render("Output file:"), output)
	fmt.Fprintf(c.out, "%s %s\n\n", labelStyle.Render("Format:"), format)

	app := c.pipeline(cfg, logger)
	res, err := app.Run(ctx, c.input, output, format)
	if res != nil {
		c.printWarnings(res.Warnings)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, successStyle.Render("Course map generated successfully!"))
	fmt.Fprintf(c.out, "%s\n", summaryLine(res))

	if strict && len(res.Warnings) > 0 {
		return &strictError{count: len(res.Warnings)}
	}
	return nil
}

// loadConfig resolves the configuration and checks it before any stage runs.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := c.findConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", cfg.Source, err)
	}
	return cfg, nil
}

// findConfig tries --config, then $COURSEMAP_CONFIG, then the default search
// in the working directory and the input directory.
func (c *cli) findConfig() (*config.Config, error) {
	path := c.cfgPath
	if path == "" {
		path = c.getenv(EnvConfig)
	}
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.LoadDefault(".")
	if err != nil {
		return nil, err
	}
	if cfg.Source == "" && c.input != "" && c.input != "." {
		return config.LoadDefault(c.input)
	}
	return cfg, nil
}

// logger returns a debug logger in verbose mode; otherwise warnings reach
// the user through printWarnings only.
func (c *cli) logger() *slog.Logger {
	if !c.verbose {
		return logging.Discard()
	}
	return logging.New(c.errOut, true, false)
}

func (c *cli) graphvizRenderer() *render.Graphviz {
	if c.graphviz == nil {
		c.graphviz = render.NewGraphviz(c.getenv(EnvGraphviz))
	}
	return c.graphviz
}

func (c *cli) pipeline(cfg *config.Config, logger *slog.Logger) *pipeline.App {
	var r render.Renderer = c.renderer
	if r == nil {
		r = c.graphvizRenderer()
	}
	return pipeline.New(cfg,
		pipeline.WithRenderer(r),
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(c.workers),
	)
}

// hintFor returns follow-up advice for common failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, render.ErrGraphvizNotFound):
		return render.InstallHint
	case errors.Is(err, render.ErrRender):
		return "Try using --format dot to generate DOT format without Graphviz."
	case scan.IsNotFound(err):
		return "Make sure the input directory exists and contains course documents."
	}
	return ""
}
