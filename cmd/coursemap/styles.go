// ABOUTME: lipgloss styles and printers for CLI status lines, warnings and run summaries.
// ABOUTME: Styles degrade to plain text when the output is not a color terminal.
package main

import (
	"fmt"
	"strings"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/course"
	"github.com/2389-research/coursemap/pipeline"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// styleForKind returns the style used to tag a warning of the given kind.
func styleForKind(kind course.WarningKind) lipgloss.Style {
	switch kind {
	case course.WarningParse:
		return errorStyle
	case course.WarningCycle:
		return warningStyle
	default:
		return labelStyle
	}
}

// printWarnings writes one styled line per warning to the error stream.
func (c *cli) printWarnings(warnings []course.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(c.errOut, warningStyle.Render(fmt.Sprintf("%d warning(s):", len(warnings))))
	for _, w := range warnings {
		line := "  " + styleForKind(w.Kind).Render(string(w.Kind))
		if w.FilePath != "" {
			line += " " + mutedStyle.Render(w.FilePath)
		}
		line += ": " + w.Message
		fmt.Fprintln(c.errOut, line)
	}
	fmt.Fprintln(c.errOut)
}

// summaryLine describes a finished run in one line.
func summaryLine(res *pipeline.Result) string {
	counts := res.WarningCounts()
	var parts []string
	for _, kind := range []course.WarningKind{
		course.WarningParse,
		course.WarningDuplicateID,
		course.WarningUnresolvedReference,
		course.WarningCycle,
	} {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
		}
	}
	line := fmt.Sprintf("%d documents, %d edges, %d warnings", res.Graph.Len(), len(res.Graph.Edges()), len(res.Warnings))
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	return mutedStyle.Render(line + " run " + res.RunID.String())
}

// printConfigSummary mirrors the effective configuration in verbose mode.
func (c *cli) printConfigSummary(cfg *config.Config) {
	source := cfg.Source
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintln(c.out, titleStyle.Render("Loaded configuration:"))
	fmt.Fprintf(c.out, "  %s %s\n", labelStyle.Render("Source:"), source)
	fmt.Fprintf(c.out, "  %s %s\n", labelStyle.Render("Root key:"), cfg.RootKey)
	fmt.Fprintf(c.out, "  %s %s\n", labelStyle.Render("Phases:"), strings.Join(cfg.Phases.Names(), ", "))
	fmt.Fprintf(c.out, "  %s %s\n\n", labelStyle.Render("Ignore patterns:"), strings.Join(cfg.Ignore, ", "))
}
