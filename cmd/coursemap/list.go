// ABOUTME: list subcommand printing the parsed documents as a go-pretty table or JSON.
// ABOUTME: Rows follow the graph's output order and include each document's depth in the study order.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/2389-research/coursemap/course"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type listEntry struct {
	course.Document
	Depth int
}

func (c *cli) listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the course documents found in the input directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			res, err := c.pipeline(cfg, c.logger()).Build(cmd.Context(), c.input)
			if res != nil {
				c.printWarnings(res.Warnings)
			}
			if err != nil {
				return err
			}

			docs := res.Graph.Nodes()
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			}

			depth := res.Graph.Depth()
			entries := make([]listEntry, len(docs))
			for i, d := range docs {
				entries[i] = listEntry{Document: d, Depth: depth[d.ID()]}
			}
			fmt.Fprint(c.out, renderTable(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print documents as JSON")
	return cmd
}

// renderTable formats entries with the rounded go-pretty style.
func renderTable(entries []listEntry) string {
	if len(entries) == 0 {
		return text.FgYellow.Sprint("No documents found") + "\n"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("ID"),
		text.FgHiCyan.Sprint("TITLE"),
		text.FgHiCyan.Sprint("PHASE"),
		text.FgHiCyan.Sprint("DEPTH"),
		text.FgHiCyan.Sprint("PREREQUISITES"),
		text.FgHiCyan.Sprint("FILE"),
	})
	for _, e := range entries {
		prereqs := "-"
		if e.NumPrerequisites() > 0 {
			prereqs = strings.Join(e.Prerequisites(), ", ")
		}
		t.AppendRow(table.Row{
			e.ID(),
			e.Title(),
			e.Phase(),
			strconv.Itoa(e.Depth),
			prereqs,
			e.FilePath(),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", text.FgHiBlue.Sprint("Total:"), len(entries)})
	return t.Render() + "\n"
}
