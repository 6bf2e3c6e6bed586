// ABOUTME: Long help text for the coursemap CLI with document format notes and environment status.
// ABOUTME: Reports whether Graphviz and the config override variable are available.
package main

import (
	"fmt"
	"strings"
)

// longHelp builds the root command's long description.
func longHelp(c *cli) string {
	var b strings.Builder
	b.WriteString(`coursemap scans a directory of Quarto/Markdown documents, reads the
prerequisite metadata in each file's YAML header and writes a Graphviz
map of the course.

Each document may declare, at the top level or under the root key
(default "course-map"):

  ---
  id: week-2
  title: Loops and Conditionals
  phase: InClass
  prerequisites: [week-1]
  ---

Documents that fail to parse, duplicate ids, unknown prerequisites and
prerequisite cycles are reported as warnings and left out of the map.
`)

	b.WriteString("\nEnvironment:\n")
	fmt.Fprintf(&b, "  %-20s %s\n", EnvConfig, envStatus(c.getenv(EnvConfig)))
	fmt.Fprintf(&b, "  %-20s %s\n", EnvGraphviz, envStatus(c.getenv(EnvGraphviz)))
	fmt.Fprintf(&b, "  %-20s %s\n", "graphviz", graphvizStatus(c.graphvizRenderer()))
	return b.String()
}

// envStatus describes an environment variable's value for help output.
func envStatus(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
