// ABOUTME: Serializer that converts an ordered Graph AST to DOT source text.
// ABOUTME: Output is byte-for-byte reproducible: statement order follows the AST, attribute keys are sorted.
package dot

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// keywords are reserved in DOT and must be quoted when used as IDs.
var keywords = map[string]bool{
	"node":     true,
	"edge":     true,
	"graph":    true,
	"digraph":  true,
	"subgraph": true,
	"strict":   true,
}

// Serialize converts a Graph AST to a DOT-formatted string. Nodes and edges
// are written in the order they were added; attributes within each element
// are sorted by key.
func Serialize(g *Graph) string {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %s {\n", quoteValue(g.Name))

	// Graph attributes
	if len(g.Attrs) > 0 {
		fmt.Fprintf(&b, "  graph [%s]\n", formatAttrs(g.Attrs))
	}

	// Node defaults
	if len(g.NodeDefaults) > 0 {
		fmt.Fprintf(&b, "  node [%s]\n", formatAttrs(g.NodeDefaults))
	}

	// Edge defaults
	if len(g.EdgeDefaults) > 0 {
		fmt.Fprintf(&b, "  edge [%s]\n", formatAttrs(g.EdgeDefaults))
	}

	// Blank line after defaults if any were emitted
	if len(g.Attrs) > 0 || len(g.NodeDefaults) > 0 || len(g.EdgeDefaults) > 0 {
		b.WriteString("\n")
	}

	for _, node := range g.Nodes {
		if len(node.Attrs) > 0 {
			fmt.Fprintf(&b, "  %s [%s]\n", quoteValue(node.ID), formatAttrs(node.Attrs))
		} else {
			fmt.Fprintf(&b, "  %s\n", quoteValue(node.ID))
		}
	}

	// Blank line before edges if there are nodes
	if len(g.Nodes) > 0 && len(g.Edges) > 0 {
		b.WriteString("\n")
	}

	for _, e := range g.Edges {
		if len(e.Attrs) > 0 {
			fmt.Fprintf(&b, "  %s -> %s [%s]\n", quoteValue(e.From), quoteValue(e.To), formatAttrs(e.Attrs))
		} else {
			fmt.Fprintf(&b, "  %s -> %s\n", quoteValue(e.From), quoteValue(e.To))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// formatAttrs renders a map of key=value pairs as a comma-separated string with sorted keys.
func formatAttrs(attrs map[string]string) string {
	keys := sortedKeys(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", quoteValue(k), quoteValue(attrs[k])))
	}
	return strings.Join(parts, ", ")
}

// quoteValue returns a DOT-safe representation of a value.
// Simple identifiers (lowercase letters, digits, underscores, not starting
// with a digit) and numerals are returned bare. Everything else, including
// DOT keywords, is double-quoted with escaping.
func quoteValue(val string) string {
	if val == "" {
		return `""`
	}

	if isBareIdentifier(val) {
		return val
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, ch := range val {
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// isBareIdentifier returns true if val can be represented without quotes in DOT.
func isBareIdentifier(val string) bool {
	if val == "" {
		return false
	}

	if isNumeric(val) {
		return true
	}

	if keywords[strings.ToLower(val)] {
		return false
	}

	for i, ch := range val {
		if i == 0 && unicode.IsDigit(ch) {
			return false
		}
		if ch != '_' && !unicode.IsLower(ch) && !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

// isNumeric returns true if val looks like a number (integer or float, possibly negative).
func isNumeric(val string) bool {
	if val == "" {
		return false
	}
	start := 0
	if val[0] == '-' {
		if len(val) == 1 {
			return false
		}
		start = 1
	}
	hasDot := false
	hasDigit := false
	for i := start; i < len(val); i++ {
		ch := val[i]
		if ch == '.' {
			if hasDot {
				return false
			}
			hasDot = true
		} else if ch >= '0' && ch <= '9' {
			hasDigit = true
		} else {
			return false
		}
	}
	return hasDigit
}

// sortedKeys returns the keys of a map in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return []string{}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
