// ABOUTME: Converts a validated course dependency graph into an ordered DOT AST and DOT text.
// ABOUTME: Node fill colors come from the phase table; statement order follows the graph's iteration order.
package render

import (
	"maps"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/depgraph"
	"github.com/2389-research/coursemap/dot"
)

// Layout defaults applied to every emitted map.
var (
	GraphAttrs   = map[string]string{"rankdir": "LR"}
	NodeDefaults = map[string]string{"shape": "box", "style": "rounded,filled", "fontname": "Helvetica"}
)

// ToGraph builds the DOT AST for g. Each document becomes one node labelled
// with its title and filled with its phase color; each retained edge points
// from prerequisite to dependent.
func ToGraph(g *depgraph.Graph, phases config.PhaseTable, name string) *dot.Graph {
	if name == "" {
		name = config.DefaultRootKey
	}
	out := dot.NewGraph(name)
	out.Attrs = maps.Clone(GraphAttrs)
	out.NodeDefaults = maps.Clone(NodeDefaults)

	if g == nil {
		return out
	}

	for _, d := range g.Nodes() {
		out.AddNode(&dot.Node{
			ID: d.ID(),
			Attrs: map[string]string{
				"label":     d.Title(),
				"fillcolor": phases.Color(d.Phase()),
			},
		})
	}
	for _, e := range g.Edges() {
		out.AddEdge(&dot.Edge{From: e.From, To: e.To})
	}
	return out
}

// Emit returns the DOT text for g. Identical inputs give byte-identical output.
func Emit(g *depgraph.Graph, phases config.PhaseTable, name string) string {
	return dot.Serialize(ToGraph(g, phases, name))
}
