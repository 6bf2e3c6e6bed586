// ABOUTME: Lint rules for emitted course map graphs covering structure, attributes and acyclicity.
// ABOUTME: Provides a single Lint(g) function that runs all checks and returns diagnostics in a stable order.
package validator

import (
	"fmt"
	"strings"

	"github.com/2389-research/coursemap/dot"
)

// validRankdirs is the set of valid rankdir attribute values.
var validRankdirs = map[string]bool{
	"LR": true,
	"TB": true,
	"RL": true,
	"BT": true,
}

// Lint runs all lint rules on the graph and returns any diagnostics found.
func Lint(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic

	diags = append(diags, checkDuplicateNodes(g)...)
	diags = append(diags, checkEdgeTargets(g)...)
	diags = append(diags, checkSelfLoops(g)...)
	diags = append(diags, checkDuplicateEdges(g)...)
	diags = append(diags, checkAcyclic(g)...)
	diags = append(diags, checkFillColor(g)...)
	diags = append(diags, checkLabels(g)...)
	diags = append(diags, checkRankdir(g)...)
	diags = append(diags, checkIsolated(g)...)

	return diags
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []dot.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

// checkDuplicateNodes flags node IDs declared more than once.
func checkDuplicateNodes(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			diags = append(diags, dot.Diagnostic{
				Severity: "error",
				Message:  fmt.Sprintf("node %q is declared more than once", n.ID),
				NodeID:   n.ID,
				Rule:     "unique_node",
			})
			continue
		}
		seen[n.ID] = true
	}
	return diags
}

// checkEdgeTargets verifies every edge references existing nodes.
func checkEdgeTargets(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, e := range g.Edges {
		if g.FindNode(e.From) == nil {
			diags = append(diags, dot.Diagnostic{
				Severity: "error",
				Message:  fmt.Sprintf("edge source %q does not exist", e.From),
				EdgeID:   e.StableID(),
				Rule:     "edge_target_exists",
			})
		}
		if g.FindNode(e.To) == nil {
			diags = append(diags, dot.Diagnostic{
				Severity: "error",
				Message:  fmt.Sprintf("edge target %q does not exist", e.To),
				EdgeID:   e.StableID(),
				Rule:     "edge_target_exists",
			})
		}
	}
	return diags
}

// checkSelfLoops flags edges where From == To.
func checkSelfLoops(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, e := range g.Edges {
		if e.From == e.To {
			diags = append(diags, dot.Diagnostic{
				Severity: "error",
				Message:  fmt.Sprintf("self-loop on node %q", e.From),
				EdgeID:   e.StableID(),
				Rule:     "self_loop",
			})
		}
	}
	return diags
}

// checkDuplicateEdges flags the same prerequisite edge emitted twice.
func checkDuplicateEdges(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	seen := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		id := e.StableID()
		if seen[id] {
			diags = append(diags, dot.Diagnostic{
				Severity: "warning",
				Message:  fmt.Sprintf("edge %s appears more than once", id),
				EdgeID:   id,
				Rule:     "unique_edge",
			})
			continue
		}
		seen[id] = true
	}
	return diags
}

// checkAcyclic reports one diagnostic per back-edge found by a depth-first
// walk over nodes in declaration order. Self-loops are left to checkSelfLoops.
func checkAcyclic(g *dot.Graph) []dot.Diagnostic {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.Nodes))
	var path []string
	var diags []dot.Diagnostic

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		path = append(path, id)
		for _, e := range g.OutgoingEdges(id) {
			if e.To == id {
				continue
			}
			switch state[e.To] {
			case active:
				start := 0
				for i, p := range path {
					if p == e.To {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), e.To)
				diags = append(diags, dot.Diagnostic{
					Severity: "error",
					Message:  fmt.Sprintf("cycle %s", strings.Join(cycle, " -> ")),
					EdgeID:   e.StableID(),
					Rule:     "acyclic",
				})
			case unvisited:
				visit(e.To)
			}
		}
		path = path[:len(path)-1]
		state[id] = done
	}

	for _, id := range g.NodeIDs() {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return diags
}

// checkFillColor verifies every node carries a fillcolor, either directly
// or through the node defaults.
func checkFillColor(g *dot.Graph) []dot.Diagnostic {
	if g.NodeDefaults["fillcolor"] != "" {
		return nil
	}
	var diags []dot.Diagnostic
	for _, n := range g.Nodes {
		if n.Attrs["fillcolor"] == "" {
			diags = append(diags, dot.Diagnostic{
				Severity: "warning",
				Message:  fmt.Sprintf("node %q has no fillcolor", n.ID),
				NodeID:   n.ID,
				Rule:     "fillcolor",
			})
		}
	}
	return diags
}

// checkLabels flags nodes without a label.
func checkLabels(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, n := range g.Nodes {
		if strings.TrimSpace(n.Attrs["label"]) == "" {
			diags = append(diags, dot.Diagnostic{
				Severity: "info",
				Message:  fmt.Sprintf("node %q has no label; Graphviz will show its id", n.ID),
				NodeID:   n.ID,
				Rule:     "label",
			})
		}
	}
	return diags
}

// checkRankdir validates the graph rankdir attribute when present.
func checkRankdir(g *dot.Graph) []dot.Diagnostic {
	rd, ok := g.Attrs["rankdir"]
	if !ok || rd == "" {
		return nil
	}
	if !validRankdirs[rd] {
		return []dot.Diagnostic{{
			Severity: "warning",
			Message:  fmt.Sprintf("graph has invalid rankdir %q", rd),
			Rule:     "valid_rankdir",
		}}
	}
	return nil
}

// checkIsolated flags nodes with no edges at all when the graph has edges.
func checkIsolated(g *dot.Graph) []dot.Diagnostic {
	if len(g.Edges) == 0 {
		return nil
	}
	var diags []dot.Diagnostic
	for _, id := range g.NodeIDs() {
		if len(g.OutgoingEdges(id)) == 0 && len(g.IncomingEdges(id)) == 0 {
			diags = append(diags, dot.Diagnostic{
				Severity: "info",
				Message:  fmt.Sprintf("node %q has no prerequisites and no dependents", id),
				NodeID:   id,
				Rule:     "isolated",
			})
		}
	}
	return diags
}
