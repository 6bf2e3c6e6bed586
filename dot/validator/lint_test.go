// ABOUTME: Table-driven tests for the course map lint rules covering structure, attributes and cycles.
// ABOUTME: Each rule is exercised against a minimal valid map and a targeted broken variant.
package validator

import (
	"testing"

	"github.com/2389-research/coursemap/dot"
)

// validGraph returns a minimal valid course map: intro -> mid -> final.
func validGraph() *dot.Graph {
	g := dot.NewGraph("course_map")
	g.Attrs = map[string]string{"rankdir": "LR"}
	for _, id := range []string{"intro", "mid", "final"} {
		g.AddNode(&dot.Node{ID: id, Attrs: map[string]string{"fillcolor": "lightblue", "label": id}})
	}
	g.AddEdge(&dot.Edge{From: "intro", To: "mid"})
	g.AddEdge(&dot.Edge{From: "mid", To: "final"})
	return g
}

// hasDiag checks if any diagnostic matches the given rule and severity.
func hasDiag(diags []dot.Diagnostic, rule, severity string) bool {
	for _, d := range diags {
		if d.Rule == rule && d.Severity == severity {
			return true
		}
	}
	return false
}

// countDiags counts diagnostics matching the given rule.
func countDiags(diags []dot.Diagnostic, rule string) int {
	n := 0
	for _, d := range diags {
		if d.Rule == rule {
			n++
		}
	}
	return n
}

func TestLint_ValidGraph(t *testing.T) {
	diags := Lint(validGraph())
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got: %v", diags)
	}
	if HasErrors(diags) {
		t.Error("HasErrors should be false for a valid graph")
	}
}

func TestLint_Rules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(g *dot.Graph)
		rule     string
		severity string
		count    int
	}{
		{
			name:     "dangling edge target",
			mutate:   func(g *dot.Graph) { g.AddEdge(&dot.Edge{From: "final", To: "ghost"}) },
			rule:     "edge_target_exists",
			severity: "error",
			count:    1,
		},
		{
			name:     "dangling edge source",
			mutate:   func(g *dot.Graph) { g.AddEdge(&dot.Edge{From: "ghost", To: "intro"}) },
			rule:     "edge_target_exists",
			severity: "error",
			count:    1,
		},
		{
			name:     "self loop",
			mutate:   func(g *dot.Graph) { g.AddEdge(&dot.Edge{From: "mid", To: "mid"}) },
			rule:     "self_loop",
			severity: "error",
			count:    1,
		},
		{
			name:     "duplicate edge",
			mutate:   func(g *dot.Graph) { g.AddEdge(&dot.Edge{From: "intro", To: "mid"}) },
			rule:     "unique_edge",
			severity: "warning",
			count:    1,
		},
		{
			name:     "cycle",
			mutate:   func(g *dot.Graph) { g.AddEdge(&dot.Edge{From: "final", To: "intro"}) },
			rule:     "acyclic",
			severity: "error",
			count:    1,
		},
		{
			name: "duplicate node",
			mutate: func(g *dot.Graph) {
				g.Nodes = append(g.Nodes, &dot.Node{ID: "mid", Attrs: map[string]string{"fillcolor": "red", "label": "m"}})
			},
			rule:     "unique_node",
			severity: "error",
			count:    1,
		},
		{
			name:     "missing fillcolor",
			mutate:   func(g *dot.Graph) { delete(g.Nodes[1].Attrs, "fillcolor") },
			rule:     "fillcolor",
			severity: "warning",
			count:    1,
		},
		{
			name:     "missing label",
			mutate:   func(g *dot.Graph) { g.Nodes[0].Attrs["label"] = " " },
			rule:     "label",
			severity: "info",
			count:    1,
		},
		{
			name:     "bad rankdir",
			mutate:   func(g *dot.Graph) { g.Attrs["rankdir"] = "sideways" },
			rule:     "valid_rankdir",
			severity: "warning",
			count:    1,
		},
		{
			name: "isolated node",
			mutate: func(g *dot.Graph) {
				g.AddNode(&dot.Node{ID: "loner", Attrs: map[string]string{"fillcolor": "orange", "label": "Loner"}})
			},
			rule:     "isolated",
			severity: "info",
			count:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGraph()
			tt.mutate(g)
			diags := Lint(g)
			if !hasDiag(diags, tt.rule, tt.severity) {
				t.Fatalf("expected %s %s diagnostic, got: %v", tt.rule, tt.severity, diags)
			}
			if got := countDiags(diags, tt.rule); got != tt.count {
				t.Errorf("expected %d %s diagnostics, got %d: %v", tt.count, tt.rule, got, diags)
			}
		})
	}
}

func TestLint_FillColorFromDefaults(t *testing.T) {
	g := validGraph()
	g.NodeDefaults = map[string]string{"fillcolor": "white"}
	for _, n := range g.Nodes {
		delete(n.Attrs, "fillcolor")
	}
	if n := countDiags(Lint(g), "fillcolor"); n != 0 {
		t.Errorf("node defaults should satisfy fillcolor, got %d diagnostics", n)
	}
}

func TestLint_FindsEveryCycle(t *testing.T) {
	g := dot.NewGraph("cycles")
	for _, id := range []string{"a", "b", "x", "y"} {
		g.AddNode(&dot.Node{ID: id, Attrs: map[string]string{"fillcolor": "orange", "label": id}})
	}
	g.AddEdge(&dot.Edge{From: "a", To: "b"})
	g.AddEdge(&dot.Edge{From: "b", To: "a"})
	g.AddEdge(&dot.Edge{From: "x", To: "y"})
	g.AddEdge(&dot.Edge{From: "y", To: "x"})

	diags := Lint(g)
	if got := countDiags(diags, "acyclic"); got != 2 {
		t.Errorf("expected 2 acyclic diagnostics, got %d: %v", got, diags)
	}
	if !HasErrors(diags) {
		t.Error("HasErrors should be true when cycles exist")
	}
}

func TestLint_SelfLoopIsNotAlsoACycle(t *testing.T) {
	g := validGraph()
	g.AddEdge(&dot.Edge{From: "final", To: "final"})
	if n := countDiags(Lint(g), "acyclic"); n != 0 {
		t.Errorf("self loops are reported by self_loop only, got %d acyclic", n)
	}
}
