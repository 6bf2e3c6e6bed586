// ABOUTME: Read-only course dependency graph with deterministic node and edge iteration order.
// ABOUTME: Provides neighbour queries and a stable topological (study) order.
package depgraph

import (
	"slices"

	"github.com/2389-research/coursemap/course"
)

// Edge points from a prerequisite to the document that depends on it.
type Edge struct {
	From string // prerequisite id
	To   string // dependent id
}

// Graph is the validated, acyclic dependency graph. It is immutable once
// Build returns.
type Graph struct {
	nodes map[string]course.Document
	order []string // node iteration order
	edges []Edge
	out   map[string][]string
	in    map[string][]string
}

func newGraph(docs []course.Document, edges []Edge) *Graph {
	g := &Graph{
		nodes: make(map[string]course.Document, len(docs)),
		order: make([]string, 0, len(docs)),
		edges: slices.Clone(edges),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
	}
	for _, d := range docs {
		g.nodes[d.ID()] = d
		g.order = append(g.order, d.ID())
	}
	for _, e := range g.edges {
		g.out[e.From] = append(g.out[e.From], e.To)
		g.in[e.To] = append(g.in[e.To], e.From)
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Node returns the document with the given id.
func (g *Graph) Node(id string) (course.Document, bool) {
	d, ok := g.nodes[id]
	return d, ok
}

// IDs returns node ids in iteration order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Nodes returns the documents in iteration order: by phase table position,
// then by discovery order.
func (g *Graph) Nodes() []course.Document {
	docs := make([]course.Document, len(g.order))
	for i, id := range g.order {
		docs[i] = g.nodes[id]
	}
	return docs
}

// Edges returns the retained edges in emission order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// HasEdge reports whether the edge from -> to was retained.
func (g *Graph) HasEdge(from, to string) bool {
	return slices.Contains(g.out[from], to)
}

// Prerequisites returns the retained prerequisites of id.
func (g *Graph) Prerequisites(id string) []string { return slices.Clone(g.in[id]) }

// Dependents returns the ids that directly depend on id.
func (g *Graph) Dependents(id string) []string { return slices.Clone(g.out[id]) }

// Roots returns the nodes with no retained prerequisites, in iteration order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.in[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// TopologicalOrder returns every node so that prerequisites come before
// their dependents. Ties are broken by iteration order, which keeps the
// result stable across runs.
func (g *Graph) TopologicalOrder() []string {
	pending := make(map[string]int, len(g.order))
	for _, id := range g.order {
		pending[id] = len(g.in[id])
	}
	position := make(map[string]int, len(g.order))
	for i, id := range g.order {
		position[id] = i
	}

	var ready []string
	for _, id := range g.order {
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		slices.SortFunc(ready, func(a, b string) int { return position[a] - position[b] })
		id := ready[0]
		ready = ready[1:]
		result = append(result, id)
		for _, next := range g.out[id] {
			pending[next]--
			if pending[next] == 0 {
				ready = append(ready, next)
			}
		}
	}
	return result
}

// Depth returns, for every node, the length of the longest prerequisite
// chain leading to it. Roots have depth 0.
func (g *Graph) Depth() map[string]int {
	depth := make(map[string]int, len(g.order))
	for _, id := range g.TopologicalOrder() {
		for _, next := range g.out[id] {
			if depth[id]+1 > depth[next] {
				depth[next] = depth[id] + 1
			}
		}
	}
	return depth
}
