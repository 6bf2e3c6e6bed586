// ABOUTME: DependencyGraphBuilder assembling documents into a validated, cycle-free graph.
// ABOUTME: Duplicate ids, dangling references and cycle-closing edges are dropped with warnings.
package depgraph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/course"
)

// Build assembles docs (in scan order) into a Graph.
//
// The first document claiming an id wins. Nodes are ordered by the position
// of their phase in phases, then by discovery order; phases missing from
// the table sort last. Edges that reference unknown ids or point a node at
// itself are dropped, and every back-edge found by a depth-first traversal
// is removed so the retained edges form a DAG. All of these produce
// warnings rather than errors; the only error is an empty document list.
func Build(docs []course.Document, phases config.PhaseTable) (*Graph, []course.Warning, error) {
	if len(docs) == 0 {
		return nil, nil, &course.EmptyCorpusError{}
	}

	var warnings []course.Warning

	nodes, dupWarnings := uniqueNodes(docs)
	warnings = append(warnings, dupWarnings...)

	sortByPhase(nodes, phases)

	edges, refWarnings := resolveEdges(nodes)
	warnings = append(warnings, refWarnings...)

	edges, cycleWarnings := breakCycles(nodes, edges)
	warnings = append(warnings, cycleWarnings...)

	return newGraph(nodes, edges), warnings, nil
}

func uniqueNodes(docs []course.Document) ([]course.Document, []course.Warning) {
	var warnings []course.Warning
	first := make(map[string]course.Document, len(docs))
	nodes := make([]course.Document, 0, len(docs))
	for _, d := range docs {
		if kept, dup := first[d.ID()]; dup {
			warnings = append(warnings, course.Warning{
				Kind:       course.WarningDuplicateID,
				Message:    fmt.Sprintf("duplicate id %q: keeping %s, ignoring %s", d.ID(), kept.FilePath(), d.FilePath()),
				FilePath:   d.FilePath(),
				DocumentID: d.ID(),
				Reference:  kept.FilePath(),
			})
			continue
		}
		first[d.ID()] = d
		nodes = append(nodes, d)
	}
	return nodes, warnings
}

// sortByPhase orders nodes in place, stable with respect to discovery order.
func sortByPhase(nodes []course.Document, phases config.PhaseTable) {
	rank := func(d course.Document) int {
		if i, ok := phases.Index(d.Phase()); ok {
			return i
		}
		return phases.Len()
	}
	slices.SortStableFunc(nodes, func(a, b course.Document) int {
		return cmp.Compare(rank(a), rank(b))
	})
}

func resolveEdges(nodes []course.Document) ([]Edge, []course.Warning) {
	known := make(map[string]bool, len(nodes))
	for _, d := range nodes {
		known[d.ID()] = true
	}

	var edges []Edge
	var warnings []course.Warning
	seen := make(map[Edge]bool)
	for _, d := range nodes {
		for _, p := range course.NormalizeIDs(d.Prerequisites()) {
			switch {
			case p == d.ID():
				warnings = append(warnings, course.Warning{
					Kind:       course.WarningCycle,
					Message:    fmt.Sprintf("%q lists itself as a prerequisite; edge dropped", p),
					FilePath:   d.FilePath(),
					DocumentID: d.ID(),
					Reference:  p,
					Cycle:      []string{p, p},
				})
			case !known[p]:
				warnings = append(warnings, course.Warning{
					Kind:       course.WarningUnresolvedReference,
					Message:    fmt.Sprintf("%q requires unknown id %q; edge dropped", d.ID(), p),
					FilePath:   d.FilePath(),
					DocumentID: d.ID(),
					Reference:  p,
				})
			default:
				e := Edge{From: p, To: d.ID()}
				if !seen[e] {
					seen[e] = true
					edges = append(edges, e)
				}
			}
		}
	}
	return edges, warnings
}

// DFS states.
const (
	unvisited = iota
	active
	done
)

// breakCycles walks the graph depth-first from every node in iteration
// order, following edges in emission order. Each edge that returns to a
// node on the active path closes a cycle; it is reported and removed. The
// walk continues afterwards, so every cycle is broken.
func breakCycles(nodes []course.Document, edges []Edge) ([]Edge, []course.Warning) {
	adjacency := make(map[string][]int, len(nodes))
	for i, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], i)
	}
	byID := make(map[string]course.Document, len(nodes))
	for _, d := range nodes {
		byID[d.ID()] = d
	}

	state := make(map[string]int, len(nodes))
	removed := make([]bool, len(edges))
	var path []string
	var warnings []course.Warning

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		path = append(path, id)
		for _, ei := range adjacency[id] {
			next := edges[ei].To
			switch state[next] {
			case active:
				start := slices.Index(path, next)
				cycle := append(slices.Clone(path[start:]), next)
				removed[ei] = true
				dependent := byID[next]
				warnings = append(warnings, course.Warning{
					Kind: course.WarningCycle,
					Message: fmt.Sprintf("prerequisite cycle %s; dropped edge %s -> %s",
						strings.Join(cycle, " -> "), id, next),
					FilePath:   dependent.FilePath(),
					DocumentID: next,
					Reference:  id,
					Cycle:      cycle,
				})
			case unvisited:
				visit(next)
			}
		}
		path = path[:len(path)-1]
		state[id] = done
	}

	for _, d := range nodes {
		if state[d.ID()] == unvisited {
			visit(d.ID())
		}
	}

	kept := make([]Edge, 0, len(edges))
	for i, e := range edges {
		if !removed[i] {
			kept = append(kept, e)
		}
	}
	return kept, warnings
}
