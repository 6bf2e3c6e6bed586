// ABOUTME: Ordered DOT AST used to describe the course map before serialization.
// ABOUTME: Defines Graph, Node, Edge and Diagnostic types with insertion-ordered traversal helpers.
package dot

// Graph represents a DOT digraph. Nodes and edges keep insertion order so
// serialization is reproducible without re-sorting.
type Graph struct {
	Name         string
	Attrs        map[string]string // graph-level attributes
	NodeDefaults map[string]string // node [...] defaults
	EdgeDefaults map[string]string // edge [...] defaults
	Nodes        []*Node
	Edges        []*Edge

	index map[string]*Node
}

// Node represents a node statement with key-value attributes.
type Node struct {
	ID    string
	Attrs map[string]string
}

// Edge represents a directed edge statement.
type Edge struct {
	From  string
	To    string
	Attrs map[string]string
}

// Diagnostic represents a validation finding associated with a node or edge.
type Diagnostic struct {
	Severity string // "error", "warning", "info"
	Message  string
	NodeID   string
	EdgeID   string
	Rule     string
}

// NewGraph returns an empty graph with the given name.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// AddNode appends a node. Adding an ID that already exists replaces the
// earlier node's attributes in place, keeping its position.
func (g *Graph) AddNode(n *Node) {
	if g.index == nil {
		g.reindex()
	}
	if existing, ok := g.index[n.ID]; ok {
		existing.Attrs = n.Attrs
		return
	}
	g.index[n.ID] = n
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge to the graph.
func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

// FindNode returns the node with the given ID, or nil if not found.
func (g *Graph) FindNode(id string) *Node {
	if g.index == nil || len(g.index) != len(g.Nodes) {
		g.reindex()
	}
	return g.index[id]
}

func (g *Graph) reindex() {
	g.index = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := g.index[n.ID]; !dup {
			g.index[n.ID] = n
		}
	}
}

// NodeIDs returns node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// OutgoingEdges returns all edges originating from the given node ID.
func (g *Graph) OutgoingEdges(nodeID string) []*Edge {
	var result []*Edge
	for _, e := range g.Edges {
		if e.From == nodeID {
			result = append(result, e)
		}
	}
	return result
}

// IncomingEdges returns all edges terminating at the given node ID.
func (g *Graph) IncomingEdges(nodeID string) []*Edge {
	var result []*Edge
	for _, e := range g.Edges {
		if e.To == nodeID {
			result = append(result, e)
		}
	}
	return result
}

// StableID returns a deterministic identifier for an edge based on its endpoints.
func (e *Edge) StableID() string {
	return e.From + "->" + e.To
}
