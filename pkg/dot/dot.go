package dot

import (
	"bytes"
	"fmt"
)

// Node shapes used by pipeline diagrams.
const (
	ShapeDiamond = "diamond"
	ShapeRect    = "rect"
	ShapeCDS     = "cds"
)

// Node is a graph vertex with a display label and an optional shape.
// An empty shape uses the Graphviz default.
type Node struct {
	ID    string
	Label string
	Shape string
}

// Edge is a directed edge with an optional label.
type Edge struct {
	From  string
	To    string
	Label string
}

// Digraph accumulates nodes and edges for a directed graph and emits them in
// Graphviz DOT format. It is a plain description object: duplicate node IDs
// are recorded as-is and left for Graphviz to merge, matching the loose
// identity rules of pipeline diagrams.
type Digraph struct {
	nodes []Node
	edges []Edge
}

// New creates an empty directed graph.
func New() *Digraph {
	return &Digraph{}
}

// AddNode records a node with the given label and shape.
func (g *Digraph) AddNode(id, label, shape string) {
	g.nodes = append(g.nodes, Node{ID: id, Label: label, Shape: shape})
}

// AddEdge records a directed edge with an optional label.
func (g *Digraph) AddEdge(from, to, label string) {
	g.edges = append(g.edges, Edge{From: from, To: to, Label: label})
}

// Nodes returns the recorded nodes in insertion order.
func (g *Digraph) Nodes() []Node { return g.nodes }

// Edges returns the recorded edges in insertion order.
func (g *Digraph) Edges() []Edge { return g.edges }

// Empty reports whether the graph has no nodes and no edges.
func (g *Digraph) Empty() bool { return len(g.nodes) == 0 && len(g.edges) == 0 }

// DOT emits the graph in Graphviz DOT format.
func (g *Digraph) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.nodes {
		if n.Shape != "" {
			fmt.Fprintf(&buf, "  %q [label=%q, shape=%s];\n", n.ID, n.Label, n.Shape)
		} else {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.Label)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// String returns the DOT representation.
func (g *Digraph) String() string { return g.DOT() }
