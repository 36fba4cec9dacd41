package dot

import (
	"strings"
	"testing"
)

func TestDigraphAccumulates(t *testing.T) {
	g := New()
	g.AddNode("a", "A", "")
	g.AddNode("b", "B", ShapeDiamond)
	g.AddEdge("a", "b", ">>")

	if got := len(g.Nodes()); got != 2 {
		t.Errorf("nodes = %d, want 2", got)
	}
	if got := len(g.Edges()); got != 1 {
		t.Errorf("edges = %d, want 1", got)
	}
	if g.Empty() {
		t.Error("Empty = true for populated graph")
	}
}

func TestDigraphKeepsDuplicateIDs(t *testing.T) {
	// Duplicate node statements are recorded as-is; Graphviz merges them.
	g := New()
	g.AddNode("x", "first", "")
	g.AddNode("x", "second", "")

	if got := len(g.Nodes()); got != 2 {
		t.Errorf("nodes = %d, want 2", got)
	}
}

func TestDOT(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Digraph)
		want  []string
	}{
		{
			name:  "Empty",
			build: func(g *Digraph) {},
			want:  []string{"digraph G {", "}"},
		},
		{
			name: "ShapedNode",
			build: func(g *Digraph) {
				g.AddNode("*", "*", ShapeDiamond)
			},
			want: []string{`"*" [label="*", shape=diamond];`},
		},
		{
			name: "PlainNode",
			build: func(g *Digraph) {
				g.AddNode("bm25", "bm25", "")
			},
			want: []string{`"bm25" [label="bm25"];`},
		},
		{
			name: "LabeledEdge",
			build: func(g *Digraph) {
				g.AddNode("a", "a", "")
				g.AddNode("b", "b", "")
				g.AddEdge("a", "b", ">>")
			},
			want: []string{`"a" -> "b" [label=">>"];`},
		},
		{
			name: "UnlabeledEdge",
			build: func(g *Digraph) {
				g.AddEdge("a", "b", "")
			},
			want: []string{`"a" -> "b";`},
		},
		{
			name: "QuotesEscaped",
			build: func(g *Digraph) {
				g.AddNode(`say "hi"`, `say "hi"`, "")
			},
			want: []string{`"say \"hi\"" [label="say \"hi\""];`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			tt.build(g)
			out := g.DOT()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("DOT output missing %q:\n%s", want, out)
				}
			}
		})
	}
}
