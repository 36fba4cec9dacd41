package cli

import (
	"testing"

	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/table"
)

func docs(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(table.ColQID, table.ColQuery, table.ColDocNo, "text")
	rows := [][]string{
		{"q1", "fast cars", "d1", "fast cars go fast"},
		{"q1", "fast cars", "d2", "slow boats"},
		{"q2", "boats", "d3", "boats and more boats"},
	}
	for _, r := range rows {
		if err := tbl.Append(r...); err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func TestBuiltinRegistry(t *testing.T) {
	reg := builtinRegistry()
	for _, name := range []string{"bm25", "tf", "qe", "identity"} {
		if _, err := reg.Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}
}

func TestLexicalScorer(t *testing.T) {
	reg := builtinRegistry()
	scorer, err := reg.Lookup("tf")
	if err != nil {
		t.Fatal(err)
	}

	out, err := scorer.Transform(docs(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !out.HasColumn(table.ColScore) || !out.HasColumn(table.ColRank) {
		t.Fatalf("columns = %v, want score and rank", out.Columns())
	}

	// d1 matches both query terms, d2 matches none.
	s1, err := out.Float(0, table.ColScore)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := out.Float(1, table.ColScore)
	if err != nil {
		t.Fatal(err)
	}
	if s1 <= s2 {
		t.Errorf("score(d1)=%v should beat score(d2)=%v", s1, s2)
	}
}

func TestLexicalScorerDamped(t *testing.T) {
	tf := &lexicalScorer{name: "tf"}
	bm := &lexicalScorer{name: "bm25", damped: true}

	text := "boats boats boats boats"
	if tf.score("boats", text) <= bm.score("boats", text) {
		t.Error("damping should reduce repeated-term scores")
	}
	if bm.score("boats", "nothing here") != 0 {
		t.Error("no overlap should score zero")
	}
}

func TestLexicalScorerLabel(t *testing.T) {
	reg := builtinRegistry()
	scorer, _ := reg.Lookup("bm25")
	if got := pipeline.Label(scorer); got != "bm25" {
		t.Errorf("Label = %q, want bm25", got)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Fast-CARS, go!")
	want := []string{"fast", "cars", "go"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokenize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
