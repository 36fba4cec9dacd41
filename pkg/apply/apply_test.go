package apply

import (
	"testing"

	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/table"
)

func results(t *testing.T) *table.Table {
	t.Helper()
	tab := table.New("qid", "docno", "score")
	rows := [][]string{
		{"q1", "d1", "1.0"},
		{"q1", "d2", "3.0"},
		{"q2", "d3", "2.0"},
	}
	for _, r := range rows {
		if err := tab.Append(r...); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return tab
}

func TestGenericInvokedOnce(t *testing.T) {
	calls := 0
	stage := Generic(func(in *table.Table) (*table.Table, error) {
		calls++
		return in, nil
	}, WithoutRanks())

	out, err := stage.Transform(results(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if out.Len() != 3 {
		t.Errorf("rows = %d, want 3", out.Len())
	}
}

func TestByQueryInvokedPerGroup(t *testing.T) {
	var sizes []int
	stage := ByQuery(func(g *table.Table) (*table.Table, error) {
		sizes = append(sizes, g.Len())
		return g, nil
	}, WithoutRanks())

	if _, err := stage.Transform(results(t)); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 1 {
		t.Errorf("group sizes = %v, want [2 1]", sizes)
	}
}

func TestByQueryRegeneratesRanks(t *testing.T) {
	stage := ByQuery(func(g *table.Table) (*table.Table, error) { return g, nil })

	out, err := stage.Transform(results(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !out.HasColumn("rank") {
		t.Fatal("rank column missing")
	}
	// q1's highest score (d2) ranks first.
	if got, _ := out.Cell(0, "docno"); got != "d2" {
		t.Errorf("docno[0] = %q, want d2", got)
	}
	if got, _ := out.Cell(0, "rank"); got != "0" {
		t.Errorf("rank[0] = %q, want 0", got)
	}
}

func TestByQuerySuppressedRanks(t *testing.T) {
	stage := ByQuery(func(g *table.Table) (*table.Table, error) { return g, nil }, WithoutRanks())

	out, err := stage.Transform(results(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.HasColumn("rank") {
		t.Error("rank column regenerated despite WithoutRanks")
	}
	// Row order untouched.
	if got, _ := out.Cell(0, "docno"); got != "d1" {
		t.Errorf("docno[0] = %q, want d1", got)
	}
}

func TestByQueryEmptyInput(t *testing.T) {
	stage := ByQuery(func(g *table.Table) (*table.Table, error) {
		t.Fatal("fn invoked for empty payload")
		return g, nil
	})

	in := table.New("qid", "docno", "score")
	out, err := stage.Transform(in)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out != in {
		t.Error("empty payload not forwarded unchanged")
	}
}

func TestWithName(t *testing.T) {
	stage := Generic(func(in *table.Table) (*table.Table, error) { return in, nil }, WithName("inspect"))
	if got := pipeline.Label(stage); got != "inspect" {
		t.Errorf("Label = %q, want inspect", got)
	}
}
