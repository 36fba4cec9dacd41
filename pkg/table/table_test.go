package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tab := New("qid", "docno", "score")
	rows := [][]string{
		{"q1", "d1", "4.2"},
		{"q1", "d2", "3.1"},
		{"q2", "d3", "7.0"},
	}
	for _, r := range rows {
		if err := tab.Append(r...); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return tab
}

func TestAppend(t *testing.T) {
	tab := New("a", "b")
	if err := tab.Append("1", "2"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tab.Append("1"); !errors.Is(err, ErrColumnCount) {
		t.Errorf("short row error = %v, want ErrColumnCount", err)
	}
	if got := tab.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestCellAndFloat(t *testing.T) {
	tab := sample(t)

	got, err := tab.Cell(1, "docno")
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	if got != "d2" {
		t.Errorf("Cell = %q, want d2", got)
	}

	f, err := tab.Float(2, "score")
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if f != 7.0 {
		t.Errorf("Float = %v, want 7", f)
	}

	if _, err := tab.Cell(0, "missing"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("missing column error = %v, want ErrUnknownColumn", err)
	}
}

func TestFirst(t *testing.T) {
	tab := sample(t)
	qid, err := tab.First("qid")
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if qid != "q1" {
		t.Errorf("First = %q, want q1", qid)
	}

	empty := New("qid")
	if _, err := empty.First("qid"); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("empty table error = %v, want ErrEmptyTable", err)
	}
}

func TestHead(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"Two", 2, 2},
		{"All", -1, 3},
		{"Zero", 0, 0},
		{"MoreThanRows", 10, 3},
	}

	tab := sample(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tab.Head(tt.n).Len(); got != tt.want {
				t.Errorf("Head(%d).Len = %d, want %d", tt.n, got, tt.want)
			}
		})
	}

	// The source table is untouched.
	if tab.Len() != 3 {
		t.Errorf("source Len = %d, want 3", tab.Len())
	}
}

func TestSelect(t *testing.T) {
	tab := sample(t)

	sel, err := tab.Select("score", "qid")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	want := []string{"score", "qid"}
	if got := sel.Columns(); !equalStrings(got, want) {
		t.Errorf("Columns = %v, want %v", got, want)
	}
	if got, _ := sel.Cell(0, "score"); got != "4.2" {
		t.Errorf("Cell(0,score) = %q, want 4.2", got)
	}

	if _, err := tab.Select("nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Select error = %v, want ErrUnknownColumn", err)
	}
}

func TestWithColumn(t *testing.T) {
	tab := sample(t)

	// New column is appended.
	out, err := tab.WithColumn("rank", []string{"0", "1", "0"})
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}
	if !out.HasColumn("rank") {
		t.Fatal("rank column missing")
	}
	if tab.HasColumn("rank") {
		t.Error("source table gained a column")
	}

	// Existing column is replaced in place.
	out2, err := out.WithColumn("rank", []string{"9", "9", "9"})
	if err != nil {
		t.Fatalf("WithColumn replace: %v", err)
	}
	if got := out2.Columns(); len(got) != 4 {
		t.Errorf("columns = %v, want 4 columns", got)
	}
	if got, _ := out2.Cell(0, "rank"); got != "9" {
		t.Errorf("Cell(0,rank) = %q, want 9", got)
	}

	if _, err := tab.WithColumn("x", []string{"1"}); !errors.Is(err, ErrColumnCount) {
		t.Errorf("short values error = %v, want ErrColumnCount", err)
	}
}

func TestGroups(t *testing.T) {
	tab := sample(t)
	groups, err := tab.Groups("qid")
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	// First-appearance order.
	if qid, _ := groups[0].First("qid"); qid != "q1" {
		t.Errorf("group 0 qid = %q, want q1", qid)
	}
	if groups[0].Len() != 2 || groups[1].Len() != 1 {
		t.Errorf("group sizes = %d,%d, want 2,1", groups[0].Len(), groups[1].Len())
	}
}

func TestConcat(t *testing.T) {
	tab := sample(t)
	groups, err := tab.Groups("qid")
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}

	joined, err := Concat(groups...)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if joined.Len() != tab.Len() {
		t.Errorf("Len = %d, want %d", joined.Len(), tab.Len())
	}
	if got, _ := joined.Cell(2, "docno"); got != "d3" {
		t.Errorf("Cell(2,docno) = %q, want d3", got)
	}

	other := New("a")
	if _, err := Concat(tab, other); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Concat error = %v, want ErrSchemaMismatch", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	tab := sample(t)

	var buf bytes.Buffer
	if err := tab.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !equalStrings(back.Columns(), tab.Columns()) {
		t.Errorf("columns = %v, want %v", back.Columns(), tab.Columns())
	}
	if back.Len() != tab.Len() {
		t.Errorf("Len = %d, want %d", back.Len(), tab.Len())
	}
	if got, _ := back.Cell(1, "score"); got != "3.1" {
		t.Errorf("Cell(1,score) = %q, want 3.1", got)
	}
}

func TestString(t *testing.T) {
	tab := sample(t)
	s := tab.String()
	if !strings.Contains(s, "docno") {
		t.Errorf("String missing header: %q", s)
	}
	if !strings.Contains(s, "[3 rows x 3 columns]") {
		t.Errorf("String missing row count: %q", s)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
