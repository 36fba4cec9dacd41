package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/rewrite"
	"github.com/pipetrace/pipetrace/pkg/table"
)

// =============================================================================
// Built-in Stage Registry
// =============================================================================

// builtinRegistry returns the stages available to pipeline expressions.
// Scorers operate on the "text" column of the input table; "qe" is the
// query-expansion rewriter.
func builtinRegistry() pipeline.Registry {
	return pipeline.Registry{
		"bm25":     &lexicalScorer{name: "bm25", damped: true},
		"tf":       &lexicalScorer{name: "tf"},
		"qe":       rewrite.NewQueryExpansion(),
		"identity": pipeline.Identity("identity"),
	}
}

// lexicalScorer scores each row by term overlap between its query and its
// "text" column. With damped set, the overlap count is log-damped so long
// documents do not dominate.
type lexicalScorer struct {
	name   string
	damped bool
}

func (s *lexicalScorer) String() string { return s.name }

func (s *lexicalScorer) Transform(t *table.Table) (*table.Table, error) {
	if t.IsEmpty() {
		return t, nil
	}

	scores := make([]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		query, err := t.Cell(i, table.ColQuery)
		if err != nil {
			return nil, err
		}
		text, err := t.Cell(i, "text")
		if err != nil {
			return nil, err
		}
		scores[i] = strconv.FormatFloat(s.score(query, text), 'g', -1, 64)
	}

	scored, err := t.WithColumn(table.ColScore, scores)
	if err != nil {
		return nil, err
	}
	return pipeline.AddRanks(scored)
}

func (s *lexicalScorer) score(query, text string) float64 {
	queryTerms := map[string]bool{}
	for _, term := range tokenize(query) {
		queryTerms[term] = true
	}

	overlap := 0.0
	for _, term := range tokenize(text) {
		if queryTerms[term] {
			overlap++
		}
	}
	if s.damped && overlap > 0 {
		return 1 + math.Log(overlap)
	}
	return overlap
}

// tokenize splits s into lowercase alphanumeric terms.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}
