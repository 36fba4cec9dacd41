// Package rewrite provides query rewriting stages for retrieval pipelines.
package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pipetrace/pipetrace/pkg/table"
)

// Default feedback parameters for query expansion.
const (
	DefaultFbDocs  = 3
	DefaultFbTerms = 10
)

// QueryExpansion is a pseudo-relevance-feedback stage: for each query it
// collects the most frequent terms from the text of the top-ranked documents
// and appends them to the query. The output has one row per query with the
// expanded query in the query column and the original in query_0.
//
// Documents without a text column contribute no terms; the stage then only
// performs the query_0 bookkeeping.
type QueryExpansion struct {
	// FbDocs is the number of top documents to draw feedback terms from.
	FbDocs int
	// FbTerms is the maximum number of terms appended to the query.
	FbTerms int
}

// NewQueryExpansion creates a query expansion stage with the default
// feedback parameters.
func NewQueryExpansion() *QueryExpansion {
	return &QueryExpansion{FbDocs: DefaultFbDocs, FbTerms: DefaultFbTerms}
}

// Transform rewrites each query group into a single expanded-query row.
func (qe *QueryExpansion) Transform(t *table.Table) (*table.Table, error) {
	groups, err := t.Groups(table.ColQID)
	if err != nil {
		return nil, err
	}

	out := table.New(table.ColQID, table.ColQuery, "query_0")
	for _, g := range groups {
		qid, err := g.First(table.ColQID)
		if err != nil {
			return nil, err
		}
		query, err := g.First(table.ColQuery)
		if err != nil {
			return nil, err
		}

		expanded := query
		if terms := qe.feedbackTerms(g, query); len(terms) > 0 {
			expanded = query + " " + strings.Join(terms, " ")
		}
		if err := out.Append(qid, expanded, query); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// feedbackTerms extracts up to FbTerms frequent terms from the text of the
// first FbDocs rows, skipping terms already present in the query.
func (qe *QueryExpansion) feedbackTerms(g *table.Table, query string) []string {
	if !g.HasColumn("text") {
		return nil
	}

	inQuery := make(map[string]bool)
	for _, w := range tokenize(query) {
		inQuery[w] = true
	}

	counts := make(map[string]int)
	var order []string
	top := g.Head(qe.FbDocs)
	for i := 0; i < top.Len(); i++ {
		text, err := top.Cell(i, "text")
		if err != nil {
			return nil
		}
		for _, w := range tokenize(text) {
			if len(w) < 3 || inQuery[w] {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	// Most frequent first; first occurrence breaks ties.
	pos := make(map[string]int, len(order))
	for i, w := range order {
		pos[w] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] > counts[order[b]]
		}
		return pos[order[a]] < pos[order[b]]
	})

	if len(order) > qe.FbTerms {
		order = order[:qe.FbTerms]
	}
	return order
}

func (qe *QueryExpansion) String() string {
	return fmt.Sprintf("QueryExpansion(fbDocs=%d, fbTerms=%d)", qe.FbDocs, qe.FbTerms)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
