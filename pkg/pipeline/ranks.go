package pipeline

import (
	"sort"
	"strconv"

	"github.com/pipetrace/pipetrace/pkg/table"
)

// AddRanks regenerates the rank column from the score column: rows are sorted
// by descending score within each query group (groups in first-appearance
// order) and assigned ranks 0..n-1. The sort is stable, so ties keep their
// original relative order.
//
// Tables without a score column are returned unchanged; tables without a qid
// column are ranked as a single group.
func AddRanks(t *table.Table) (*table.Table, error) {
	if !t.HasColumn(table.ColScore) {
		return t, nil
	}

	groups := []*table.Table{t}
	if t.HasColumn(table.ColQID) {
		var err error
		groups, err = t.Groups(table.ColQID)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			return t, nil
		}
	}

	ranked := make([]*table.Table, len(groups))
	for i, g := range groups {
		r, err := rankGroup(g)
		if err != nil {
			return nil, err
		}
		ranked[i] = r
	}
	return table.Concat(ranked...)
}

// rankGroup sorts one group by descending score and assigns the rank column.
func rankGroup(g *table.Table) (*table.Table, error) {
	n := g.Len()
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := g.Float(i, table.ColScore)
		if err != nil {
			return nil, err
		}
		scores[i] = f
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	sorted := g.CopySchema()
	for _, i := range order {
		if err := sorted.Append(g.Row(i)...); err != nil {
			return nil, err
		}
	}

	ranks := make([]string, n)
	for i := range ranks {
		ranks[i] = strconv.Itoa(i)
	}
	return sorted.WithColumn(table.ColRank, ranks)
}
