package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pipetrace/pipetrace/pkg/table"
)

// Transformer is a single stage in a retrieval pipeline: it receives a
// tabular payload and returns a tabular payload. Implementations must not
// mutate their input.
//
// Implementations that also implement [fmt.Stringer] control how they are
// labeled in logs and pipeline diagrams.
type Transformer interface {
	Transform(t *table.Table) (*table.Table, error)
}

// Func adapts a plain function to the [Transformer] interface.
type Func func(t *table.Table) (*table.Table, error)

// Transform calls fn.
func (fn Func) Transform(t *table.Table) (*table.Table, error) { return fn(t) }

// Label returns the display name of a transformer: its String() result when
// it implements [fmt.Stringer], otherwise its Go type.
func Label(t Transformer) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}

// =============================================================================
// Combinators - the closed variant set of pipeline composition
// =============================================================================

// Compose executes its models sequentially, payload flowing left to right.
// Compositions built with [Then] are always binary; deeper chains nest.
type Compose struct {
	Models []Transformer
}

// Then composes two transformers sequentially.
func Then(first, second Transformer) *Compose {
	return &Compose{Models: []Transformer{first, second}}
}

// Chain folds transformers into nested binary sequential compositions.
// Chain(a, b, c) is equivalent to Then(Then(a, b), c).
func Chain(models ...Transformer) Transformer {
	if len(models) == 0 {
		return nil
	}
	out := models[0]
	for _, m := range models[1:] {
		out = Then(out, m)
	}
	return out
}

// Transform runs each model in order on the previous model's output.
func (c *Compose) Transform(t *table.Table) (*table.Table, error) {
	out := t
	var err error
	for _, m := range c.Models {
		out, err = m.Transform(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Compose) String() string {
	return "(" + joinLabels(c.Models, " >> ") + ")"
}

// FeatureUnion runs both models on the same input and joins their outputs on
// (qid, docno). The joined table keeps the left side's non-score columns and
// carries each side's score as a numbered feature column (score_0, score_1).
// Rows present on only one side are dropped.
type FeatureUnion struct {
	Models []Transformer
}

// Union combines two transformers into a feature union.
func Union(first, second Transformer) *FeatureUnion {
	return &FeatureUnion{Models: []Transformer{first, second}}
}

// Transform evaluates both sides and joins per (qid, docno).
func (u *FeatureUnion) Transform(t *table.Table) (*table.Table, error) {
	if len(u.Models) != 2 {
		return nil, fmt.Errorf("feature union requires exactly 2 models, got %d", len(u.Models))
	}

	left, err := u.Models[0].Transform(t)
	if err != nil {
		return nil, err
	}
	right, err := u.Models[1].Transform(t)
	if err != nil {
		return nil, err
	}

	rightScore := make(map[string]string, right.Len())
	for i := 0; i < right.Len(); i++ {
		key, err := joinKey(right, i)
		if err != nil {
			return nil, err
		}
		s, err := right.Cell(i, table.ColScore)
		if err != nil {
			return nil, err
		}
		rightScore[key] = s
	}

	var keep []string
	for _, c := range left.Columns() {
		if c != table.ColScore && c != table.ColRank {
			keep = append(keep, c)
		}
	}

	out := table.New(append(append([]string(nil), keep...), "score_0", "score_1")...)
	for i := 0; i < left.Len(); i++ {
		key, err := joinKey(left, i)
		if err != nil {
			return nil, err
		}
		s1, ok := rightScore[key]
		if !ok {
			continue
		}
		s0, err := left.Cell(i, table.ColScore)
		if err != nil {
			return nil, err
		}
		cells := make([]string, 0, len(keep)+2)
		for _, c := range keep {
			v, _ := left.Cell(i, c)
			cells = append(cells, v)
		}
		cells = append(cells, s0, s1)
		if err := out.Append(cells...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (u *FeatureUnion) String() string {
	return "(" + joinLabels(u.Models, " ** ") + ")"
}

func joinKey(t *table.Table, i int) (string, error) {
	qid, err := t.Cell(i, table.ColQID)
	if err != nil {
		return "", err
	}
	docno, err := t.Cell(i, table.ColDocNo)
	if err != nil {
		return "", err
	}
	return qid + "\x00" + docno, nil
}

// ScalarProduct multiplies the score column of its model's output by a
// constant factor.
type ScalarProduct struct {
	Model  Transformer
	Scalar float64
}

// Transform runs the model and scales every score.
func (s *ScalarProduct) Transform(t *table.Table) (*table.Table, error) {
	out, err := s.Model.Transform(t)
	if err != nil {
		return nil, err
	}
	scaled := make([]string, out.Len())
	for i := 0; i < out.Len(); i++ {
		f, err := out.Float(i, table.ColScore)
		if err != nil {
			return nil, err
		}
		scaled[i] = formatScore(f * s.Scalar)
	}
	return out.WithColumn(table.ColScore, scaled)
}

func (s *ScalarProduct) String() string {
	return fmt.Sprintf("(%s * %s)", Label(s.Model), strconv.FormatFloat(s.Scalar, 'g', -1, 64))
}

// RankCutoff keeps the K highest-scoring rows of each query group in its
// model's output and regenerates the rank column.
type RankCutoff struct {
	Model Transformer
	K     int
}

// Transform runs the model, ranks per query, and truncates each group to K rows.
func (r *RankCutoff) Transform(t *table.Table) (*table.Table, error) {
	out, err := r.Model.Transform(t)
	if err != nil {
		return nil, err
	}
	ranked, err := AddRanks(out)
	if err != nil {
		return nil, err
	}
	groups, err := ranked.Groups(table.ColQID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return ranked, nil
	}
	cut := make([]*table.Table, len(groups))
	for i, g := range groups {
		cut[i] = g.Head(r.K)
	}
	return table.Concat(cut...)
}

func (r *RankCutoff) String() string {
	return fmt.Sprintf("(%s %% %d)", Label(r.Model), r.K)
}

// =============================================================================
// Leaf stages
// =============================================================================

// namedStage is a leaf transformer with a fixed display name.
type namedStage struct {
	name string
	fn   Func
}

// Stage wraps a transform function as a named leaf stage.
func Stage(name string, fn Func) Transformer {
	return &namedStage{name: name, fn: fn}
}

// Identity returns a named pass-through stage. Useful as a placeholder leaf
// when only the pipeline's shape matters (e.g. for diagram rendering).
func Identity(name string) Transformer {
	return Stage(name, func(t *table.Table) (*table.Table, error) { return t, nil })
}

func (s *namedStage) Transform(t *table.Table) (*table.Table, error) { return s.fn(t) }

func (s *namedStage) String() string { return s.name }

func joinLabels(models []Transformer, sep string) string {
	labels := make([]string, len(models))
	for i, m := range models {
		labels[i] = Label(m)
	}
	return strings.Join(labels, sep)
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
