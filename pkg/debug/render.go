package debug

import (
	"context"
	"strconv"

	"github.com/pipetrace/pipetrace/pkg/dot"
	"github.com/pipetrace/pipetrace/pkg/errors"
	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/rewrite"
)

// RenderOption configures diagram rendering.
type RenderOption func(*renderConfig)

type renderConfig struct {
	composeAsNode bool
}

// ComposeAsNode draws sequential compositions as explicit >> nodes with edges
// to both children. The default draws them as a single labeled edge between
// the children instead.
func ComposeAsNode() RenderOption {
	return func(c *renderConfig) { c.composeAsNode = true }
}

// Render walks a pipeline's composition tree and produces a directed graph
// describing it, ready for DOT emission or image export.
//
// Combinators are drawn as diamond nodes (* for scalar products, % for rank
// cutoffs, ** for feature unions) with their numeric parameter in an attached
// rectangle. Sequential compositions become a >>-labeled edge between their
// children. Every other transformer is a leaf labeled with its display name,
// except [rewrite.QueryExpansion] which gets the short label QE.
//
// Leaf identifiers concatenate recursion depth with the display name, so two
// identical leaves at the same depth share one drawn node. Graphviz merges
// such duplicates; this looseness is part of the diagram's identity rules.
func Render(root pipeline.Transformer, opts ...RenderOption) (*dot.Digraph, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidPipeline, "cannot render nil: a pipeline.Transformer is required")
	}

	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g := dot.New()
	if _, err := traverse(root, g, 0, cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// traverse draws pipe into g and returns the identifier of the node it drew,
// so the caller can wire an edge to it.
func traverse(pipe pipeline.Transformer, g *dot.Digraph, depth int, cfg renderConfig) (string, error) {
	switch v := pipe.(type) {
	case *pipeline.ScalarProduct:
		return drawWrapper(g, cfg, depth, "*", formatFloat(v.Scalar), v.Model)

	case *pipeline.RankCutoff:
		return drawWrapper(g, cfg, depth, "%", strconv.Itoa(v.K), v.Model)

	case *pipeline.FeatureUnion:
		if len(v.Models) != 2 {
			return "", errors.New(errors.ErrCodeMalformedPipeline, "feature union must have exactly 2 children, got %d", len(v.Models))
		}
		model0, err := traverse(v.Models[0], g, depth+1, cfg)
		if err != nil {
			return "", err
		}
		model1, err := traverse(v.Models[1], g, depth+1, cfg)
		if err != nil {
			return "", err
		}

		// Depth disambiguates sibling unions at different nesting levels.
		id := "**" + strconv.Itoa(depth)
		g.AddNode(id, "**", dot.ShapeDiamond)
		g.AddEdge(id, model0, "")
		g.AddEdge(id, model1, "")
		return id, nil

	case *pipeline.Compose:
		if len(v.Models) != 2 {
			return "", errors.New(errors.ErrCodeMalformedPipeline, "sequential composition must have exactly 2 children, got %d", len(v.Models))
		}
		model0, err := traverse(v.Models[0], g, depth+1, cfg)
		if err != nil {
			return "", err
		}
		model1, err := traverse(v.Models[1], g, depth+1, cfg)
		if err != nil {
			return "", err
		}

		if cfg.composeAsNode {
			id := ">>" + strconv.Itoa(depth)
			g.AddNode(id, ">>", dot.ShapeCDS)
			g.AddEdge(id, model0, "")
			g.AddEdge(id, model1, "")
			return id, nil
		}

		// Edge mode: chain onto the tail so later stages attach there.
		g.AddEdge(model0, model1, ">>")
		return model1, nil

	default:
		label := pipeline.Label(pipe)
		id := strconv.Itoa(depth) + label
		if _, ok := pipe.(*rewrite.QueryExpansion); ok {
			label = "QE"
		}
		g.AddNode(id, label, "")
		return id, nil
	}
}

// drawWrapper draws a single-child combinator: a diamond operator node fed by
// its child, with the numeric parameter in an auxiliary rectangle.
func drawWrapper(g *dot.Digraph, cfg renderConfig, depth int, op, param string, child pipeline.Transformer) (string, error) {
	g.AddNode(op, op, dot.ShapeDiamond)
	model0, err := traverse(child, g, depth+1, cfg)
	if err != nil {
		return "", err
	}
	g.AddEdge(model0, op, "")
	g.AddNode(op+"_cutoff", param, dot.ShapeRect)
	g.AddEdge(op+"_cutoff", op, "")
	return op, nil
}

// RenderDOT renders the pipeline diagram in Graphviz DOT format.
func RenderDOT(root pipeline.Transformer, opts ...RenderOption) (string, error) {
	g, err := Render(root, opts...)
	if err != nil {
		return "", err
	}
	return g.DOT(), nil
}

// RenderSVG renders the pipeline diagram to SVG. The Graphviz capability is
// checked before any traversal.
func RenderSVG(ctx context.Context, root pipeline.Transformer, opts ...RenderOption) ([]byte, error) {
	if err := dot.Available(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphvizUnavailable, err, "pipeline diagrams require the embedded graphviz engine")
	}
	g, err := Render(root, opts...)
	if err != nil {
		return nil, err
	}
	return dot.RenderSVG(ctx, g)
}

// RenderPNG renders the pipeline diagram to PNG. The Graphviz capability is
// checked before any traversal.
func RenderPNG(ctx context.Context, root pipeline.Transformer, opts ...RenderOption) ([]byte, error) {
	if err := dot.Available(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphvizUnavailable, err, "pipeline diagrams require the embedded graphviz engine")
	}
	g, err := Render(root, opts...)
	if err != nil {
		return nil, err
	}
	return dot.RenderPNG(ctx, g)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
