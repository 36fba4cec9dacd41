// Package debug provides debugging aids for composed retrieval pipelines:
// a diagram renderer for pipeline structure and pass-through probe stages
// that print what flows between stages.
//
// # Diagrams
//
// [Render] walks a pipeline's composition tree into a [dot.Digraph];
// [RenderDOT], [RenderSVG] and [RenderPNG] export it:
//
//	pipe := pipeline.Then(pipeline.Then(&pipeline.RankCutoff{Model: dph, K: 5}, qe), dph)
//	svg, err := debug.RenderSVG(ctx, pipe)
//
// # Probes
//
// [PrintColumns], [PrintNumRows] and [PrintRows] build stages that can be
// composed into a pipeline to inspect the payload mid-flight without
// modifying it:
//
//	pipe := pipeline.Chain(
//	    bm25,
//	    debug.PrintColumns(),
//	    rewrite.NewQueryExpansion(),
//	    debug.PrintColumns(),
//	    bm25,
//	)
//
// Executing the pipeline prints the column set at each probe point, e.g. the
// ranking columns [qid query docno rank score] after bm25 and the rewritten
// query columns [qid query query_0] after query expansion.
package debug
