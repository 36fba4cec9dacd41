// Package pkg provides the core libraries for Pipetrace pipeline visualization.
//
// # Overview
//
// Pipetrace renders retrieval-pipeline composition trees as diagrams and
// traces tabular data as it flows through the stages. The pkg directory is
// organized into five main areas:
//
//  1. [table] - The tabular payload flowing through pipelines
//  2. [pipeline] - Transformer combinators, the expression parser, and the runner
//  3. [debug] - The diagram renderer and the pass-through probe stages
//  4. [dot] - DOT graph construction and Graphviz export
//  5. [cache] - Artifact caching (file, redis, null backends)
//
// Supporting packages: [apply] builds stages from plain functions, [rewrite]
// holds the query-expansion stage, [errors] defines the structured error
// types, and [buildinfo] carries version metadata.
//
// # Architecture
//
// The typical data flow through Pipetrace:
//
//	Pipeline Expression ("bm25 >> qe >> bm25")
//	         ↓
//	    [pipeline] package (parse into a transformer tree)
//	         ↓
//	    [debug] package (walk the tree into a [dot] digraph)
//	         ↓
//	    DOT/SVG/PNG output (cached via [cache])
//
// Running a pipeline follows the same tree with a [table.Table] instead:
// each stage consumes and produces a table, and [debug] probes can be
// spliced between stages to observe the payload without changing it.
//
// # Quick Start
//
// Parse an expression and render its diagram:
//
//	import (
//	    "context"
//	    "github.com/pipetrace/pipetrace/pkg/debug"
//	    "github.com/pipetrace/pipetrace/pkg/pipeline"
//	)
//
//	pipe, err := pipeline.Parse("bm25 >> qe >> bm25", registry)
//	if err != nil {
//	    return err
//	}
//	svg, err := debug.RenderSVG(context.Background(), pipe)
package pkg
