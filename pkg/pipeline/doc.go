// Package pipeline provides the transformer abstraction for retrieval
// pipelines and the closed set of combinators that compose them.
//
// # Overview
//
// A [Transformer] maps a tabular payload to a tabular payload. Pipelines are
// trees built from leaf stages and four combinators:
//
//   - [Compose]: sequential composition, payload flowing left to right
//   - [FeatureUnion]: run two branches on the same input and join their scores
//   - [ScalarProduct]: multiply the score column by a constant
//   - [RankCutoff]: keep the top K rows of each query group
//
// Leaf stages come from [Stage], [Identity], the apply package, or any other
// [Transformer] implementation.
//
// # Expressions
//
// [Parse] builds pipelines from the textual operator notation used across the
// toolkit, resolving leaf names against a [Registry]:
//
//	p, err := pipeline.Parse("(bm25 % 10) >> qe >> bm25", reg)
//
// # Execution
//
// Call [Transformer.Transform] directly, or use [Run] to execute with a
// unique run ID and timing logs.
package pipeline
