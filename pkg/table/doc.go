// Package table provides the tabular payload that flows through retrieval
// pipelines.
//
// # Overview
//
// A [Table] is an ordered collection of named columns and string-valued rows,
// the Go rendering of a result frame: queries, documents, scores and ranks in
// well-known columns ([ColQID], [ColQuery], [ColDocNo], [ColScore], [ColRank]).
// Pipeline stages receive a table and return a table; stages never mutate
// their input, they build new tables instead.
//
// # Basic Usage
//
// Create a table with [New], fill it with [Table.Append], and inspect it with
// [Table.Columns], [Table.Len] and [Table.Cell]:
//
//	t := table.New("qid", "docno", "score")
//	t.Append("q1", "d1", "4.2")
//	t.Append("q1", "d2", "3.1")
//
// Slice and project views with [Table.Head] and [Table.Select]; split into
// per-query groups with [Table.Groups] and join them back with [Concat].
//
// # I/O
//
// Tables round-trip through CSV with [ReadCSV], [Table.WriteCSV] and the
// file-path helpers [OpenCSV] and [Table.SaveCSV]. [Table.String] renders an
// aligned plain-text view for terminal output.
package table
