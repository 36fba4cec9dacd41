// Package apply builds pipeline stages from plain functions over tabular
// payloads.
//
// [Generic] wraps a function applied to the whole payload; [ByQuery] wraps a
// function applied once per query group, with the group outputs concatenated
// back together. Both regenerate the rank column from scores afterwards
// unless [WithoutRanks] is given.
package apply

import (
	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/table"
)

// Option configures a constructed stage.
type Option func(*config)

type config struct {
	name     string
	addRanks bool
}

// WithName sets the stage's display name, used in logs and diagrams.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithoutRanks suppresses the automatic rank-column regeneration that
// normally follows the wrapped function.
func WithoutRanks() Option {
	return func(c *config) { c.addRanks = false }
}

// Generic returns a stage that applies fn to the whole payload.
func Generic(fn pipeline.Func, opts ...Option) pipeline.Transformer {
	cfg := config{name: "apply.generic", addRanks: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return pipeline.Stage(cfg.name, func(t *table.Table) (*table.Table, error) {
		out, err := fn(t)
		if err != nil {
			return nil, err
		}
		if cfg.addRanks {
			return pipeline.AddRanks(out)
		}
		return out, nil
	})
}

// ByQuery returns a stage that splits the payload into query groups
// (first-appearance order), applies fn to each group, and concatenates the
// results. Every group passed to fn is non-empty. An input without rows is
// forwarded untouched.
func ByQuery(fn pipeline.Func, opts ...Option) pipeline.Transformer {
	cfg := config{name: "apply.by_query", addRanks: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return pipeline.Stage(cfg.name, func(t *table.Table) (*table.Table, error) {
		groups, err := t.Groups(table.ColQID)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			return t, nil
		}
		outs := make([]*table.Table, len(groups))
		for i, g := range groups {
			out, err := fn(g)
			if err != nil {
				return nil, err
			}
			outs[i] = out
		}
		joined, err := table.Concat(outs...)
		if err != nil {
			return nil, err
		}
		if cfg.addRanks {
			return pipeline.AddRanks(joined)
		}
		return joined, nil
	})
}
