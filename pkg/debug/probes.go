package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/pipetrace/pipetrace/pkg/apply"
	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/table"
)

// DefaultHead is the number of rows [PrintRows] shows per invocation.
const DefaultHead = 2

// ProbeOption configures a probe stage. Each factory has its own defaults;
// options override them.
type ProbeOption func(*probeConfig)

type probeConfig struct {
	byQuery bool
	message string
	label   string
	head    int
	columns []string
	widget  bool
	out     io.Writer
}

// ByQuery controls whether the probe runs once per query group (true) or
// once over the whole payload (false).
func ByQuery(v bool) ProbeOption {
	return func(c *probeConfig) { c.byQuery = v }
}

// WithMessage prints a message line before the probe's own output, useful
// when the same probe appears multiple times in a pipeline.
func WithMessage(msg string) ProbeOption {
	return func(c *probeConfig) { c.message = msg }
}

// WithLabel sets the label [PrintNumRows] prefixes to its count lines.
func WithLabel(label string) ProbeOption {
	return func(c *probeConfig) { c.label = label }
}

// Head limits how many rows [PrintRows] shows.
func Head(n int) ProbeOption {
	return func(c *probeConfig) { c.head = n }
}

// ShowAll makes [PrintRows] show every row.
func ShowAll() ProbeOption {
	return func(c *probeConfig) { c.head = -1 }
}

// Columns restricts which columns [PrintRows] shows.
func Columns(cols ...string) ProbeOption {
	return func(c *probeConfig) { c.columns = append([]string(nil), cols...) }
}

// PlainPrint makes [PrintRows] use a plain textual dump instead of the styled
// table widget.
func PlainPrint() ProbeOption {
	return func(c *probeConfig) { c.widget = false }
}

// WithWriter redirects probe output. The default is os.Stdout.
func WithWriter(w io.Writer) ProbeOption {
	return func(c *probeConfig) { c.out = w }
}

// PrintColumns returns a pass-through stage that prints the column names of
// the payload flowing through it. By default it runs once over the whole
// payload; with ByQuery(true) it runs once per query group. The payload is
// forwarded unchanged.
func PrintColumns(opts ...ProbeOption) pipeline.Transformer {
	cfg := probeConfig{out: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	fn := func(t *table.Table) (*table.Table, error) {
		if cfg.message != "" {
			fmt.Fprintln(cfg.out, cfg.message)
		}
		fmt.Fprintln(cfg.out, t.Columns())
		return t, nil
	}
	return wrap(fn, cfg.byQuery, "print_columns")
}

// PrintNumRows returns a pass-through stage that prints a row count. By
// default it runs once per query group, reading the query identifier from the
// group's first row and printing "<label> <qid>: <count>"; an empty payload
// is an error in that mode. With ByQuery(false) it prints "<label>: <count>"
// over the whole payload. Rank regeneration is suppressed either way, so the
// payload is forwarded unchanged.
func PrintNumRows(opts ...ProbeOption) pipeline.Transformer {
	cfg := probeConfig{byQuery: true, label: "num_rows", out: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.byQuery {
		fn := func(t *table.Table) (*table.Table, error) {
			qid, err := t.First(table.ColQID)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(cfg.out, "%s %s: %d\n", cfg.label, qid, t.Len())
			return t, nil
		}
		return apply.ByQuery(fn, apply.WithName("print_num_rows"), apply.WithoutRanks())
	}

	fn := func(t *table.Table) (*table.Table, error) {
		fmt.Fprintf(cfg.out, "%s: %d\n", cfg.label, t.Len())
		return t, nil
	}
	return apply.Generic(fn, apply.WithName("print_num_rows"), apply.WithoutRanks())
}

// PrintRows returns a pass-through stage that displays a sample of the
// payload: the first [DefaultHead] rows by default (Head/ShowAll adjust),
// optionally projected to selected columns, as a styled table widget or a
// plain text dump (PlainPrint). By default it runs once per query group.
// The original payload is forwarded unchanged, not the displayed sample.
func PrintRows(opts ...ProbeOption) pipeline.Transformer {
	cfg := probeConfig{byQuery: true, widget: true, head: DefaultHead, out: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	fn := func(t *table.Table) (*table.Table, error) {
		if cfg.message != "" {
			fmt.Fprintln(cfg.out, cfg.message)
		}
		view := t.Head(cfg.head)
		if cfg.columns != nil {
			var err error
			view, err = view.Select(cfg.columns...)
			if err != nil {
				return nil, err
			}
		}
		if cfg.widget {
			fmt.Fprintln(cfg.out, widget(view))
		} else {
			fmt.Fprintln(cfg.out, view.String())
		}
		return t, nil
	}
	return wrap(fn, cfg.byQuery, "print_rows")
}

// wrap binds a probe function to the requested invocation mode. Probes never
// modify the payload, so rank regeneration is always suppressed.
func wrap(fn pipeline.Func, byQuery bool, name string) pipeline.Transformer {
	if byQuery {
		return apply.ByQuery(fn, apply.WithName(name), apply.WithoutRanks())
	}
	return apply.Generic(fn, apply.WithName(name), apply.WithoutRanks())
}

// widget renders a table with the styled lipgloss widget.
func widget(t *table.Table) string {
	headerStyle := lipgloss.NewStyle().Bold(true)
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(t.Columns()...).
		Rows(t.Rows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
