package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipetrace/pipetrace/pkg/debug"
	"github.com/pipetrace/pipetrace/pkg/pipeline"
	"github.com/pipetrace/pipetrace/pkg/table"
)

// Trace kinds accepted by --trace.
const (
	traceColumns = "columns"
	traceRows    = "rows"
	traceCount   = "count"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	input       string // CSV file with the input table
	output      string // optional CSV file for the result
	trace       string // probe kind interleaved between stages
	interactive bool   // browse the result in a TUI instead of printing
}

// runCommand creates the run command for executing pipelines over tables.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{}

	cmd := &cobra.Command{
		Use:   "run <expression>",
		Short: "Run a pipeline expression over a CSV table",
		Long: `Run parses a pipeline expression, loads the input table from CSV, and
executes the pipeline. With --trace, a pass-through probe is inserted after
every top-level stage so intermediate payloads are printed as they flow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.trace != "" {
				if err := validateTrace(opts.trace); err != nil {
					return err
				}
			}
			return c.runPipeline(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input CSV file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result table to a CSV file")
	cmd.Flags().StringVar(&opts.trace, "trace", "", "insert probes between stages: columns, rows, or count")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "browse the result table interactively")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// validateTrace checks the --trace flag value.
func validateTrace(kind string) error {
	switch kind {
	case traceColumns, traceRows, traceCount:
		return nil
	}
	return fmt.Errorf("invalid trace kind: %s (must be 'columns', 'rows', or 'count')", kind)
}

// runPipeline parses, optionally instruments, and executes the expression.
func (c *CLI) runPipeline(ctx context.Context, expr string, opts *runOpts) error {
	pipe, err := pipeline.Parse(expr, builtinRegistry())
	if err != nil {
		return err
	}

	input, err := table.OpenCSV(opts.input)
	if err != nil {
		return fmt.Errorf("load input %s: %w", opts.input, err)
	}
	c.Logger.Infof("Loaded %s: %d rows", opts.input, input.Len())

	if opts.trace != "" {
		pipe = instrument(pipe, opts.trace)
	}

	result, err := pipeline.Run(ctx, pipe, input, c.Logger)
	if err != nil {
		return err
	}
	if result.Output.IsEmpty() {
		printWarning("Result table is empty")
	}

	if opts.output != "" {
		if err := result.Output.SaveCSV(opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}

	if opts.interactive {
		return browseTable(result.Output)
	}
	if opts.output == "" {
		fmt.Println(result.Output)
	}
	printSuccess("Run %s finished in %s", result.RunID, result.Duration.Round(time.Millisecond))
	return nil
}

// instrument inserts a probe after every top-level stage. A non-sequential
// root gets a single trailing probe.
func instrument(pipe pipeline.Transformer, kind string) pipeline.Transformer {
	if seq, ok := pipe.(*pipeline.Compose); ok {
		models := make([]pipeline.Transformer, 0, 2*len(seq.Models))
		for _, m := range seq.Models {
			models = append(models, m, probe(kind, pipeline.Label(m)))
		}
		return &pipeline.Compose{Models: models}
	}
	return pipeline.Then(pipe, probe(kind, pipeline.Label(pipe)))
}

// probe builds the pass-through stage for one trace kind, labelled with the
// stage it follows.
func probe(kind, after string) pipeline.Transformer {
	switch kind {
	case traceColumns:
		return debug.PrintColumns(debug.WithMessage("after " + after))
	case traceCount:
		return debug.PrintNumRows(debug.WithLabel("after " + after))
	default:
		return debug.PrintRows(debug.WithMessage("after " + after))
	}
}
