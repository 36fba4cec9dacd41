package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pipetrace/pipetrace/pkg/table"
)

// RunResult holds the outcome of a pipeline execution.
type RunResult struct {
	// RunID uniquely identifies this execution in logs.
	RunID string

	// Output is the final payload produced by the pipeline.
	Output *table.Table

	// Duration is the wall-clock execution time.
	Duration time.Duration
}

// Run executes a pipeline on an input payload, tagging the execution with a
// unique run ID and logging timing at debug level. A nil logger discards all
// output.
func Run(ctx context.Context, root Transformer, input *table.Table, logger *log.Logger) (*RunResult, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger.Debug("running pipeline", "run_id", runID, "pipeline", Label(root), "rows_in", input.Len())

	start := time.Now()
	out, err := root.Transform(input)
	if err != nil {
		logger.Error("pipeline failed", "run_id", runID, "err", err)
		return nil, err
	}

	elapsed := time.Since(start)
	logger.Info("pipeline complete", "run_id", runID, "rows_out", out.Len(), "took", elapsed.Round(time.Millisecond))

	return &RunResult{RunID: runID, Output: out, Duration: elapsed}, nil
}
