package cli

import (
	"testing"

	"github.com/pipetrace/pipetrace/pkg/pipeline"
)

func TestValidateTrace(t *testing.T) {
	for _, kind := range []string{traceColumns, traceRows, traceCount} {
		if err := validateTrace(kind); err != nil {
			t.Errorf("validateTrace(%q): %v", kind, err)
		}
	}
	if err := validateTrace("everything"); err == nil {
		t.Error("invalid trace kind accepted")
	}
}

func TestInstrumentSequential(t *testing.T) {
	pipe, err := pipeline.Parse("tf >> identity", builtinRegistry())
	if err != nil {
		t.Fatal(err)
	}

	traced := instrument(pipe, traceCount)
	seq, ok := traced.(*pipeline.Compose)
	if !ok {
		t.Fatalf("instrument returned %T, want *pipeline.Compose", traced)
	}
	// One probe after each of the two stages.
	if len(seq.Models) != 4 {
		t.Errorf("len(Models) = %d, want 4", len(seq.Models))
	}
}

func TestInstrumentLeaf(t *testing.T) {
	pipe, err := pipeline.Parse("tf", builtinRegistry())
	if err != nil {
		t.Fatal(err)
	}

	traced := instrument(pipe, traceColumns)
	seq, ok := traced.(*pipeline.Compose)
	if !ok {
		t.Fatalf("instrument returned %T, want *pipeline.Compose", traced)
	}
	if len(seq.Models) != 2 {
		t.Errorf("len(Models) = %d, want 2", len(seq.Models))
	}
}

func TestInstrumentedRun(t *testing.T) {
	pipe, err := pipeline.Parse("tf", builtinRegistry())
	if err != nil {
		t.Fatal(err)
	}
	traced := instrument(pipe, traceCount)

	out, err := traced.Transform(docs(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	// The probe passes the scored payload through untouched.
	if out.Len() != 3 {
		t.Errorf("rows = %d, want 3", out.Len())
	}
}
