package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Rendering svg")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if s.Cancelled() {
		t.Error("explicit Stop should not count as cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Rendering png")
	s.Start()

	// Stop multiple times should not panic.
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Rendering svg")
	s.Start()

	cancel()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("Cancelled should report parent context cancellation")
	}
	s.Stop()
}

func TestSpinnerContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval/2)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Rendering svg")
	s.Start()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("Cancelled should report parent context timeout")
	}
	s.Stop()
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Rendering svg")
	s.Start()
	s.StopWithSuccess("Rendered svg")

	s = newSpinnerWithContext(context.Background(), "Rendering png")
	s.Start()
	s.StopWithError("Rendering png failed")
}
