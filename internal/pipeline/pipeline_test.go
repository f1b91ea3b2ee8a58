package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/jssimporter/spruce/internal/model"
)

// recordingStep is a test step that records whether it ran.
type recordingStep struct {
	name string
	err  error
	ran  bool
}

func (s *recordingStep) Do(_ context.Context, _ *model.RunReport) error {
	s.ran = true
	return s.err
}

func (s *recordingStep) Name() string {
	return s.name
}

// TestPipeline_Execute tests step ordering and error handling.
func TestPipeline_Execute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		first := &recordingStep{name: "first"}
		second := &recordingStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		run := model.NewRunReport("https://jss.example.com", "test")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if !first.ran || !second.ran {
			t.Errorf("expected both steps to run, got first=%v second=%v", first.ran, second.ran)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		failErr := errors.New("boom")
		failing := &recordingStep{name: "failing", err: failErr}
		after := &recordingStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		run := model.NewRunReport("https://jss.example.com", "test")
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, failErr) {
			t.Fatalf("Execute() error = %v, want wrapping %v", err, failErr)
		}
		if after.ran {
			t.Error("expected pipeline to stop before the second step")
		}
	})

	t.Run("continue on error runs remaining steps", func(t *testing.T) {
		t.Parallel()

		failErr := errors.New("boom")
		failing := &recordingStep{name: "failing", err: failErr}
		after := &recordingStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		run := model.NewRunReport("https://jss.example.com", "test")
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, failErr) {
			t.Fatalf("Execute() error = %v, want wrapping %v", err, failErr)
		}
		if !after.ran {
			t.Error("expected pipeline to continue past the failing step")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		step := &recordingStep{name: "never"}

		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		run := model.NewRunReport("https://jss.example.com", "test")
		if err := p.Execute(ctx, run); !errors.Is(err, context.Canceled) {
			t.Fatalf("Execute() error = %v, want context.Canceled", err)
		}
		if step.ran {
			t.Error("expected no step to run after cancellation")
		}
	})
}

// TestPipeline_StepNames tests step registration accessors.
func TestPipeline_StepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(
		&recordingStep{name: "package"},
		&recordingStep{name: "script"},
	)

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}

	names := p.StepNames()
	want := []string{"package", "script"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("StepNames()[%d] = %q, want %q", i, names[i], name)
		}
	}
}
