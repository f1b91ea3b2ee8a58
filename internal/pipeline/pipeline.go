package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jssimporter/spruce/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step appending its report
// to the accumulated run.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state (kind, sources, analyzer)
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., step dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the run to append to.
	// Returns an error if the step's audit cannot be produced.
	Do(ctx context.Context, run *model.RunReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and their errors
// are collected, but subsequent steps still execute.
//
// Design decision: This option exists because a contract violation in one
// object type's audit (e.g., a non-group kind handed to group analysis)
// shouldn't cost the operator the rest of the run. However, the default is
// to stop on error because early failures often indicate fundamental
// problems (e.g., bad credentials).
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts through the
// context they receive. This allows graceful cleanup between steps while
// still respecting cancellation.
//
// If continueOnError is false, Execute returns the first error encountered.
// If it is true, all steps run and the failures come back joined; the
// caller decides whether a partial run is still worth writing out.
func (p *Pipeline) Execute(ctx context.Context, run *model.RunReport) error {
	var stepErrs []error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"server", run.Server,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"server", run.Server,
				"error", err,
			)

			if !p.continueOnError {
				return fmt.Errorf("step %s: %w", step.Name(), err)
			}
			stepErrs = append(stepErrs, fmt.Errorf("step %s: %w", step.Name(), err))
			continue
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"server", run.Server,
		)
	}

	return errors.Join(stepErrs...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
