package check

import (
	"context"
	"log/slog"

	"github.com/nao1215/reportdeck/internal/model"
)

// Step defines the interface that all check steps must implement.
// Steps are executed in sequence, with each step receiving the report
// accumulated by previous steps.
type Step interface {
	// Do executes the step. Problems with the directory are recorded as
	// findings; the returned error stops the pipeline.
	Do(ctx context.Context, report *model.CheckReport) error

	// Name returns the step's name for findings and logging.
	Name() string
}

// Pipeline orchestrates the execution of check steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in order and returns the first step error.
// Findings recorded before the failing step stay in the report.
func (p *Pipeline) Execute(ctx context.Context, report *model.CheckReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("check cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("running check step",
			"step", step.Name(),
			"dir", report.Dir,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Debug("check step stopped the pipeline",
				"step", step.Name(),
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
