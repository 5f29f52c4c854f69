package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/reportscope/internal/export"
	"github.com/nao1215/reportscope/internal/model"
)

// Job carries one scan through the pipeline.
type Job struct {
	// ScanID is the scan to export.
	ScanID string

	// Scan is the loaded, resolved scan.
	Scan *model.Scan

	// Document is the rendered export.
	Document *export.Document

	// Location is where the document was stored.
	Location string

	// Err is the error of the step that failed, if any.
	Err error

	// Performed lists the names of the completed steps.
	Performed []string
}

// NewJob returns a job for scanID.
func NewJob(scanID string) *Job {
	return &Job{ScanID: scanID}
}

// Failed reports whether a step failed.
func (j *Job) Failed() bool {
	return j.Err != nil
}

// Step is one stage of an export.
type Step interface {
	// Do runs the step. It reads what earlier steps stored in job and
	// adds its own output.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline runs steps in order and stops at the first failure.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step on job. The failing step's error is stored in
// job.Err and returned.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("export cancelled", "step", step.Name(), "scan_id", job.ScanID, "reason", err)
			job.Err = err
			return err
		}

		p.logger.Debug("executing step", "step", step.Name(), "scan_id", job.ScanID)
		if err := step.Do(ctx, job); err != nil {
			p.logger.Warn("step failed", "step", step.Name(), "scan_id", job.ScanID, "error", err)
			job.Err = err
			return err
		}
		job.Performed = append(job.Performed, step.Name())
	}
	return nil
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
