package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/reportscope/internal/export"
	"github.com/nao1215/reportscope/internal/model"
)

// errMissingInput is returned when a step runs before the step it depends on.
var errMissingInput = errors.New("step input missing")

// DetailLoader loads a resolved scan.
type DetailLoader interface {
	Load(ctx context.Context, scanID string) (*model.Scan, error)
}

// LoadStep fetches the scan detail.
type LoadStep struct {
	loader DetailLoader
}

// NewLoadStep returns a step loading scans with loader.
func NewLoadStep(loader DetailLoader) *LoadStep {
	return &LoadStep{loader: loader}
}

// Name implements Step.
func (s *LoadStep) Name() string { return "load" }

// Do implements Step.
func (s *LoadStep) Do(ctx context.Context, job *Job) error {
	scan, err := s.loader.Load(ctx, job.ScanID)
	if err != nil {
		return err
	}
	job.Scan = scan
	return nil
}

// EmitStep renders the loaded scan.
type EmitStep struct {
	emitter *export.Emitter
}

// NewEmitStep returns a step rendering with emitter.
func NewEmitStep(emitter *export.Emitter) *EmitStep {
	return &EmitStep{emitter: emitter}
}

// Name implements Step.
func (s *EmitStep) Name() string { return "render" }

// Do implements Step.
func (s *EmitStep) Do(_ context.Context, job *Job) error {
	doc, err := s.emitter.Emit(job.Scan)
	if err != nil {
		return err
	}
	job.Document = doc
	return nil
}

// StoreStep writes the rendered document to a sink.
type StoreStep struct {
	sink export.Sink
}

// NewStoreStep returns a step storing documents in sink.
func NewStoreStep(sink export.Sink) *StoreStep {
	return &StoreStep{sink: sink}
}

// Name implements Step.
func (s *StoreStep) Name() string { return "store" }

// Do implements Step.
func (s *StoreStep) Do(ctx context.Context, job *Job) error {
	if job.Document == nil {
		return errMissingInput
	}
	location, err := s.sink.Store(ctx, job.Document)
	if err != nil {
		return err
	}
	job.Location = location
	return nil
}

// ExportPipeline returns the load, render and store pipeline.
func ExportPipeline(loader DetailLoader, emitter *export.Emitter, sink export.Sink, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewLoadStep(loader),
		NewEmitStep(emitter),
		NewStoreStep(sink),
	)
	return p
}
