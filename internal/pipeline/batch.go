package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/reportscope/internal/model"
)

// DefaultConcurrency is the number of scans exported at the same time.
const DefaultConcurrency = 4

// BatchProcessor exports many scans concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each scan.
	pipelineFactory func() *Pipeline

	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent exports.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ScanIDs returns the ids of the project's scans in listing order.
func ScanIDs(p model.Project) []string {
	ids := make([]string, 0, len(p.Scans))
	for _, s := range p.Scans {
		ids = append(ids, s.ID)
	}
	return ids
}

// ProcessBatch exports every scan and returns one job per id, in input order.
// Per-scan failures are stored in the jobs. The error is ctx.Err() when ctx
// was cancelled before the batch finished, including a cancellation that
// interrupted a running export, and nil otherwise.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, scanIDs []string) ([]*Job, error) {
	jobs := make([]*Job, len(scanIDs))
	err := bp.ProcessBatchWithCallback(ctx, scanIDs, func(job *Job, index int) {
		jobs[index] = job
	})
	return jobs, err
}

// ProcessBatchWithCallback exports every scan and calls callback as each one
// finishes. callback runs on the worker goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	scanIDs []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch export",
		"total_scans", len(scanIDs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, scanID := range scanIDs {
		g.Go(func() error {
			job := NewJob(scanID)
			if err := gctx.Err(); err != nil {
				job.Err = err
				callback(job, i)
				return err
			}

			// Failures stay in the job so the other exports continue.
			_ = bp.pipelineFactory().Execute(gctx, job) //nolint:errcheck // Error is stored in job
			callback(job, i)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// gctx is canceled once Wait returns, so check the caller's ctx.
		err = ctx.Err()
	}
	bp.logger.Info("batch export complete",
		"total_scans", len(scanIDs),
		"elapsed", time.Since(startTime),
	)
	return err
}
