// Package loader retrieves a scan and resolves its project reference so the
// record is ready for display and export.
package loader

import (
	"context"
	"log/slog"

	"github.com/nao1215/reportscope/internal/model"
)

// Fetcher is the subset of the API client the loader needs.
type Fetcher interface {
	GetScan(ctx context.Context, scanID string) (*model.Scan, error)
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
}

// Loader fetches scan details.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// New returns a Loader backed by fetcher. A nil logger means slog.Default().
func New(fetcher Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// Load fetches the scan and, when its project is only an id, fetches the
// project and embeds it. Errors from the fetcher are returned unchanged so
// callers can match them against api.ErrFetch. Nothing is retried.
//
// A scan without any project reference is returned as is; it stays
// unresolved and cannot be exported.
func (l *Loader) Load(ctx context.Context, scanID string) (*model.Scan, error) {
	scan, err := l.fetcher.GetScan(ctx, scanID)
	if err != nil {
		return nil, err
	}

	if scan.Project.IsResolved() || scan.Project.IsAbsent() {
		return scan, nil
	}

	projectID := scan.Project.ID()
	l.logger.Debug("resolving project reference", "scan_id", scanID, "project_id", projectID)

	project, err := l.fetcher.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resolved := scan.WithProject(*project)
	return &resolved, nil
}
