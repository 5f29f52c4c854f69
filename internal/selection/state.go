package selection

import (
	"errors"

	"github.com/nao1215/reportscope/internal/model"
)

var (
	// ErrNoProject is returned when a scan is selected before a project.
	ErrNoProject = errors.New("no project selected")

	// ErrUnknownScan is returned when the scan is not listed under the selected project.
	ErrUnknownScan = errors.New("scan does not belong to the selected project")

	// ErrEmptyScanID is returned when selecting a scan without an id.
	ErrEmptyScanID = errors.New("scan id is empty")

	// ErrDetailMismatch is recorded when the service answers with a different scan.
	ErrDetailMismatch = errors.New("loaded scan does not match the selection")
)

// Phase is the coarse position of the machine.
type Phase int

const (
	// NoProjectSelected is the initial phase.
	NoProjectSelected Phase = iota
	// ProjectSelected means a project is chosen but no scan.
	ProjectSelected
	// ScanSelected means a scan of the chosen project is selected.
	ScanSelected
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case NoProjectSelected:
		return "no project selected"
	case ProjectSelected:
		return "project selected"
	case ScanSelected:
		return "scan selected"
	default:
		return "unknown"
	}
}

// State is the selection of one browsing session.
// The zero value is the NoProjectSelected phase.
type State struct {
	// Project is the selected project, nil when none is selected.
	Project *model.Project

	// ScanID is the selected scan, empty when none is selected.
	ScanID string

	// Detail is the loaded scan. When non-nil, Detail.ID == ScanID.
	Detail *model.Scan

	// Generation increases with every selection change that invalidates
	// in-flight loads.
	Generation uint64

	// Loading is true while the load for ScanID is outstanding.
	Loading bool

	// LoadErr is the failure of the last load for ScanID.
	LoadErr error
}

// Phase returns the current phase.
func (s State) Phase() Phase {
	switch {
	case s.Project == nil:
		return NoProjectSelected
	case s.ScanID == "":
		return ProjectSelected
	default:
		return ScanSelected
	}
}

// ProjectID returns the id of the selected project or "".
func (s State) ProjectID() string {
	if s.Project == nil {
		return ""
	}
	return s.Project.ID
}

// Scans returns the scans of the selected project in service order.
func (s State) Scans() []model.ScanSummary {
	if s.Project == nil {
		return nil
	}
	return s.Project.Scans
}

// Exportable reports whether the detail is loaded and resolved.
func (s State) Exportable() bool {
	return s.Detail != nil && s.Detail.IsResolved()
}

// LoadRequest asks the caller to load a scan.
type LoadRequest struct {
	ScanID     string
	Generation uint64
}

// LoadResult is the outcome of a LoadRequest.
type LoadResult struct {
	ScanID     string
	Generation uint64
	Scan       *model.Scan
	Err        error
}

// SelectProject moves to ProjectSelected(p). Selecting the project that is
// already selected returns s unchanged; any other project clears the scan
// selection, the detail and the load error.
func SelectProject(s State, p model.Project) State {
	if s.Project != nil && s.Project.ID == p.ID {
		return s
	}
	return State{
		Project:    &p,
		Generation: s.Generation + 1,
	}
}

// ClearProject returns to NoProjectSelected.
func ClearProject(s State) State {
	if s.Project == nil {
		return s
	}
	return State{Generation: s.Generation + 1}
}

// SelectScan moves to ScanSelected and returns the load to start.
//
// The request is nil when nothing needs loading: the scan is already selected
// and either loaded or still loading. A scan whose last load failed is loaded
// again.
func SelectScan(s State, scanID string) (State, *LoadRequest, error) {
	if s.Project == nil {
		return s, nil, ErrNoProject
	}
	if scanID == "" {
		return s, nil, ErrEmptyScanID
	}
	if _, ok := s.Project.FindScan(scanID); !ok {
		return s, nil, ErrUnknownScan
	}
	if s.ScanID == scanID && s.LoadErr == nil {
		return s, nil, nil
	}

	next := State{
		Project:    s.Project,
		ScanID:     scanID,
		Generation: s.Generation + 1,
		Loading:    true,
	}
	return next, &LoadRequest{ScanID: scanID, Generation: next.Generation}, nil
}

// ApplyDetail applies a finished load. Results for an older generation or a
// different scan are discarded, in which case the boolean is false.
func ApplyDetail(s State, r LoadResult) (State, bool) {
	if r.Generation != s.Generation || r.ScanID != s.ScanID || s.ScanID == "" {
		return s, false
	}

	s.Loading = false
	if r.Err != nil {
		s.Detail = nil
		s.LoadErr = r.Err
		return s, true
	}
	if r.Scan == nil || r.Scan.ID != s.ScanID {
		s.Detail = nil
		s.LoadErr = ErrDetailMismatch
		return s, true
	}
	s.Detail = r.Scan
	s.LoadErr = nil
	return s, true
}
