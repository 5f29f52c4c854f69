package model

// Scan is one vulnerability and language analysis run over a project.
type Scan struct {
	// ID identifies the scan.
	ID string `json:"_id"`

	// Timestamp is when the scan ran.
	Timestamp Timestamp `json:"timestamp,omitzero"`

	// Username is the user who ran the scan.
	Username string `json:"username,omitzero"`

	// Project is the owning project. The service may send it as a bare id;
	// the detail loader resolves it before display.
	Project ProjectRef `json:"project"`

	// ReportData is the structured report. Nil when the service sent none.
	ReportData *ReportData `json:"reportData,omitzero"`
}

// ProjectName returns the name of the embedded project.
// The boolean is false when the project is not resolved or has no name.
func (s *Scan) ProjectName() (string, bool) {
	if s == nil {
		return "", false
	}
	p, ok := s.Project.Project()
	if !ok || p.Name == "" {
		return "", false
	}
	return p.Name, true
}

// IsResolved reports whether the scan is ready for display and export:
// it exists and carries an embedded project with a name.
func (s *Scan) IsResolved() bool {
	_, ok := s.ProjectName()
	return ok
}

// WithProject returns a copy of the scan with its project reference replaced
// by the embedded project. The receiver is not modified.
func (s Scan) WithProject(p Project) Scan {
	s.Project = ResolvedRef(p)
	return s
}
