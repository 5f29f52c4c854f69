package model

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ErrUnexpectedProjectRef is returned when the project field of a scan is
// neither a string, an object nor null.
var ErrUnexpectedProjectRef = errors.New("project reference must be a string id or an object")

// Project is a named collection of scans.
// Projects are created by the service and are read-only here.
type Project struct {
	// ID identifies the project.
	ID string `json:"_id"`

	// Name is the display name of the project.
	Name string `json:"projectName"`

	// CreatedAt is when the project was created, as sent by the service.
	CreatedAt Timestamp `json:"createdAt,omitzero"`

	// Scans lists the scans of the project in the order the service returned them.
	Scans []ScanSummary `json:"scans,omitzero"`
}

// FindScan returns the summary of the scan with the given id.
func (p *Project) FindScan(scanID string) (ScanSummary, bool) {
	for _, s := range p.Scans {
		if s.ID == scanID {
			return s, true
		}
	}
	return ScanSummary{}, false
}

// ScanSummary is the short form of a scan embedded in a project listing.
type ScanSummary struct {
	ID        string    `json:"_id"`
	Timestamp Timestamp `json:"timestamp,omitzero"`
	Username  string    `json:"username,omitzero"`
}

// Timestamp is a point in time exactly as the service sent it.
//
// Design decision: We keep the original text rather than a time.Time so that
// exported documents reproduce the value byte-for-byte. Parsing happens only
// when a human-friendly rendering is needed.
type Timestamp string

// timestampLayouts are tried in order when parsing a Timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Time parses the timestamp. The boolean is false when no layout matches.
func (t Timestamp) Time() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, string(t)); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Local renders the timestamp in local time for listings.
// Unparseable values are returned unchanged.
func (t Timestamp) Local() string {
	parsed, ok := t.Time()
	if !ok {
		return string(t)
	}
	return parsed.Local().Format("2006-01-02 15:04:05")
}

// ProjectRef is the project field of a scan.
// It is one of three shapes: absent, Unresolved (a bare project id) or
// Resolved (an embedded project). The zero value is absent.
type ProjectRef struct {
	id      string
	project *Project
}

// UnresolvedRef returns a reference that only carries the project id.
func UnresolvedRef(id string) ProjectRef {
	return ProjectRef{id: id}
}

// ResolvedRef returns a reference holding an embedded project.
func ResolvedRef(p Project) ProjectRef {
	return ProjectRef{id: p.ID, project: &p}
}

// IsAbsent reports whether the scan carried no project at all.
func (r ProjectRef) IsAbsent() bool {
	return r.project == nil && r.id == ""
}

// IsResolved reports whether the reference holds an embedded project.
func (r ProjectRef) IsResolved() bool {
	return r.project != nil
}

// ID returns the referenced project id in both shapes.
func (r ProjectRef) ID() string {
	return r.id
}

// Project returns the embedded project. The boolean is false unless resolved.
func (r ProjectRef) Project() (Project, bool) {
	if r.project == nil {
		return Project{}, false
	}
	return *r.project, true
}

// String implements fmt.Stringer.
func (r ProjectRef) String() string {
	switch {
	case r.project != nil:
		return r.project.Name
	case r.id != "":
		return "unresolved:" + r.id
	default:
		return "<none>"
	}
}

// UnmarshalJSON decodes a string id, an embedded object or null.
func (r *ProjectRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch jsontext.Value(data).Kind() {
	case 'n':
		*r = ProjectRef{}
		return nil
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UnresolvedRef(id)
		return nil
	case '{':
		var p Project
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("failed to decode embedded project: %w", err)
		}
		*r = ResolvedRef(p)
		return nil
	default:
		return ErrUnexpectedProjectRef
	}
}

// MarshalJSON encodes the reference in the same shape it was received.
func (r ProjectRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.project != nil:
		return json.Marshal(r.project)
	case r.id != "":
		return json.Marshal(r.id)
	default:
		return []byte("null"), nil
	}
}
