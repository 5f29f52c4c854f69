package export

import (
	"errors"
	"strings"

	"github.com/nao1215/reportscope/internal/format"
	"github.com/nao1215/reportscope/internal/model"
)

// ErrPrecondition is returned when exporting a scan that is missing or whose
// project is not resolved. No document is rendered in that case.
var ErrPrecondition = errors.New("export requires a loaded scan with a resolved project")

// Fields is the content of an exported document.
type Fields struct {
	// ScanID identifies the exported scan. It is used for metadata only.
	ScanID string

	Username  string
	Project   string
	Timestamp string

	// Body is the formatted report text.
	Body string

	// Report is the structured report behind Body, for renderers that add
	// charts or tables. It may be nil.
	Report *model.ReportData
}

// FieldsFromScan builds the document fields of a resolved scan.
func FieldsFromScan(scan *model.Scan) (Fields, error) {
	projectName, ok := scan.ProjectName()
	if !ok {
		return Fields{}, ErrPrecondition
	}
	return Fields{
		ScanID:    scan.ID,
		Username:  scan.Username,
		Project:   projectName,
		Timestamp: string(scan.Timestamp),
		Body:      format.Format(scan.ReportData),
		Report:    scan.ReportData,
	}, nil
}

// Header returns the metadata lines in document order.
func (f Fields) Header() []string {
	return []string{
		"Username: " + f.Username,
		"Project: " + f.Project,
		"Timestamp: " + f.Timestamp,
	}
}

// Text returns the whole document as plain text: the header lines, a blank
// line and the formatted report.
func (f Fields) Text() string {
	return strings.Join(f.Header(), "\n") + "\n\n" + f.Body
}

// Lines returns Text split into lines. A trailing newline does not produce
// an extra empty line.
func (f Fields) Lines() []string {
	return strings.Split(strings.TrimSuffix(f.Text(), "\n"), "\n")
}
