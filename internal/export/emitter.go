package export

import (
	"fmt"

	"github.com/nao1215/reportscope/internal/model"
)

// Document is a rendered export ready to be stored.
type Document struct {
	// Name is the file name, report-<scanID>.<ext>.
	Name string

	// ContentType is the MIME type of Data.
	ContentType string

	// Data is the encoded document.
	Data []byte
}

// FileName returns the export file name of a scan.
func FileName(scanID, ext string) string {
	return "report-" + scanID + "." + ext
}

// Emitter renders scans with one DocumentRenderer.
type Emitter struct {
	renderer DocumentRenderer
}

// NewEmitter returns an emitter using renderer.
func NewEmitter(renderer DocumentRenderer) *Emitter {
	return &Emitter{renderer: renderer}
}

// Renderer returns the renderer of the emitter.
func (e *Emitter) Renderer() DocumentRenderer {
	return e.renderer
}

// Emit renders the scan. It returns ErrPrecondition, without calling the
// renderer, unless the scan is present and its project is resolved.
func (e *Emitter) Emit(scan *model.Scan) (*Document, error) {
	fields, err := FieldsFromScan(scan)
	if err != nil {
		return nil, err
	}

	data, err := e.renderer.Render(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to render report %s: %w", scan.ID, err)
	}

	return &Document{
		Name:        FileName(scan.ID, e.renderer.Extension()),
		ContentType: e.renderer.ContentType(),
		Data:        data,
	}, nil
}
