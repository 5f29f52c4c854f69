package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	pdfFont       = "GoMono"
	pdfFontSize   = 10.0
	pdfLineHeight = 4.5
	pdfMargin     = 10.0
	pdfCreator    = "reportscope"
)

// PDFRenderer lays the document out as monospaced text on A4 pages.
// Long lines wrap and pages break automatically. Text is set in an embedded
// Go Mono subset, so every field keeps its exact code points.
type PDFRenderer struct {
	compress     bool
	creationDate time.Time
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithPDFCompression toggles stream compression. It is on by default.
func WithPDFCompression(compress bool) PDFOption {
	return func(r *PDFRenderer) {
		r.compress = compress
	}
}

// WithPDFCreationDate fixes the creation and modification dates, which makes
// the output reproducible.
func WithPDFCreationDate(t time.Time) PDFOption {
	return func(r *PDFRenderer) {
		r.creationDate = t
	}
}

// NewPDFRenderer returns a PDF renderer.
func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extension implements DocumentRenderer.
func (r *PDFRenderer) Extension() string { return "pdf" }

// ContentType implements DocumentRenderer.
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Render implements DocumentRenderer.
func (r *PDFRenderer) Render(f Fields) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	if !r.creationDate.IsZero() {
		pdf.SetCreationDate(r.creationDate)
		pdf.SetModificationDate(r.creationDate)
	}
	pdf.SetTitle("Scan report "+f.ScanID, true)
	pdf.SetAuthor(f.Username, true)
	pdf.SetCreator(pdfCreator, true)

	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFont, "", gomono.TTF)
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", pdfFontSize)

	for _, line := range f.Lines() {
		if line == "" {
			pdf.Ln(pdfLineHeight)
			continue
		}
		pdf.MultiCell(0, pdfLineHeight, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
