package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for an unsupported document format name.
var ErrUnknownFormat = errors.New("unknown document format")

// DocumentRenderer turns document fields into bytes.
type DocumentRenderer interface {
	// Render lays out the fields and returns the encoded document.
	Render(f Fields) ([]byte, error)

	// Extension is the file extension without the leading dot.
	Extension() string

	// ContentType is the MIME type of the rendered document.
	ContentType() string
}

// Format names a document format.
type Format string

const (
	// FormatPDF renders a paginated PDF.
	FormatPDF Format = "pdf"
	// FormatMarkdown renders GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"
	// FormatText renders plain text.
	FormatText Format = "text"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatPDF, FormatMarkdown, FormatText}
}

// ParseFormat accepts a format name or its file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// NewRenderer returns the default renderer for format.
func NewRenderer(f Format) (DocumentRenderer, error) {
	switch f {
	case FormatPDF:
		return NewPDFRenderer(), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(), nil
	case FormatText:
		return TextRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// TextRenderer renders the document as plain UTF-8 text.
type TextRenderer struct{}

// Render implements DocumentRenderer.
func (TextRenderer) Render(f Fields) ([]byte, error) {
	return []byte(f.Text()), nil
}

// Extension implements DocumentRenderer.
func (TextRenderer) Extension() string { return "txt" }

// ContentType implements DocumentRenderer.
func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
