package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidName is returned when a document name would escape the sink.
var ErrInvalidName = errors.New("invalid document name")

// Sink stores rendered documents.
type Sink interface {
	// Store saves doc and returns where it was written.
	Store(ctx context.Context, doc *Document) (string, error)
}

// DirSink writes documents into a local directory.
type DirSink struct {
	dir string
}

// NewDirSink returns a sink writing into dir. The directory is created on
// first use.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Dir returns the target directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Store implements Sink.
func (s *DirSink) Store(ctx context.Context, doc *Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(doc.Name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(s.dir, doc.Name)
	if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
