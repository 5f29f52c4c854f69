package api

import (
	"errors"
	"fmt"
)

// ErrFetch matches every *FetchError.
var ErrFetch = errors.New("fetch failed")

// FetchError describes a failed retrieval from a remote service.
type FetchError struct {
	// Op is the operation that failed, e.g. "get scan".
	Op string

	// URL is the requested resource.
	URL string

	// StatusCode is the HTTP status when the server answered, else 0.
	StatusCode int

	// Err is the underlying cause. It is nil for a plain status failure.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("failed to %s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("failed to %s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
