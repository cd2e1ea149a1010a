package alertengine

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled means the external cancellation signal fired. It wins
	// over ErrTimeout when both contexts are dead.
	ErrCancelled = errors.New("fetch cancelled")
	// ErrTimeout means the per-request deadline elapsed first.
	ErrTimeout = errors.New("fetch timed out")
)

// HTTPError is a non-2xx response from an upstream feed.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
}

// MalformedError means the response body did not decode as the expected
// JSON shape.
type MalformedError struct {
	URL string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
