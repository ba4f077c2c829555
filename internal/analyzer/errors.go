package analyzer

import (
	"errors"
	"fmt"
)

// Sentinel errors callers branch on with errors.Is.
var (
	// ErrInvalidURL signals that raw input could not be normalized to an origin.
	ErrInvalidURL = errors.New("invalid url")
	// ErrConflict signals that a page with the same origin already exists.
	ErrConflict = errors.New("page already exists")
	// ErrNotFound signals that the requested record does not exist.
	ErrNotFound = errors.New("page not found")
)

// FetchError wraps a transport-level failure reaching a remote page.
// HTTP error statuses are not fetch errors; only failures to obtain a
// response at all (DNS, refused connection, TLS, timeout) produce one.
type FetchError struct {
	Origin string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Origin, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
