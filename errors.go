package camfs

import "errors"

var (
	// ErrNotFound is returned when a file is absent or reports zero size
	ErrNotFound = errors.New("not found")
	// ErrRouteMismatch is returned when a request path is not a view path
	ErrRouteMismatch = errors.New("route mismatch")
	// ErrConnectivityTimeout is returned when the network did not come up in time
	ErrConnectivityTimeout = errors.New("connectivity timeout")
	// ErrNoCard is returned when the removable card is not attached
	ErrNoCard = errors.New("no card attached")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
