package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrTransientFetch marks upstream failures that are retried on the next
	// sweep: network errors, timeouts, 429/5xx and malformed bodies.
	ErrTransientFetch = errors.New("transient fetch failure")
	// ErrUpstreamAuth is returned when the OpenFront API rejects our
	// credentials.
	ErrUpstreamAuth = errors.New("upstream rejected credentials")
)
