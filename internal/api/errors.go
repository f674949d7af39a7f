package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// and none is active, or when the server rejects the bearer token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials is returned when a login attempt is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnreachable is returned when the server cannot be contacted at all
	// (no HTTP response was received).
	ErrUnreachable = errors.New("server unreachable")
)

// StatusError is returned for any non-2xx response. Message carries the
// server's error body verbatim when it sent one; callers surface it to the
// user unmodified.
type StatusError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server-provided error text, empty if none.
	Message string
	// RequestID is the client-generated X-Request-ID of the failed request.
	RequestID string
}

// Error returns a human-readable description of the failure.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Is reports whether this error matches the target error.
// A 401 response matches ErrNotAuthenticated.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotAuthenticated && e.Status == http.StatusUnauthorized
}

// UnreachableError is returned when the request failed before a response
// arrived (connection refused, DNS failure, timeout).
type UnreachableError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error returns a human-readable description of the transport failure.
func (e *UnreachableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("server unreachable: %v", e.Cause)
	}
	return "server unreachable"
}

// Unwrap returns the underlying error cause.
func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnreachable).
func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}
