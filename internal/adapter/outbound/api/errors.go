package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnauthorized is returned when the server rejects the session (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the server denies access (403).
	ErrForbidden = errors.New("access denied")

	// ErrServer is returned when the server fails internally (5xx).
	ErrServer = errors.New("server error")

	// ErrUnreachable is returned when no response was received at all
	// (connection failure, DNS, timeout). Distinguishes "server said no"
	// from "could not reach server".
	ErrUnreachable = errors.New("server unreachable")
)

// ErrorResponse is the structured error payload returned by the backend.
type ErrorResponse struct {
	// Timestamp is when the error occurred, server-side.
	Timestamp string `json:"timestamp"`
	// Status is the HTTP status code.
	Status int `json:"status"`
	// Error is the short error name (e.g. "Bad Request").
	Error string `json:"error"`
	// Message is the human-readable detail for display.
	Message string `json:"message"`
	// Path is the request path that produced the error.
	Path string `json:"path"`
}

// AuthError is returned when a request fails with 401. Receiving one means
// the persisted credentials have already been cleared and the caller should
// direct the user back to login.
type AuthError struct {
	// Payload is the backend error body, when one was provided.
	Payload ErrorResponse
}

// Error returns a human-readable description of the authentication failure.
func (e *AuthError) Error() string {
	if e.Payload.Message != "" {
		return fmt.Sprintf("unauthorized: %s", e.Payload.Message)
	}
	return "unauthorized"
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnauthorized).
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// BackendMessage returns the server-provided message field, or "".
func (e *AuthError) BackendMessage() string {
	return e.Payload.Message
}

// ForbiddenError is returned when a request fails with 403. No client
// state is changed; the caller decides the UI treatment.
type ForbiddenError struct {
	// Payload is the backend error body, when one was provided.
	Payload ErrorResponse
}

// Error returns a human-readable description of the authorization failure.
func (e *ForbiddenError) Error() string {
	if e.Payload.Message != "" {
		return fmt.Sprintf("access denied: %s", e.Payload.Message)
	}
	return "access denied"
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrForbidden).
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// BackendMessage returns the server-provided message field, or "".
func (e *ForbiddenError) BackendMessage() string {
	return e.Payload.Message
}

// ServerError is returned when a request fails with a 5xx status.
type ServerError struct {
	// StatusCode is the HTTP status the server returned.
	StatusCode int
	// Payload is the backend error body, when one was provided.
	Payload ErrorResponse
}

// Error returns a human-readable description of the server failure.
func (e *ServerError) Error() string {
	if e.Payload.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Payload.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrServer).
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// BackendMessage returns the server-provided message field, or "".
func (e *ServerError) BackendMessage() string {
	return e.Payload.Message
}

// APIError is returned for 4xx statuses other than 401/403. It carries the
// backend's structured payload verbatim so callers can display field-level
// validation messages.
type APIError struct {
	// StatusCode is the HTTP status the server returned.
	StatusCode int
	// Payload is the backend error body, when one was provided.
	Payload ErrorResponse
}

// Error returns the backend-provided message when present.
func (e *APIError) Error() string {
	if e.Payload.Message != "" {
		return e.Payload.Message
	}
	if e.Payload.Error != "" {
		return e.Payload.Error
	}
	return fmt.Sprintf("request failed (%d)", e.StatusCode)
}

// BackendMessage returns the server-provided message field, or "".
func (e *APIError) BackendMessage() string {
	return e.Payload.Message
}

// ConnError is returned when the request never produced a response:
// connection refused, DNS failure, or timeout.
type ConnError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error returns a human-readable description of the connectivity failure.
func (e *ConnError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("server unreachable: %v", e.Cause)
	}
	return "server unreachable"
}

// Unwrap returns the underlying error cause.
func (e *ConnError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnreachable).
func (e *ConnError) Is(target error) bool {
	return target == ErrUnreachable
}

// Message extracts the backend-provided display message from any gateway
// error, falling back to the error's own text. Views use this to surface
// the structured payload's message field when present.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var bm interface{ BackendMessage() string }
	if errors.As(err, &bm) && bm.BackendMessage() != "" {
		return bm.BackendMessage()
	}
	return err.Error()
}
