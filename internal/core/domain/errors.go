package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuestion indicates a chat submission with no text.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrQueryInFlight indicates a chat submission while a query is outstanding.
	// The submission is ignored rather than queued.
	ErrQueryInFlight = errors.New("query already in flight")

	// ErrSessionClosed indicates the chat session's owner has gone away.
	ErrSessionClosed = errors.New("chat session closed")

	// ErrPollerStopped indicates an operation on a stopped task poller.
	ErrPollerStopped = errors.New("task poller stopped")

	// ErrNoSelection indicates a bulk action with nothing selected.
	ErrNoSelection = errors.New("nothing selected")
)

// ServerError is returned when the backend answered but rejected the request:
// a non-2xx status, a success flag of false, or a malformed success body.
// It is never replaced by fallback data.
type ServerError struct {
	// StatusCode is the HTTP status. It is 0 when a 2xx body signalled failure.
	StatusCode int

	// Message is the backend's explanation, passed through verbatim.
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// TransportError is returned when no interpretable response was received:
// connection refused, DNS failure, timeout, or a broken response stream.
type TransportError struct {
	// Op names the operation, e.g. "GET /files/list".
	Op string

	// Cause is the underlying network error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("backend unreachable: %v", e.Cause)
	}
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ServerMessage returns the backend message of a *ServerError in err's chain,
// or err's text otherwise.
func ServerMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
