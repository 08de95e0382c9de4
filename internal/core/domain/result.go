package domain

import "errors"

// Result is a successfully resolved backend payload.
//
// Simulated is true when the backend could not be reached and the value is
// deterministic fallback data. Server-reported failures never produce a
// Result; they are returned as *ServerError.
type Result[T any] struct {
	Value     T
	Simulated bool
}

// Live wraps v as a real backend response.
func Live[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Simulated wraps v as fallback data.
func Simulated[T any](v T) Result[T] {
	return Result[T]{Value: v, Simulated: true}
}

// Outcome is the shape of a backend call's result.
type Outcome int

// Possible outcomes.
const (
	// OutcomeOK means a response was received and parsed.
	OutcomeOK Outcome = iota

	// OutcomeServerFailure means the backend answered with a rejection.
	OutcomeServerFailure

	// OutcomeTransportFailure means no interpretable response was received.
	OutcomeTransportFailure
)

// String returns the string representation.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeServerFailure:
		return "server_failure"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Classify maps the error of a backend call to its Outcome.
// Errors that are neither *ServerError nor *TransportError are treated as
// transport failures, since the request did not produce a response.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case IsServerFailure(err):
		return OutcomeServerFailure
	default:
		return OutcomeTransportFailure
	}
}

// IsServerFailure reports whether err carries a *ServerError.
func IsServerFailure(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// IsTransportFailure reports whether err carries a *TransportError.
func IsTransportFailure(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
