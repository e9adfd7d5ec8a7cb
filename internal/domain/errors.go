package domain

import (
	"errors"
	"fmt"
)

// User-facing messages shown for each failure kind
const (
	MsgEmptyQuery       = "Please enter a search query"
	MsgNoSources        = "Please select at least one source"
	MsgBackendFallback  = "Failed to fetch jobs"
	MsgTransportFailure = "Error connecting to server. Please try again."
)

// Failure kinds recorded on a session
const (
	KindValidation = "validation"
	KindBackend    = "backend"
	KindTransport  = "transport"
)

// ValidationError rejects a request before it reaches the network
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// BackendError is returned when the backend answers with success=false
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return MsgBackendFallback
	}
	return e.Message
}

// TransportError covers network failures, timeouts, non-2xx statuses and
// malformed responses. The cause is kept for diagnostics only.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return MsgTransportFailure
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ErrorKind classifies err into one of the failure kinds, or "" if unknown
func ErrorKind(err error) string {
	var (
		ve *ValidationError
		be *BackendError
		te *TransportError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &be):
		return KindBackend
	case errors.As(err, &te):
		return KindTransport
	default:
		return ""
	}
}
