package flights

import (
	"errors"
	"net/http"

	"github.com/yegors/flight-tracker/internal/aviation"
)

var (
	// ErrValidation marks a request rejected before any upstream call
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an upstream answer without usable data
	ErrNotFound = errors.New("no usable data")
)

// ValidationError is a client-caused input problem. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) succeed
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// OpError is returned by every Service operation. It knows which status code
// and user-facing message the failure maps to.
type OpError struct {
	Op  Operation
	Err error
}

func (e *OpError) Error() string {
	return e.Op.Name + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// StatusCode maps the failure to an HTTP status
func (e *OpError) StatusCode() int {
	switch {
	case errors.Is(e.Err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(e.Err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the error text returned to callers
func (e *OpError) Message() string {
	var validationErr *ValidationError
	switch {
	case errors.As(e.Err, &validationErr):
		return validationErr.Message
	case errors.Is(e.Err, ErrNotFound):
		return e.Op.NotFoundMessage
	default:
		return e.Op.FailureMessage
	}
}

// Details is the diagnostic attached to upstream failures, nil otherwise
func (e *OpError) Details() any {
	if e.StatusCode() != http.StatusInternalServerError {
		return nil
	}
	var upstreamErr *aviation.UpstreamError
	if errors.As(e.Err, &upstreamErr) {
		return upstreamErr.Details()
	}
	return e.Err.Error()
}
