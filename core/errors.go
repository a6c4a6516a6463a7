package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound signals a 404 from the backend; most fetch paths treat it
	// as a valid empty result rather than a failure.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthenticated is returned by pre-flight auth guards before any
	// network call is attempted.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is the single normalized form of a backend error response.
// The backend answers with `{"message": ...}`, `{"error": ...}` or
// `{"errors": {field: msg}}` depending on the endpoint; the HTTP client folds
// all three into this type so no caller re-derives shapes ad hoc.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err represents a backend 404.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnprocessable reports whether err is a backend 422, e.g. the
// "already enrolled" answer on a duplicate enroll attempt.
func IsUnprocessable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity
}

// ErrorMessage extracts a human-readable message from any error returned by
// the SDK, preferring backend-provided messages over Go error chains.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Fields) > 0 {
			for fld, msg := range apiErr.Fields {
				return fmt.Sprintf("%s: %s", fld, msg)
			}
		}
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		if len(vErr.Fields) > 0 {
			return fmt.Sprintf("%s: %s", vErr.Fields[0].Field, vErr.Fields[0].Error)
		}
		return vErr.Error()
	}
	return err.Error()
}
