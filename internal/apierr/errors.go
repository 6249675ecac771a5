// Package apierr defines the failure taxonomy shared by the agent and
// notification stages.
package apierr

import (
	"errors"
	"fmt"
)

// Stage identifies which step of an invocation produced a failure.
type Stage string

const (
	StageValidation   Stage = "validation"
	StageCreation     Stage = "creation"
	StageNotification Stage = "notification"
)

var (
	// ErrInvalidEndpoint indicates the agent platform base URL cannot be
	// turned into a valid creation endpoint.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrMissingAgentID indicates the platform accepted the request but
	// returned no agent identifier to reference.
	ErrMissingAgentID = errors.New("agent response has no id")
)

// ValidationError reports a missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the named field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps a network level failure reaching either API.
type TransportError struct {
	Stage Stage
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from either API.
type APIError struct {
	Stage      Stage
	StatusCode int
	Body       string
	// Message is the error or message field of a JSON body, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed with HTTP %d: %s", e.Stage, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed with HTTP %d", e.Stage, e.StatusCode)
}

// MalformedResponseError is a 2xx response whose body is not the JSON
// document that was expected.
type MalformedResponseError struct {
	Stage Stage
	Body  string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s response could not be parsed: %v", e.Stage, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError or an invalid
// endpoint, the two failures raised before any network call.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidEndpoint) {
		return true
	}
	var target *ValidationError
	return errors.As(err, &target)
}
