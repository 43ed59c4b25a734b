package exception

import (
	"errors"
	"fmt"
	"net/http"
)

// ApplicationError is an error the transport can show to a client: a safe
// message and the HTTP status it maps to. Cause keeps the underlying failure
// for logs and errors.Is.
type ApplicationError struct {
	Message    string
	StatusCode int
	Cause      error
}

func New(statusCode int, message string) ApplicationError {
	return ApplicationError{Message: message, StatusCode: statusCode}
}

// WithCause returns a copy of e carrying cause.
func (e ApplicationError) WithCause(cause error) ApplicationError {
	e.Cause = cause
	return e
}

func (e ApplicationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.Cause)
}

func (e ApplicationError) Unwrap() error {
	return e.Cause
}

// Is matches another ApplicationError with the same message and status, so
// sentinels match regardless of the cause attached.
func (e ApplicationError) Is(target error) bool {
	var targetErr ApplicationError
	if !errors.As(target, &targetErr) {
		return false
	}

	return e.Message == targetErr.Message && e.StatusCode == targetErr.StatusCode
}

// ErrorCode returns error code for an application error.
func (e ApplicationError) ErrorCode() int {
	return e.StatusCode
}

// Upstream reports whether the error is a failure of something the service
// depends on rather than of the request.
func (e ApplicationError) Upstream() bool {
	return e.StatusCode >= http.StatusInternalServerError
}
