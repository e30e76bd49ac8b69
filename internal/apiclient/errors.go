package apiclient

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is returned by every client call that does not succeed. Message is
// the fixed, user-facing text for the endpoint; the raw cause is kept for
// logs only.
type Error struct {
	Message    string
	StatusCode int // 0 when no response was received
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

// Cause exposes the raw failure to errors.Cause
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(message string, status int, cause error) *Error {
	return &Error{Message: message, StatusCode: status, cause: cause}
}

// IsUnauthorized reports whether err is an API rejection of the bearer token
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Message returns the user-facing message of err, or fallback when err does
// not come from the client
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Format renders err with its raw cause, for logging
func Format(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.cause != nil {
		return fmt.Sprintf("%v : %v", apiErr.Message, apiErr.cause)
	}
	return err.Error()
}
