// Package domainerrors defines the coded error type shared by every service.
// Stores return sentinel errors; services translate them into coded errors
// here, and the HTTP layer maps codes to statuses.
package domainerrors

import "errors"

// Code classifies a domain error for transport mapping and logging.
type Code string

const (
	CodeBadRequest           Code = "bad_request"
	CodeValidation           Code = "validation_error"
	CodeInvalidInput         Code = "invalid_input"
	CodeInvalidRating        Code = "invalid_rating"
	CodeNotFound             Code = "not_found"
	CodeConflict             Code = "conflict"
	CodeStaleState           Code = "stale_state"
	CodeIncompleteAssessment Code = "incomplete_assessment"
	CodeUnauthorized         Code = "unauthorized"
	CodeInternal             Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to API clients;
// cause is for logs only.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error with a client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from an error chain. Unrecognized errors are
// internal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from an error chain.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
