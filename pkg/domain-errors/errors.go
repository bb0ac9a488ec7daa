// Package domainerrors carries typed error codes from services to transports.
//
// Services return *Error values (or wrap lower-level errors with Wrap) so the HTTP
// layer can pick a status code without inspecting error strings. Store-level facts
// live in pkg/platform/sentinel and are translated into codes at the service edge.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for the caller.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is a coded, human-readable failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Message returns the outermost coded message, or "" for uncoded errors.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// IsClientError reports whether the error was caused by the caller's input.
func IsClientError(err error) bool {
	switch CodeOf(err) {
	case CodeBadRequest, CodeValidation, CodeNotFound, CodeConflict:
		return true
	default:
		return false
	}
}

// ToHTTPStatus maps a code to the status used on the wire. Every client-caused
// failure is a 400; everything else is a 500.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeNotFound, CodeConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
