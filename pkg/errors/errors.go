// Package errors provides structured error types for the co-simulation toolbox.
//
// Every failure surfaced by the driver, the topology structures and the
// optimal-value finder carries a machine-readable [Code] so callers can react
// to the category without parsing messages.
//
// # Error Codes
//
//   - INVALID_PARAMETER: argument rejected before any solver interaction
//   - NOT_FOUND: unknown entity, node or link identifier
//   - TYPE_MISMATCH / ATTRIBUTE_MISMATCH: entity exists but cannot report the attribute
//   - SESSION_LIFECYCLE: open/start/step/end/close failure reported by the solver
//   - SESSION_BUSY: a second run attempted while the solver session is in use
//   - STRUCTURAL: graph or tree invariant violation
//   - SHAPE: data handed to the finder is empty or not numeric
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "sampling period must be >= 1, got %d", p)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSessionLifecycle, cause, "step %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Parameter validation errors
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"

	// Lookup errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeTypeMismatch      Code = "TYPE_MISMATCH"
	ErrCodeAttributeMismatch Code = "ATTRIBUTE_MISMATCH"

	// Solver session errors
	ErrCodeSessionLifecycle Code = "SESSION_LIFECYCLE"
	ErrCodeSessionBusy      Code = "SESSION_BUSY"

	// Data structure errors
	ErrCodeStructural Code = "STRUCTURAL"
	ErrCodeShape      Code = "SHAPE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so a SESSION_LIFECYCLE error wrapping a NOT_FOUND cause matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
