// Package errors provides structured error types for the docnet store.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine and storage backends
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every precondition violation in the store surfaces as an *Error with a
// stable code. Callers branch on codes, not message text:
//
//	if _, err := store.Remove(v); errors.Is(err, errors.ErrCodeStillConnected) {
//	    // detach the incident edges first
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidSnapshot, origErr, "decode %q", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Argument errors
	ErrCodeTypeMismatch     Code = "TYPE_MISMATCH"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidAnchor    Code = "INVALID_ANCHOR"

	// Insertion-state errors
	ErrCodeAlreadyInserted Code = "ALREADY_INSERTED"
	ErrCodeNotInserted     Code = "NOT_INSERTED"
	ErrCodeNotReady        Code = "NOT_READY"
	ErrCodeStillConnected  Code = "STILL_CONNECTED"

	// Lookup errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFieldNotFound Code = "FIELD_NOT_FOUND"

	// Persistence and configuration errors
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
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
