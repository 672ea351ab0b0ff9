// Package errors provides structured error types for cratesync.
//
// Every failure the sync core can surface carries a machine-readable [Code],
// so the CLI can distinguish a malformed Cargo.lock from a registry outage
// without string matching:
//
//   - MALFORMED_*, MISSING_FIELD: lock file and index parse failures
//   - INVALID_*: precondition violations (empty crate name, bad flags)
//   - INDEX_NOT_FOUND, ARCHIVE_FETCH_FAILED: registry failures
//   - PERSISTENCE_FAILED: filesystem failures while writing the cache
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingField, "package record %d has no version", i)
//	if errors.Is(err, errors.ErrCodeMissingField) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Lock file errors
	ErrCodeMalformedDocument Code = "MALFORMED_DOCUMENT"
	ErrCodeMissingField      Code = "MISSING_FIELD"
	ErrCodeMalformedDepSpec  Code = "MALFORMED_DEPENDENCY_SPEC"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE_NAME"
	ErrCodeInvalidVersion Code = "INVALID_VERSION"

	// Registry errors
	ErrCodeIndexNotFound  Code = "INDEX_NOT_FOUND"
	ErrCodeMalformedIndex Code = "MALFORMED_INDEX"
	ErrCodeArchiveFetch   Code = "ARCHIVE_FETCH_FAILED"

	// Cache errors
	ErrCodePersistence Code = "PERSISTENCE_FAILED"
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
