// Package errors provides structured error types for ievis.
//
// Every error raised by the core carries a machine-readable [Code] so the
// CLI, the HTTP API and editing collaborators can react without matching
// message text:
//   - INVALID_*: rejected input (documents, dimensions, relationships)
//   - *_NOT_FOUND: unknown elements, models or sessions
//   - NO_GEOMETRIC_DATA: a document without any shaped element
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRelationType, "%s is ground", id)
//	if errors.Is(err, errors.ErrCodeInvalidRelationType) {
//	    // reject the edit
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidDocument     Code = "INVALID_DOCUMENT"
	ErrCodeInvalidRelationType Code = "INVALID_RELATION_TYPE"
	ErrCodeInvalidGroupSize    Code = "INVALID_GROUP_SIZE"
	ErrCodeInvalidDimension    Code = "INVALID_DIMENSION"
	ErrCodeInvalidCommand      Code = "INVALID_COMMAND"
	ErrCodeInvalidElement      Code = "INVALID_ELEMENT"

	// Alternate outcomes surfaced as errors only when a caller requires geometry
	ErrCodeNoGeometricData Code = "NO_GEOMETRIC_DATA"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeElementNotFound Code = "ELEMENT_NOT_FOUND"
	ErrCodeModelNotFound   Code = "MODEL_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Concurrency errors
	ErrCodeStaleGeneration Code = "STALE_GENERATION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsNotFound reports whether err carries any of the *_NOT_FOUND codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeElementNotFound, ErrCodeModelNotFound, ErrCodeSessionNotFound:
		return true
	}
	return false
}

// IsInvalid reports whether err was caused by rejected caller input.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDocument, ErrCodeInvalidRelationType,
		ErrCodeInvalidGroupSize, ErrCodeInvalidDimension, ErrCodeInvalidCommand,
		ErrCodeInvalidElement, ErrCodeStaleGeneration:
		return true
	}
	return false
}
