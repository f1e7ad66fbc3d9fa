// Package errors provides structured error types for the LayerMix application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the preview server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that point at the offending table row
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Parsing and resolution codes identify exactly which validation failed
// (INVALID_ENTITY, ROW_PARSE, LAYOUT_ROW, ...) so that a human can fix the
// source data. Collaborator codes (SOURCE_ERROR, DECODE_ERROR, FONT_ERROR,
// WRITE_ERROR) wrap I/O failures while preserving the underlying cause.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidEntity, "canvas_id cannot be empty")
//	if errors.Is(err, errors.ErrCodeInvalidEntity) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayoutRow, cause, "layout row %d", row)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Entity construction and table parsing errors
	ErrCodeInvalidEntity Code = "INVALID_ENTITY"
	ErrCodeRowParse      Code = "ROW_PARSE"

	// Layout resolution errors
	ErrCodeEmptyLayoutTable    Code = "EMPTY_LAYOUT_TABLE"
	ErrCodeMissingRequiredData Code = "MISSING_REQUIRED_DATA"
	ErrCodeMalformedRow        Code = "MALFORMED_ROW"
	ErrCodeCanvasNotFound      Code = "CANVAS_NOT_FOUND"
	ErrCodeAmbiguousCanvas     Code = "AMBIGUOUS_CANVAS"
	ErrCodeLayerNotFound       Code = "LAYER_NOT_FOUND"
	ErrCodeAmbiguousLayer      Code = "AMBIGUOUS_LAYER_ORIGIN"
	ErrCodeDuplicateLayer      Code = "DUPLICATE_LAYER_ID"
	ErrCodeLayoutRow           Code = "LAYOUT_ROW"

	// Tabular source errors
	ErrCodeTableNotFound Code = "TABLE_NOT_FOUND"
	ErrCodeSource        Code = "SOURCE_ERROR"

	// Rendering collaborator errors
	ErrCodeDecode Code = "DECODE_ERROR"
	ErrCodeFont   Code = "FONT_ERROR"
	ErrCodeWrite  Code = "WRITE_ERROR"

	// Configuration and internal errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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
