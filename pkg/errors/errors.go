// Package errors provides structured error types for gobble.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the layout core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input and configuration validation failures
//   - UNKNOWN_* / NOT_FOUND: Resource resolution failures
//   - LAYOUT_*: Layout search outcomes
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "radius must be positive, got %v", r)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnknownSymbol, origErr, "card %d", n)
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidSymbolCount Code = "INVALID_SYMBOL_COUNT"
	ErrCodeInvalidManifest    Code = "INVALID_MANIFEST"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeInvalidImage       Code = "INVALID_IMAGE"

	// Resource resolution errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeUnknownSymbol Code = "UNKNOWN_SYMBOL"

	// Layout search outcomes
	ErrCodeLayoutExhausted Code = "LAYOUT_EXHAUSTED"

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

// coder is implemented by error types that carry a code without being *Error.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error, or any error exposing
// a Code method, with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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

// ExhaustedError reports that a layout search hit its attempt limit without
// producing an acceptable card.
type ExhaustedError struct {
	Card     int            // Card number, 0 when unknown
	Attempts int            // Attempts made
	Reasons  map[string]int // Rejection counts keyed by reason
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("%s: no valid layout after %d attempts", ErrCodeLayoutExhausted, e.Attempts)
	if e.Card != 0 {
		msg = fmt.Sprintf("%s: card %d: no valid layout after %d attempts", ErrCodeLayoutExhausted, e.Card, e.Attempts)
	}
	if len(e.Reasons) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Reasons))
	for k := range e.Reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, e.Reasons[k])
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

// Code returns the error code for this error type.
func (e *ExhaustedError) Code() Code {
	return ErrCodeLayoutExhausted
}
