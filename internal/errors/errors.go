// Package errors provides coded domain errors for the search core.
//
// Usage:
//
//	// In the document mapper - return typed errors
//	if song.FolderPath == "" {
//	    return nil, errors.Validation("folder is required")
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrUnsupportedQueryClass) {
//	    // reject the request, do not retry
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeValidation:
//	    case errors.CodeMissingReference:
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the search core.
const (
	CodeValidation            Code = "VALIDATION"
	CodeMissingReference      Code = "MISSING_REFERENCE"
	CodeUnsupportedQueryClass Code = "UNSUPPORTED_QUERY_CLASS"
	CodeNotFound              Code = "NOT_FOUND"
	CodeInternal              Code = "INTERNAL"
)

// Retryable reports whether an operation failing with this code may succeed
// when repeated with the same input. Caller-input failures never are.
func (c Code) Retryable() bool {
	return c == CodeInternal
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation            = &Error{Code: CodeValidation, Message: "validation error"}
	ErrMissingReference      = &Error{Code: CodeMissingReference, Message: "missing reference"}
	ErrUnsupportedQueryClass = &Error{Code: CodeUnsupportedQueryClass, Message: "unsupported query class"}
	ErrNotFound              = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal              = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// MissingReference creates an error for a structural reference that is absent,
// such as an ID3 entity without a folder id.
func MissingReference(msg string) *Error {
	return &Error{Code: CodeMissingReference, Message: msg}
}

// MissingReferencef creates a missing reference error with formatted message.
func MissingReferencef(format string, args ...any) *Error {
	return &Error{Code: CodeMissingReference, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedQueryClass creates an error for a search class that cannot be resolved.
func UnsupportedQueryClass(msg string) *Error {
	return &Error{Code: CodeUnsupportedQueryClass, Message: msg}
}

// UnsupportedQueryClassf creates an unsupported query class error with formatted message.
func UnsupportedQueryClassf(format string, args ...any) *Error {
	return &Error{Code: CodeUnsupportedQueryClass, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
