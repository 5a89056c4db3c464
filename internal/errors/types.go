// Package errors defines the generation-time error model. Every failure the
// generator can surface is a GenError carrying a code, a source location and
// optional suggestions; there is no runtime error path.
package errors

import (
	"fmt"
)

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// StructuralErrorCode covers violations of the two-block top-level shape:
	// wrong block order, a variant without a payload type, malformed bounds,
	// an empty union.
	StructuralErrorCode

	// ReceiverErrorCode is raised when a method declaration's receiver
	// position does not match any recognized receiver form.
	ReceiverErrorCode

	ConfigErrorCode
	GenerateErrorCode
	FileSystemErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case StructuralErrorCode:
		return "StructuralError"
	case ReceiverErrorCode:
		return "ReceiverError"
	case ConfigErrorCode:
		return "ConfigError"
	case GenerateErrorCode:
		return "GenerateError"
	case FileSystemErrorCode:
		return "FileSystemError"
	default:
		return "UnknownError"
	}
}

// SourceLocation represents where an error occurred in a dispatch file
type SourceLocation struct {
	File   string // file path where error occurred
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty returns true if the location has no useful information
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// GenError is the concrete error type used throughout the generator
type GenError struct {
	Code    ErrorCode
	Message string
	Loc     SourceLocation
	Cause   error
	Hints   []string // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *GenError) Error() string {
	if e.Loc.IsEmpty() {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc.String(), e.Code, e.Message)
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *GenError) Unwrap() error {
	return e.Cause
}

// WithLocation adds location information to the error
func (e *GenError) WithLocation(loc SourceLocation) *GenError {
	e.Loc = loc
	return e
}

// WithCause adds an underlying error cause
func (e *GenError) WithCause(cause error) *GenError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *GenError) WithSuggestion(suggestion string) *GenError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// New creates a new GenError with the specified code and message
func New(code ErrorCode, message string) *GenError {
	return &GenError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new GenError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GenError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *GenError {
	return &GenError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *GenError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// CodeOf returns the error code of err if it is (or wraps) a GenError
func CodeOf(err error) ErrorCode {
	for err != nil {
		if ge, ok := err.(*GenError); ok {
			return ge.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return UnknownErrorCode
		}
		err = u.Unwrap()
	}
	return UnknownErrorCode
}
