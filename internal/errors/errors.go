// Package errors provides structured error types for visbench.
// All errors include a category, code and message for consistent handling
// across components. Every error in this tool is fatal to the current run;
// nothing is retried.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryConfig     ErrorCategory = "CONFIG"
	ErrCategoryPlan       ErrorCategory = "PLAN"
	ErrCategoryStore      ErrorCategory = "STORE"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Config codes
	CodeBadDimension      = "BAD_DIMENSION"
	CodeUnknownTarget     = "UNKNOWN_TARGET"
	CodeUnknownWriteMode  = "UNKNOWN_WRITE_MODE"
	CodeStreamingValidate = "STREAMING_VALIDATE"
	CodeBadIterations     = "BAD_ITERATIONS"
	CodeBadConfigFile     = "BAD_CONFIG_FILE"

	// Plan codes
	CodeColumnRowwise = "COLUMN_ROWWISE"
	CodeBadRowRange   = "BAD_ROW_RANGE"

	// Store codes
	CodeTableCreate = "TABLE_CREATE"
	CodeWriteFailed = "WRITE_FAILED"
	CodeReadFailed  = "READ_FAILED"

	// Validation codes
	CodeValidationFailed = "VALIDATION_FAILED"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// Error is the structured error type used throughout visbench.
type Error struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error returns a formatted error string.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new Error.
func New(category ErrorCategory, code, message string) *Error {
	return &Error{Category: category, Code: code, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *Error {
	return &Error{Category: category, Code: code, Message: message, Cause: cause}
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not an Error.
func GetCategory(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not an Error.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfig reports whether the error is a configuration error, i.e. one
// detected before any store activity.
func IsConfig(err error) bool {
	return GetCategory(err) == ErrCategoryConfig
}

// Convenience constructors for common errors.

func NewConfigError(code, message string) *Error {
	return New(ErrCategoryConfig, code, message)
}

func NewPlanError(code, message string) *Error {
	return New(ErrCategoryPlan, code, message)
}

func NewStoreError(code, message string, cause error) *Error {
	return Wrap(ErrCategoryStore, code, message, cause)
}

func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
