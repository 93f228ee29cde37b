// Package errors provides structured error handling with typed error codes.
//
// Error codes are grouped by component:
//   - General errors (1-99)
//   - Config errors (100-199): invalid parameters, bad date ranges, bad bounds
//   - Provider errors (200-299): sentiment or price lookup failures
//   - Ledger errors (300-399): trade log persistence and query failures
//   - Simulation errors (400-499): exit-resolution input problems
//   - Report errors (500-599): aggregation and report writing failures
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidDateRange, "start date after end date")
//	err := errors.Newf(errors.ErrCodeNoData, "no bars for %s on %s", symbol, date)
//	err := errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to query trades", cause)
//	if errors.HasCode(err, errors.ErrCodeNoData) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is a structured error carrying a code, a message, and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsConfigError reports whether the error is a fatal configuration error.
func IsConfigError(err error) bool {
	return IsConfigCode(GetCode(err))
}

// IsProviderError reports whether the error is a recoverable provider error.
// Provider errors degrade to skipping a symbol or a day; they never abort a run.
func IsProviderError(err error) bool {
	return IsProviderCode(GetCode(err))
}
