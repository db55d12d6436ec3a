package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Configuration errors: abort before any mutation
	ErrConfigLoad      ErrorCode = "CONFIG_LOAD"
	ErrConfigParse     ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid   ErrorCode = "CONFIG_INVALID"
	ErrConfigDuplicate ErrorCode = "CONFIG_DUPLICATE_TARGET"

	// State store errors: read corruption degrades to empty state,
	// write failure is fatal to the run
	ErrStateRead  ErrorCode = "STATE_READ"
	ErrStateWrite ErrorCode = "STATE_WRITE"

	// Filesystem errors: localized to a single action
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// Package backend errors: localized to that package's action
	ErrBackendUnavailable ErrorCode = "PM_BACKEND_UNAVAILABLE"
	ErrBackendCommand     ErrorCode = "PM_COMMAND"
	ErrBackendTimeout     ErrorCode = "PM_TIMEOUT"

	// Adoption errors
	ErrAdoptConflict ErrorCode = "ADOPT_CONFLICT"

	// Lock errors
	ErrLockHeld ErrorCode = "LOCK_HELD"
)

// OwlError represents a structured error with code and details
type OwlError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OwlError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OwlError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OwlError) Is(target error) bool {
	var targetErr *OwlError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OwlError with the given code and message
func New(code ErrorCode, message string) *OwlError {
	return &OwlError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OwlError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OwlError {
	return &OwlError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OwlError
func Wrap(err error, code ErrorCode, message string) *OwlError {
	if err == nil {
		return nil
	}
	return &OwlError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OwlError {
	if err == nil {
		return nil
	}
	return &OwlError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OwlError) WithDetail(key string, value interface{}) *OwlError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var owlErr *OwlError
	if errors.As(err, &owlErr) {
		return owlErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OwlError
func GetErrorCode(err error) ErrorCode {
	var owlErr *OwlError
	if errors.As(err, &owlErr) {
		return owlErr.Code
	}
	return ErrUnknown
}
