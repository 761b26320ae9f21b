// Package errors provides structured error types for tilestitch.
//
// Every fatal condition the tool can hit carries a machine-readable [Code]
// so that the CLI and tests can tell a corrupt tile name apart from an empty
// dataset or a failed compositor run without matching on message text.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND / *_UNREADABLE: Filesystem and executable lookup failures
//   - COMPOSITOR_*: Failures of the external compositing program
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyDataset, "no tiles in %s", dir)
//	if errors.Is(err, errors.ErrCodeEmptyDataset) {
//	    // Handle empty directory
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDirectoryUnreadable, origErr, "read %s", dir)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidTileName  Code = "INVALID_TILE_NAME"
	ErrCodeInvalidExtension Code = "INVALID_EXTENSION"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Discovery errors
	ErrCodeDirectoryUnreadable Code = "DIRECTORY_UNREADABLE"
	ErrCodeEmptyDataset        Code = "EMPTY_DATASET"

	// External tool errors
	ErrCodeCompositorNotFound Code = "COMPOSITOR_NOT_FOUND"
	ErrCodeCompositorFailed   Code = "COMPOSITOR_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a Code alongside the message shown to the user. Cause, when
// set, is the lower-level failure (an os.ReadDir or strconv error, a process
// exit) that produced it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes Cause to the standard errors package.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error caused by cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an outer error with a different code still matches an inner one.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost *Error's message without its code and
// cause, or err.Error() for other errors. It is what warnings print.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitError reports a compositor process that ran but exited non-zero.
type ExitError struct {
	Command string // Executable name
	Status  int    // Process exit code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Status)
}

// Code is always ErrCodeCompositorFailed.
func (e *ExitError) Code() Code {
	return ErrCodeCompositorFailed
}
