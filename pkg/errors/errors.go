// Package errors provides structured error types for the stackmotion application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the orchestrator
//   - Machine-readable error codes for programmatic handling
//   - Per-transition failure reporting that does not abort a whole run
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of a generation run:
//   - CONFIGURATION: invalid frame counts, fractions outside [0,1], mismatched object ids
//   - CORRUPT_CHECKPOINT: a committed transition lost a state or fails its digest
//   - PHYSICAL_INFEASIBILITY: the action sampler ran out of legal placements
//   - ARTIFACT_WRITE: the renderer or the checkpoint store failed to write
//   - CLAIMED: another worker holds the transition
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "frame count must be >= 0, got %d", n)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // Abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeArtifactWrite, origErr, "render %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal, never retried
	ErrCodeConfiguration Code = "CONFIGURATION"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"

	// Fatal for one transition, reported
	ErrCodeCorruptCheckpoint Code = "CORRUPT_CHECKPOINT"
	ErrCodeArtifactWrite     Code = "ARTIFACT_WRITE"

	// Recoverable below the retry ceiling
	ErrCodeInfeasible Code = "PHYSICAL_INFEASIBILITY"

	// Transition owned by another worker
	ErrCodeClaimed Code = "CLAIMED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// NoFrame marks a TransitionError that is not tied to a single frame.
const NoFrame = -1

// TransitionError attaches the transition and frame index to a failure so
// an operator can resume or investigate the exact artifact.
type TransitionError struct {
	Index int // Transition index
	Frame int // Frame index, or NoFrame
	Err   error
}

// AtTransition wraps err with the transition index.
func AtTransition(index int, err error) error {
	if err == nil {
		return nil
	}
	return &TransitionError{Index: index, Frame: NoFrame, Err: err}
}

// AtFrame wraps err with the transition and frame index.
func AtFrame(index, frame int, err error) error {
	if err == nil {
		return nil
	}
	return &TransitionError{Index: index, Frame: frame, Err: err}
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Frame == NoFrame {
		return fmt.Sprintf("transition %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("transition %d frame %d: %v", e.Index, e.Frame, e.Err)
}

// Unwrap returns the wrapped error.
func (e *TransitionError) Unwrap() error { return e.Err }
