// Package errors provides standardized domain errors that express intent rather than
// hardware or infrastructure details. Domain packages wrap these sentinels and the CLI
// maps them to process exit codes.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrConflict indicates the requested change collides with existing state
	// (e.g., programming an OTP region that was already written).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFailedPrecondition indicates the system is not in the state required by the operation.
	ErrFailedPrecondition = errors.New("failed precondition")

	// ErrUnsupported indicates the platform does not provide the requested facility.
	ErrUnsupported = errors.New("unsupported")

	// ErrIO indicates a low-level input/output failure while talking to hardware.
	ErrIO = errors.New("i/o failure")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
