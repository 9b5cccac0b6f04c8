// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	derivationDomain "github.com/allisson/devicekey/internal/derivation/domain"
	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
	apperrors "github.com/allisson/devicekey/internal/errors"
)

// Process exit codes. Scripts depend on these values.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUnsupported    = 2
	ExitWriteFailure   = 3
	ExitNotInitialized = 4
	ExitReadFailure    = 5
	ExitInvalidInput   = 6
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case apperrors.Is(err, deviceDomain.ErrHardwareUnsupported):
		return ExitUnsupported
	case apperrors.Is(err, deviceDomain.ErrWriteFailure):
		return ExitWriteFailure
	case apperrors.Is(err, deviceDomain.ErrNotInitialized):
		return ExitNotInitialized
	case apperrors.Is(err, deviceDomain.ErrReadFailure):
		return ExitReadFailure
	case apperrors.Is(err, derivationDomain.ErrInvalidLength),
		apperrors.Is(err, apperrors.ErrInvalidInput):
		return ExitInvalidInput
	default:
		return ExitFailure
	}
}

// validateFormat checks the --format flag value.
func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: format %q (valid options: text, json)", apperrors.ErrInvalidInput, format)
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
