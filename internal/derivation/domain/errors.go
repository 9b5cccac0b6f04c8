// Package domain holds the contract constants and errors of key derivation.
package domain

import (
	"github.com/allisson/devicekey/internal/errors"
)

var (
	// ErrInvalidLength indicates the requested output length is negative or exceeds MaxLength.
	ErrInvalidLength = errors.Wrap(errors.ErrInvalidInput, "invalid derived key length")

	// ErrInvalidRequest indicates a derivation request failed validation.
	ErrInvalidRequest = errors.Wrap(errors.ErrInvalidInput, "invalid derivation request")
)
