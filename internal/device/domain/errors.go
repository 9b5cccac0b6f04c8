package domain

import (
	"github.com/allisson/devicekey/internal/errors"
)

// Device secret lifecycle error definitions.
//
// These errors wrap the standard sentinels from internal/errors so that callers can
// choose a remediation (and the CLI an exit code) without inspecting messages.
var (
	// ErrHardwareUnsupported indicates the firmware or SoC does not expose the selected OTP
	// facility. Recoverable by switching to the customer region or updating the firmware.
	ErrHardwareUnsupported = errors.Wrap(errors.ErrUnsupported, "hardware unsupported")

	// ErrAlreadyInitialized indicates the OTP region has already been programmed.
	//
	// Backends return it when asked to program a region that holds a secret; the secret
	// store turns it into OutcomeAlreadyInitialized because initialization is idempotent
	// from the caller's perspective.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "region already initialized")

	// ErrNotInitialized indicates derivation was attempted before the device secret exists.
	// Recoverable by running init first.
	ErrNotInitialized = errors.Wrap(errors.ErrFailedPrecondition, "device secret not initialized")

	// ErrWriteFailure indicates an I/O or verification failure while programming OTP rows.
	// Retrying is only safe if the write did not partially commit.
	ErrWriteFailure = errors.Wrap(errors.ErrIO, "otp write failure")

	// ErrReadFailure indicates the secret could not be retrieved from an initialized region.
	ErrReadFailure = errors.Wrap(errors.ErrIO, "otp read failure")

	// ErrRegionInUse indicates a backend for the same physical region is already open in
	// this process.
	ErrRegionInUse = errors.Wrap(errors.ErrConflict, "otp region already in use")

	// ErrInvalidSecretSize indicates secret material is not exactly SecretSize bytes.
	ErrInvalidSecretSize = errors.Wrap(errors.ErrInvalidInput, "invalid secret size")

	// ErrSecretNotSerializable is returned by every serialization method of Secret.
	ErrSecretNotSerializable = errors.New("device secret cannot be serialized")

	// ErrInvalidRegion indicates an unknown region name.
	ErrInvalidRegion = errors.Wrap(errors.ErrInvalidInput, "invalid otp region")
)
