// Package usecase implements the device secret lifecycle on top of an OTP backend.
// The secret store is the only component that materializes the device secret; its
// sole consumer is the key derivation path.
package usecase

import (
	"context"

	"github.com/allisson/devicekey/internal/device/domain"
)

// SecretStore defines the write-once lifecycle of the device secret.
type SecretStore interface {
	// Init programs a fresh random secret into an uninitialized region. A region that already
	// holds a secret yields domain.OutcomeAlreadyInitialized and is never overwritten.
	Init(ctx context.Context) (domain.InitOutcome, error)
	// Status probes the region without side effects.
	Status(ctx context.Context) (domain.RegionStatus, error)
	// Survey probes both OTP regions through the bound medium so an operator can pick one.
	Survey(ctx context.Context) []domain.RegionReport
	// Check reports whether the region is initialized. Errors count as not initialized.
	Check(ctx context.Context) bool
	// SecretMaterial returns the device secret for the derivation path.
	//
	// Security Note: the caller owns the returned Secret and MUST call Wipe once done.
	// The value must never reach an output channel.
	SecretMaterial(ctx context.Context) (*domain.Secret, error)
	// Info describes the backend selection. It carries no secret data.
	Info() domain.StoreInfo
	// Close releases the backend.
	Close() error
}
