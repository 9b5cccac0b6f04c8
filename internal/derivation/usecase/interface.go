// Package usecase implements the derivation path: it reads the device secret from the
// secret store, feeds it to the derivation engine and wipes it. It is the only caller of
// SecretStore.SecretMaterial.
package usecase

import (
	"context"
)

// DeriveUseCase derives keys bound to a caller supplied info label.
type DeriveUseCase interface {
	// Derive returns length bytes of key material for info.
	Derive(ctx context.Context, info []byte, length int) ([]byte, error)
	// DeriveHex returns Derive's output as lowercase hex.
	DeriveHex(ctx context.Context, info []byte, length int) (string, error)
	// DeriveUUID returns a version 4 UUID derived from info.
	DeriveUUID(ctx context.Context, info []byte) (string, error)
}
