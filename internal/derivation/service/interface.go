// Package service implements the key derivation engine: HKDF over SHA3-512 turning the
// device secret and a context label into deterministic output.
//
// The engine is pure. It performs no I/O, keeps no state between calls and is safe for
// concurrent use.
package service

import (
	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
)

// KeyDerivation derives keys from the device secret.
type KeyDerivation interface {
	// Derive returns length bytes bound to info. length 0 yields an empty slice.
	Derive(secret *deviceDomain.Secret, info []byte, length int) ([]byte, error)
	// DeriveHex returns the lowercase hex encoding of Derive.
	DeriveHex(secret *deviceDomain.Secret, info []byte, length int) (string, error)
	// DeriveUUID returns a canonical RFC 4122 version 4 UUID built from 16 derived bytes.
	DeriveUUID(secret *deviceDomain.Secret, info []byte) (string, error)
}
