package service

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	derivationDomain "github.com/allisson/devicekey/internal/derivation/domain"
	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
)

type hkdfSHA3 struct {
	salt []byte
}

// NewHKDFSHA3 creates the HKDF-SHA3-512 engine. A nil or empty salt selects the RFC 5869
// default of HashSize zero bytes; every implementation sharing keys with this one must use
// the same salt.
func NewHKDFSHA3(salt []byte) KeyDerivation {
	var s []byte
	if len(salt) > 0 {
		s = append([]byte(nil), salt...)
	}
	return &hkdfSHA3{salt: s}
}

func (h *hkdfSHA3) Derive(secret *deviceDomain.Secret, info []byte, length int) ([]byte, error) {
	if secret == nil {
		return nil, fmt.Errorf("%w: missing secret", derivationDomain.ErrInvalidRequest)
	}
	if length < 0 || length > derivationDomain.MaxLength {
		return nil, fmt.Errorf(
			"%w: %d (allowed 0..%d)",
			derivationDomain.ErrInvalidLength,
			length,
			derivationDomain.MaxLength,
		)
	}

	out := make([]byte, length)
	if length == 0 {
		return out, nil
	}

	r := hkdf.New(sha3.New512, secret.Bytes(), h.salt, info)
	if _, err := io.ReadFull(r, out); err != nil {
		deviceDomain.Zero(out)
		return nil, fmt.Errorf("%w: %w", derivationDomain.ErrInvalidLength, err)
	}
	return out, nil
}

func (h *hkdfSHA3) DeriveHex(secret *deviceDomain.Secret, info []byte, length int) (string, error) {
	out, err := h.Derive(secret, info, length)
	if err != nil {
		return "", err
	}
	defer deviceDomain.Zero(out)
	return hex.EncodeToString(out), nil
}

func (h *hkdfSHA3) DeriveUUID(secret *deviceDomain.Secret, info []byte) (string, error) {
	out, err := h.Derive(secret, info, derivationDomain.UUIDSize)
	if err != nil {
		return "", err
	}
	defer deviceDomain.Zero(out)

	var id uuid.UUID
	copy(id[:], out)
	id[6] = (id[6] & 0x0f) | 0x40 // version 4
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id.String(), nil
}
