package domain

import (
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
)

// SecretSize is the size of the device secret in bytes (256 bits).
const SecretSize = 32

const redacted = "[REDACTED]"

// Secret holds the 256-bit device secret.
//
// The bytes live in an unexported array and every formatting, logging and serialization
// path is overridden, so the value cannot leak through fmt, slog or encoding/json.
// Its only legitimate consumer is the key derivation engine, which reads the bytes via
// Bytes and calls Wipe once done.
//
// Always pass *Secret; copying the struct duplicates the key material.
type Secret struct {
	b [SecretSize]byte
}

// NewSecret copies material into a new Secret. The caller keeps ownership of material and
// should zero it afterwards.
func NewSecret(material []byte) (*Secret, error) {
	if len(material) != SecretSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSecretSize, len(material), SecretSize)
	}
	s := &Secret{}
	copy(s.b[:], material)
	return s, nil
}

// ReadSecret fills a new Secret from r (normally crypto/rand.Reader).
func ReadSecret(r io.Reader) (*Secret, error) {
	s := &Secret{}
	if _, err := io.ReadFull(r, s.b[:]); err != nil {
		s.Wipe()
		return nil, fmt.Errorf("failed to read secret material: %w", err)
	}
	return s, nil
}

// Bytes returns the backing slice of the secret, not a copy. It must only be handed to
// the key derivation engine or an OTP backend.
func (s *Secret) Bytes() []byte {
	return s.b[:]
}

// IsZero reports whether every byte is zero, which is how unprogrammed OTP rows read.
func (s *Secret) IsZero() bool {
	var zero [SecretSize]byte
	return subtle.ConstantTimeCompare(s.b[:], zero[:]) == 1
}

// Equal compares two secrets in constant time.
func (s *Secret) Equal(other *Secret) bool {
	if s == nil || other == nil {
		return s == other
	}
	return subtle.ConstantTimeCompare(s.b[:], other.b[:]) == 1
}

// Wipe zeroes the secret in place.
func (s *Secret) Wipe() {
	if s == nil {
		return
	}
	Zero(s.b[:])
}

// Format implements fmt.Formatter; all verbs print a placeholder. Value receivers on the
// output methods cover both Secret and *Secret.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, "Secret("+redacted+")")
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalText always fails.
func (s Secret) MarshalText() ([]byte, error) {
	return nil, ErrSecretNotSerializable
}

// MarshalJSON always fails.
func (s Secret) MarshalJSON() ([]byte, error) {
	return nil, ErrSecretNotSerializable
}

// MarshalBinary always fails.
func (s Secret) MarshalBinary() ([]byte, error) {
	return nil, ErrSecretNotSerializable
}
