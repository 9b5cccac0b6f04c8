//go:build !linux

package otp

import (
	"fmt"

	"github.com/allisson/devicekey/internal/device/domain"
)

// VCIO is unavailable outside Linux.
type VCIO struct{}

// OpenVCIO always fails with domain.ErrHardwareUnsupported on this platform.
func OpenVCIO(path string) (*VCIO, error) {
	return nil, fmt.Errorf("%w: %s requires linux", domain.ErrHardwareUnsupported, path)
}

func (v *VCIO) Property(*PropertyBuffer) error {
	return domain.ErrHardwareUnsupported
}

func (v *VCIO) Lock() (func() error, error) {
	return nil, domain.ErrHardwareUnsupported
}

func (v *VCIO) Close() error {
	return nil
}
