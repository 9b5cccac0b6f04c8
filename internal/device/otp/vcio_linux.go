//go:build linux

package otp

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/allisson/devicekey/internal/device/domain"
)

// propertyRequest is _IOWR(100, 0, char *), the VCIO property ioctl. The size field is
// the pointer size, so the code differs between 32-bit and 64-bit kernels.
const propertyRequest = uintptr(3<<30 | unsafe.Sizeof(uintptr(0))<<16 | 100<<8 | 0)

// VCIO is a handle to the VideoCore mailbox character device.
type VCIO struct {
	fd   int
	path string
}

// OpenVCIO opens the mailbox device. A missing device node means the host is not a
// Raspberry Pi and is reported as domain.ErrHardwareUnsupported.
func OpenVCIO(path string) (*VCIO, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if errors.Is(err, unix.ENOENT) {
		return nil, fmt.Errorf("%w: %s does not exist", domain.ErrHardwareUnsupported, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrReadFailure, path, err)
	}
	return &VCIO{fd: fd, path: path}, nil
}

func (v *VCIO) Property(buf *PropertyBuffer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(v.fd), propertyRequest, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return fmt.Errorf("vcio property ioctl on %s: %w", v.path, errno)
	}
	return nil
}

// Lock blocks until an exclusive flock on the device is held.
func (v *VCIO) Lock() (func() error, error) {
	if err := unix.Flock(v.fd, unix.LOCK_EX); err != nil {
		return nil, fmt.Errorf("flock %s: %w", v.path, err)
	}
	return func() error {
		return unix.Flock(v.fd, unix.LOCK_UN)
	}, nil
}

func (v *VCIO) Close() error {
	return unix.Close(v.fd)
}
