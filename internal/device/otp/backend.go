// Package otp implements the storage media that can hold the device secret: the two
// one-time-programmable regions of the Raspberry Pi SoC, reached through the VideoCore
// mailbox, and an in-memory fake used for tests and off-target development.
package otp

import (
	"context"
	"fmt"
	"sync"

	"github.com/allisson/devicekey/internal/device/domain"
)

// DefaultVCIOPath is the VideoCore mailbox device node.
const DefaultVCIOPath = "/dev/vcio"

// BackendKind names a backend variant.
type BackendKind string

const (
	KindPrivateOTP  BackendKind = "private-otp"
	KindCustomerOTP BackendKind = "customer-otp"
	KindFake        BackendKind = "fake"
)

// Backend abstracts the medium that stores the device secret.
//
// The set of implementations is closed: PrivateOTPBackend, CustomerOTPBackend and
// FakeBackend. Backends are selected once through Open.
type Backend interface {
	// Kind returns the backend variant.
	Kind() BackendKind
	// Region returns the OTP region the backend targets.
	Region() domain.Region
	// Probe reports the region status. The error is non-nil only for I/O failures.
	Probe(ctx context.Context) (domain.RegionStatus, error)
	// Initialize programs secret into an uninitialized region. It returns
	// domain.ErrAlreadyInitialized when the region already holds a secret.
	Initialize(ctx context.Context, secret *domain.Secret) error
	// Survey probes every region reachable through the same medium, in
	// domain.AllRegions order. Failures are reported per region.
	Survey(ctx context.Context) []domain.RegionReport
	// ReadSecret returns the stored secret. The caller owns the result and must Wipe it.
	ReadSecret(ctx context.Context) (*domain.Secret, error)
	// Close releases the underlying medium.
	Close() error

	sealed()
}

// Override is the explicit test/development override. When Enabled, Open returns a
// FakeBackend seeded with Seed regardless of the requested region.
type Override struct {
	Enabled bool
	Seed    []byte
}

// Options selects and configures a backend.
type Options struct {
	Region   domain.Region
	VCIOPath string
	Override Override
}

// Kind reports which backend Open selects for these options.
func (o Options) Kind() BackendKind {
	switch {
	case o.Override.Enabled:
		return KindFake
	case o.Region == domain.RegionCustomer:
		return KindCustomerOTP
	default:
		return KindPrivateOTP
	}
}

// openMailbox is replaced in tests.
var openMailbox = func(path string) (Mailbox, error) {
	v, err := OpenVCIO(path)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Open selects exactly one backend. The override takes precedence over the region so
// test environments never touch hardware.
func Open(opts Options) (Backend, error) {
	if opts.Override.Enabled {
		return NewFakeBackend(opts.Region, opts.Override.Seed), nil
	}

	path := opts.VCIOPath
	if path == "" {
		path = DefaultVCIOPath
	}

	if err := claimRegion(opts.Region); err != nil {
		return nil, err
	}

	mb, err := openMailbox(path)
	if err != nil {
		releaseRegion(opts.Region)
		return nil, err
	}

	switch opts.Region {
	case domain.RegionPrivateKey:
		return newPrivateOTPBackend(mb, true), nil
	case domain.RegionCustomer:
		return newCustomerOTPBackend(mb, true), nil
	default:
		releaseRegion(opts.Region)
		_ = mb.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRegion, opts.Region)
	}
}

// regions tracks hardware regions with an open backend in this process.
var regions = struct {
	sync.Mutex
	open map[domain.Region]bool
}{open: make(map[domain.Region]bool)}

func claimRegion(r domain.Region) error {
	regions.Lock()
	defer regions.Unlock()
	if regions.open[r] {
		return fmt.Errorf("%w: %s", domain.ErrRegionInUse, r)
	}
	regions.open[r] = true
	return nil
}

func releaseRegion(r domain.Region) {
	regions.Lock()
	defer regions.Unlock()
	delete(regions.open, r)
}
