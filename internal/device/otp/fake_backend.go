package otp

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/allisson/devicekey/internal/device/domain"
)

var errBackendClosed = errors.New("backend closed")

// FakeBackend stands in for OTP hardware when the secret override is configured.
//
// It always reports Initialized and its secret is SHA3-256(seed), so every platform and
// every implementation derives the same keys from the same override value.
type FakeBackend struct {
	region domain.Region
	secret [domain.SecretSize]byte
	closed bool
}

// NewFakeBackend creates a fake backend. region is only reported back; the fake ignores it
// when producing the secret.
func NewFakeBackend(region domain.Region, seed []byte) *FakeBackend {
	return &FakeBackend{
		region: region,
		secret: sha3.Sum256(seed),
	}
}

func (f *FakeBackend) Kind() BackendKind {
	return KindFake
}

func (f *FakeBackend) Region() domain.Region {
	return f.region
}

func (f *FakeBackend) Probe(ctx context.Context) (domain.RegionStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.StatusUnsupported, err
	}
	if f.closed {
		return domain.StatusUnsupported, fmt.Errorf("%w: %w", domain.ErrReadFailure, errBackendClosed)
	}
	return domain.StatusInitialized, nil
}

// Survey reports every region as initialized.
func (f *FakeBackend) Survey(ctx context.Context) []domain.RegionReport {
	regions := domain.AllRegions()
	reports := make([]domain.RegionReport, 0, len(regions))
	for _, region := range regions {
		status, err := f.Probe(ctx)
		reports = append(reports, domain.RegionReport{Region: region, Status: status, Err: err})
	}
	return reports
}

// Initialize is a no-op.
func (f *FakeBackend) Initialize(ctx context.Context, _ *domain.Secret) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.closed {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, errBackendClosed)
	}
	return nil
}

func (f *FakeBackend) ReadSecret(ctx context.Context) (*domain.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.closed {
		return nil, fmt.Errorf("%w: %w", domain.ErrReadFailure, errBackendClosed)
	}
	return domain.NewSecret(f.secret[:])
}

// Close wipes the expanded seed. Every later call fails.
func (f *FakeBackend) Close() error {
	domain.Zero(f.secret[:])
	f.closed = true
	return nil
}

func (f *FakeBackend) sealed() {}
