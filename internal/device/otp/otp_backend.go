package otp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/allisson/devicekey/internal/device/domain"
)

// hardwareBackend carries the logic shared by both OTP regions; the two exported
// variants only differ in tags and region.
type hardwareBackend struct {
	kind    BackendKind
	region  domain.Region
	getTag  Tag
	setTag  Tag
	mailbox Mailbox
	// claimed is true when the region was registered through Open.
	claimed   bool
	closeOnce sync.Once
	closeErr  error
}

// PrivateOTPBackend stores the secret in the SoC private-key OTP rows 56 to 63.
type PrivateOTPBackend struct {
	hardwareBackend
}

// CustomerOTPBackend stores the secret in the customer-programmable OTP rows 36 to 43.
// It is the fallback when the firmware lacks private-key support.
type CustomerOTPBackend struct {
	hardwareBackend
}

// NewPrivateOTPBackend creates a private-key region backend over mb. Prefer Open, which
// also enforces a single owner per region.
func NewPrivateOTPBackend(mb Mailbox) *PrivateOTPBackend {
	return newPrivateOTPBackend(mb, false)
}

// NewCustomerOTPBackend creates a customer region backend over mb. Prefer Open.
func NewCustomerOTPBackend(mb Mailbox) *CustomerOTPBackend {
	return newCustomerOTPBackend(mb, false)
}

func newPrivateOTPBackend(mb Mailbox, claimed bool) *PrivateOTPBackend {
	return &PrivateOTPBackend{hardwareBackend{
		kind:    KindPrivateOTP,
		region:  domain.RegionPrivateKey,
		getTag:  TagGetPrivateKey,
		setTag:  TagSetPrivateKey,
		mailbox: mb,
		claimed: claimed,
	}}
}

func newCustomerOTPBackend(mb Mailbox, claimed bool) *CustomerOTPBackend {
	return &CustomerOTPBackend{hardwareBackend{
		kind:    KindCustomerOTP,
		region:  domain.RegionCustomer,
		getTag:  TagGetCustomerOTP,
		setTag:  TagSetCustomerOTP,
		mailbox: mb,
		claimed: claimed,
	}}
}

func (b *hardwareBackend) Kind() BackendKind {
	return b.kind
}

func (b *hardwareBackend) Region() domain.Region {
	return b.region
}

func (b *hardwareBackend) Probe(ctx context.Context) (domain.RegionStatus, error) {
	return b.probe(ctx, b.region, b.getTag)
}

// Survey probes both regions over this backend's mailbox. It only reads.
func (b *hardwareBackend) Survey(ctx context.Context) []domain.RegionReport {
	regions := domain.AllRegions()
	reports := make([]domain.RegionReport, 0, len(regions))
	for _, region := range regions {
		tag, err := getTagFor(region)
		if err != nil {
			reports = append(reports, domain.RegionReport{Region: region, Status: domain.StatusUnsupported, Err: err})
			continue
		}
		status, err := b.probe(ctx, region, tag)
		reports = append(reports, domain.RegionReport{Region: region, Status: status, Err: err})
	}
	return reports
}

func (b *hardwareBackend) probe(ctx context.Context, region domain.Region, tag Tag) (domain.RegionStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.StatusUnsupported, err
	}

	rows, err := call(b.mailbox, tag, nil)
	if errors.Is(err, errPropertyRejected) {
		return domain.StatusUnsupported, nil
	}
	if err != nil {
		return domain.StatusUnsupported, fmt.Errorf("%w: %s region: %w", domain.ErrReadFailure, region, err)
	}
	defer rows.Wipe()

	if rows.IsZero() {
		return domain.StatusUninitialized, nil
	}
	return domain.StatusInitialized, nil
}

func getTagFor(region domain.Region) (Tag, error) {
	switch region {
	case domain.RegionPrivateKey:
		return TagGetPrivateKey, nil
	case domain.RegionCustomer:
		return TagGetCustomerOTP, nil
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidRegion, region)
	}
}

// Initialize programs the region under the mailbox lock and verifies by reading back.
// The write is never retried: OTP bits only go from 0 to 1, so a partial write is final.
func (b *hardwareBackend) Initialize(ctx context.Context, secret *domain.Secret) error {
	if secret == nil || secret.IsZero() {
		return fmt.Errorf("%w: refusing to program an all-zero secret", domain.ErrWriteFailure)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock, err := b.mailbox.Lock()
	if err != nil {
		return fmt.Errorf("%w: lock mailbox: %w", domain.ErrWriteFailure, err)
	}
	defer func() { _ = unlock() }()

	// Re-probe under the lock; another process may have won the race.
	status, err := b.Probe(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	switch status {
	case domain.StatusInitialized:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyInitialized, b.region)
	case domain.StatusUnsupported:
		return fmt.Errorf("%w: %s region", domain.ErrHardwareUnsupported, b.region)
	}

	written, err := call(b.mailbox, b.setTag, secret)
	if err != nil {
		return fmt.Errorf("%w: %s region: %w", domain.ErrWriteFailure, b.region, err)
	}
	written.Wipe()

	readBack, err := call(b.mailbox, b.getTag, nil)
	if err != nil {
		return fmt.Errorf("%w: %s region verification: %w", domain.ErrWriteFailure, b.region, err)
	}
	defer readBack.Wipe()

	if !readBack.Equal(secret) {
		return fmt.Errorf("%w: %s region verification mismatch", domain.ErrWriteFailure, b.region)
	}
	return nil
}

func (b *hardwareBackend) ReadSecret(ctx context.Context) (*domain.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := call(b.mailbox, b.getTag, nil)
	if errors.Is(err, errPropertyRejected) {
		return nil, fmt.Errorf("%w: %s region", domain.ErrHardwareUnsupported, b.region)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s region: %w", domain.ErrReadFailure, b.region, err)
	}
	if rows.IsZero() {
		return nil, fmt.Errorf("%w: %s region", domain.ErrNotInitialized, b.region)
	}
	return rows, nil
}

func (b *hardwareBackend) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.mailbox.Close()
		if b.claimed {
			releaseRegion(b.region)
		}
	})
	return b.closeErr
}

func (b *hardwareBackend) sealed() {}
