package usecase

import (
	"context"
	"time"

	"github.com/allisson/devicekey/internal/metrics"
)

// deriveUseCaseWithMetrics decorates DeriveUseCase with metrics instrumentation.
type deriveUseCaseWithMetrics struct {
	next    DeriveUseCase
	metrics metrics.BusinessMetrics
}

// NewDeriveUseCaseWithMetrics wraps a DeriveUseCase with metrics recording.
func NewDeriveUseCaseWithMetrics(useCase DeriveUseCase, m metrics.BusinessMetrics) DeriveUseCase {
	return &deriveUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Derive records metrics for raw key derivation.
func (d *deriveUseCaseWithMetrics) Derive(ctx context.Context, info []byte, length int) ([]byte, error) {
	start := time.Now()
	out, err := d.next.Derive(ctx, info, length)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "derivation", "derive", status)
	d.metrics.RecordDuration(ctx, "derivation", "derive", time.Since(start), status)

	return out, err
}

// DeriveHex records metrics for hex key derivation.
func (d *deriveUseCaseWithMetrics) DeriveHex(ctx context.Context, info []byte, length int) (string, error) {
	start := time.Now()
	out, err := d.next.DeriveHex(ctx, info, length)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "derivation", "derive_hex", status)
	d.metrics.RecordDuration(ctx, "derivation", "derive_hex", time.Since(start), status)

	return out, err
}

// DeriveUUID records metrics for UUID derivation.
func (d *deriveUseCaseWithMetrics) DeriveUUID(ctx context.Context, info []byte) (string, error) {
	start := time.Now()
	out, err := d.next.DeriveUUID(ctx, info)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "derivation", "derive_uuid", status)
	d.metrics.RecordDuration(ctx, "derivation", "derive_uuid", time.Since(start), status)

	return out, err
}
