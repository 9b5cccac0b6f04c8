package usecase

import (
	"context"
	"time"

	"github.com/allisson/devicekey/internal/device/domain"
	"github.com/allisson/devicekey/internal/metrics"
)

// secretStoreWithMetrics decorates SecretStore with metrics instrumentation.
type secretStoreWithMetrics struct {
	next    SecretStore
	metrics metrics.BusinessMetrics
}

// NewSecretStoreWithMetrics wraps a SecretStore with metrics recording.
func NewSecretStoreWithMetrics(store SecretStore, m metrics.BusinessMetrics) SecretStore {
	return &secretStoreWithMetrics{
		next:    store,
		metrics: m,
	}
}

func (s *secretStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "device", operation, status)
	s.metrics.RecordDuration(ctx, "device", operation, time.Since(start), status)
}

// Init records metrics for secret initialization.
func (s *secretStoreWithMetrics) Init(ctx context.Context) (domain.InitOutcome, error) {
	start := time.Now()
	outcome, err := s.next.Init(ctx)
	s.record(ctx, "store_init", start, err == nil)
	return outcome, err
}

// Status records metrics for region probes.
func (s *secretStoreWithMetrics) Status(ctx context.Context) (domain.RegionStatus, error) {
	start := time.Now()
	status, err := s.next.Status(ctx)
	s.record(ctx, "store_status", start, err == nil)
	return status, err
}

// Survey records metrics for probes of both regions. Any failed region counts as an error.
func (s *secretStoreWithMetrics) Survey(ctx context.Context) []domain.RegionReport {
	start := time.Now()
	reports := s.next.Survey(ctx)
	ok := true
	for _, report := range reports {
		if report.Err != nil {
			ok = false
		}
	}
	s.record(ctx, "store_survey", start, ok)
	return reports
}

// Check records metrics for initialization checks. A region that is not initialized
// counts as an error.
func (s *secretStoreWithMetrics) Check(ctx context.Context) bool {
	start := time.Now()
	ok := s.next.Check(ctx)
	s.record(ctx, "store_check", start, ok)
	return ok
}

// SecretMaterial records metrics for secret reads.
func (s *secretStoreWithMetrics) SecretMaterial(ctx context.Context) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.SecretMaterial(ctx)
	s.record(ctx, "store_secret_material", start, err == nil)
	return secret, err
}

func (s *secretStoreWithMetrics) Info() domain.StoreInfo {
	return s.next.Info()
}

func (s *secretStoreWithMetrics) Close() error {
	return s.next.Close()
}
