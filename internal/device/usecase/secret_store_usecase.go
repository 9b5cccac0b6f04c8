package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/devicekey/internal/device/domain"
	"github.com/allisson/devicekey/internal/device/otp"
	apperrors "github.com/allisson/devicekey/internal/errors"
)

const unsupportedGuidance = "retry with --customer-otp or update the firmware"

// secretStore implements SecretStore over a single backend.
type secretStore struct {
	backend otp.Backend
	random  io.Reader
	logger  *slog.Logger
}

// NewSecretStore creates a SecretStore bound to backend. random must be a cryptographically
// secure source, crypto/rand.Reader in production.
func NewSecretStore(backend otp.Backend, random io.Reader, logger *slog.Logger) SecretStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &secretStore{
		backend: backend,
		random:  random,
		logger: logger.With(
			slog.String("region", backend.Region().String()),
			slog.String("backend", string(backend.Kind())),
		),
	}
}

// Init probes the region and programs a new secret only when it is uninitialized.
// Writes are never retried.
func (s *secretStore) Init(ctx context.Context) (domain.InitOutcome, error) {
	status, err := s.backend.Probe(ctx)
	if err != nil {
		return domain.OutcomeInitialized, err
	}

	switch status {
	case domain.StatusInitialized:
		s.logger.Info("device secret already initialized")
		return domain.OutcomeAlreadyInitialized, nil
	case domain.StatusUnsupported:
		return domain.OutcomeInitialized, fmt.Errorf(
			"%w: %s region not available: %s",
			domain.ErrHardwareUnsupported,
			s.backend.Region(),
			unsupportedGuidance,
		)
	}

	secret, err := domain.ReadSecret(s.random)
	if err != nil {
		return domain.OutcomeInitialized, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	defer secret.Wipe()

	if err := s.backend.Initialize(ctx, secret); err != nil {
		switch {
		case apperrors.Is(err, domain.ErrAlreadyInitialized):
			// Another process programmed the region between our probe and the write.
			s.logger.Warn("device secret initialized concurrently")
			return domain.OutcomeAlreadyInitialized, nil
		case apperrors.Is(err, domain.ErrHardwareUnsupported):
			return domain.OutcomeInitialized, fmt.Errorf("%w: %s", err, unsupportedGuidance)
		case apperrors.Is(err, domain.ErrWriteFailure):
			return domain.OutcomeInitialized, err
		default:
			return domain.OutcomeInitialized, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
		}
	}

	s.logger.Info("device secret initialized")
	return domain.OutcomeInitialized, nil
}

func (s *secretStore) Status(ctx context.Context) (domain.RegionStatus, error) {
	return s.backend.Probe(ctx)
}

func (s *secretStore) Check(ctx context.Context) bool {
	status, err := s.backend.Probe(ctx)
	if err != nil {
		s.logger.Debug("probe failed during check", slog.Any("error", err))
		return false
	}
	return status == domain.StatusInitialized
}

func (s *secretStore) Survey(ctx context.Context) []domain.RegionReport {
	return s.backend.Survey(ctx)
}

// SecretMaterial reads the region once; the backend reports uninitialized and
// unsupported regions itself.
func (s *secretStore) SecretMaterial(ctx context.Context) (*domain.Secret, error) {
	secret, err := s.backend.ReadSecret(ctx)
	if apperrors.Is(err, domain.ErrHardwareUnsupported) {
		return nil, fmt.Errorf("%w: %s", err, unsupportedGuidance)
	}
	return secret, err
}

func (s *secretStore) Info() domain.StoreInfo {
	return domain.StoreInfo{
		Region:   s.backend.Region(),
		Backend:  string(s.backend.Kind()),
		Override: s.backend.Kind() == otp.KindFake,
	}
}

func (s *secretStore) Close() error {
	return s.backend.Close()
}
