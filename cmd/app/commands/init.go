package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
	deviceUsecase "github.com/allisson/devicekey/internal/device/usecase"
)

// RunInit programs a new device secret into the selected region. Running it on an
// initialized region is a successful no-op. On success the status of every OTP region
// is printed.
//
// The write is irreversible and never retried.
func RunInit(
	ctx context.Context,
	store deviceUsecase.SecretStore,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	info := store.Info()
	logger.Info("initializing device secret",
		slog.String("region", info.Region.String()),
		slog.String("backend", info.Backend),
	)

	outcome, err := store.Init(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize device secret: %w", err)
	}

	logger.Info("device secret ready", slog.String("outcome", outcome.String()))

	regions := surveyOutput(logger, store.Survey(ctx))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"region":  info.Region.String(),
			"outcome": outcome.String(),
			"regions": regions,
		})
	}

	msg := "Device secret initialized"
	if outcome == deviceDomain.OutcomeAlreadyInitialized {
		msg = "Device secret was already initialized"
	}
	if _, err := fmt.Fprintf(writer, "%s (%s region)\n", msg, info.Region); err != nil {
		return err
	}
	return writeRegions(writer, regions)
}
