package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
	deviceUsecase "github.com/allisson/devicekey/internal/device/usecase"
)

// RunCheck succeeds only when the region is initialized, so scripts can branch on the
// exit code. A confirmation line is printed unless quiet is set.
func RunCheck(
	ctx context.Context,
	store deviceUsecase.SecretStore,
	logger *slog.Logger,
	writer io.Writer,
	quiet bool,
) error {
	region := store.Info().Region
	if !store.Check(ctx) {
		logger.Debug("device secret not initialized", slog.String("region", region.String()))
		return fmt.Errorf("%w: %s region", deviceDomain.ErrNotInitialized, region)
	}

	if quiet {
		return nil
	}
	_, err := fmt.Fprintf(writer, "Device secret is initialized (%s region)\n", region)
	return err
}
