package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	derivationDomain "github.com/allisson/devicekey/internal/derivation/domain"
	derivationUsecase "github.com/allisson/devicekey/internal/derivation/usecase"
)

// RunDeriveHex prints a hex encoded key of the given byte length bound to info.
// lengthArg is parsed as an unsigned 16-bit integer.
func RunDeriveHex(
	ctx context.Context,
	useCase derivationUsecase.DeriveUseCase,
	logger *slog.Logger,
	writer io.Writer,
	lengthArg string,
	info string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	length, err := parseLength(lengthArg)
	if err != nil {
		return err
	}

	key, err := useCase.DeriveHex(ctx, []byte(info), length)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}

	logger.Debug("key derived", slog.Int("bytes", length))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"info":  info,
			"bytes": length,
			"hex":   key,
		})
	}
	_, err = fmt.Fprintln(writer, key)
	return err
}

// RunDeriveUUID prints a version 4 UUID bound to info.
func RunDeriveUUID(
	ctx context.Context,
	useCase derivationUsecase.DeriveUseCase,
	logger *slog.Logger,
	writer io.Writer,
	info string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := useCase.DeriveUUID(ctx, []byte(info))
	if err != nil {
		return fmt.Errorf("failed to derive uuid: %w", err)
	}

	logger.Debug("uuid derived")

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"info": info,
			"uuid": id,
		})
	}
	_, err = fmt.Fprintln(writer, id)
	return err
}

// parseLength parses the BYTES argument.
func parseLength(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a byte count between 0 and 65535", derivationDomain.ErrInvalidLength, s)
	}
	return int(n), nil
}
