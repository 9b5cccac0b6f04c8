package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
	deviceUsecase "github.com/allisson/devicekey/internal/device/usecase"
	apperrors "github.com/allisson/devicekey/internal/errors"
)

// regionOutput is the status of one OTP region.
type regionOutput struct {
	Region string `json:"region"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	Region   string         `json:"region"`
	Backend  string         `json:"backend"`
	Override bool           `json:"override"`
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Regions  []regionOutput `json:"regions"`
}

// RunStatus prints the status of the selected region and of every other OTP region, so
// an operator can decide which region to initialize. It is diagnostic only: it always
// returns nil, and an unknown format falls back to text.
func RunStatus(
	ctx context.Context,
	store deviceUsecase.SecretStore,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	format = statusFormat(logger, format)

	info := store.Info()
	out := statusOutput{
		Region:   info.Region.String(),
		Backend:  info.Backend,
		Override: info.Override,
	}

	status, err := store.Status(ctx)
	if err != nil {
		logger.Warn("failed to probe otp region", slog.Any("error", err))
		out.Status = "error"
		out.Error = err.Error()
	} else {
		out.Status = status.String()
	}

	out.Regions = surveyOutput(logger, store.Survey(ctx))

	writeStatus(logger, writer, out, format)
	return nil
}

// RunStatusUnavailable reports the status when no backend could be opened, for example
// because the mailbox device does not exist on this machine. It always returns nil.
func RunStatusUnavailable(
	logger *slog.Logger,
	writer io.Writer,
	region deviceDomain.Region,
	cause error,
	format string,
) error {
	format = statusFormat(logger, format)

	logger.Warn("otp backend unavailable", slog.Any("error", cause))

	status := "error"
	if apperrors.Is(cause, deviceDomain.ErrHardwareUnsupported) {
		status = deviceDomain.StatusUnsupported.String()
	}

	out := statusOutput{
		Region: region.String(),
		Status: status,
		Error:  cause.Error(),
	}
	for _, r := range deviceDomain.AllRegions() {
		out.Regions = append(out.Regions, regionOutput{Region: r.String(), Status: status})
	}

	writeStatus(logger, writer, out, format)
	return nil
}

// statusFormat keeps status usable with a bad --format value.
func statusFormat(logger *slog.Logger, format string) string {
	if err := validateFormat(format); err != nil {
		logger.Warn("falling back to text output", slog.Any("error", err))
		return "text"
	}
	return format
}

func surveyOutput(logger *slog.Logger, reports []deviceDomain.RegionReport) []regionOutput {
	regions := make([]regionOutput, 0, len(reports))
	for _, report := range reports {
		region := regionOutput{
			Region: report.Region.String(),
			Status: report.Status.String(),
		}
		if report.Err != nil {
			logger.Warn("failed to probe otp region",
				slog.String("region", region.Region),
				slog.Any("error", report.Err),
			)
			region.Status = "error"
			region.Error = report.Err.Error()
		}
		regions = append(regions, region)
	}
	return regions
}

// writeStatus never fails the command; a broken stdout is only logged.
func writeStatus(logger *slog.Logger, w io.Writer, out statusOutput, format string) {
	if err := renderStatus(w, out, format); err != nil {
		logger.Warn("failed to write status", slog.Any("error", err))
	}
}

func renderStatus(w io.Writer, out statusOutput, format string) error {
	if format == "json" {
		return writeJSON(w, out)
	}

	backend := out.Backend
	if backend == "" {
		backend = "none"
	}
	if _, err := fmt.Fprintf(w, "region: %s\nbackend: %s\noverride: %t\nstatus: %s\n",
		out.Region, backend, out.Override, out.Status); err != nil {
		return err
	}
	if out.Error != "" {
		if _, err := fmt.Fprintf(w, "error: %s\n", out.Error); err != nil {
			return err
		}
	}
	return writeRegions(w, out.Regions)
}

// writeRegions prints the per-region block shared by status and init.
func writeRegions(w io.Writer, regions []regionOutput) error {
	if len(regions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "otp regions:"); err != nil {
		return err
	}
	for _, region := range regions {
		line := fmt.Sprintf("  %s: %s", region.Region, region.Status)
		if region.Error != "" {
			line += fmt.Sprintf(" (%s)", region.Error)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
