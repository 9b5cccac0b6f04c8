package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/devicekey/cmd/app/commands"
	"github.com/allisson/devicekey/internal/app"
	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
)

func getDeviceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "status",
			Usage: "Show the status of both OTP regions (always exits 0)",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return commands.RunStatusUnavailable(
						slog.Default(),
						commands.DefaultIO().Writer,
						deviceDomain.RegionFromFlag(cmd.Bool("customer-otp")),
						err,
						cmd.String("format"),
					)
				}
				defer closeContainer(ctx, container)

				store, err := container.SecretStore()
				if err != nil {
					return commands.RunStatusUnavailable(
						container.Logger(),
						commands.DefaultIO().Writer,
						container.Config().Region(),
						err,
						cmd.String("format"),
					)
				}

				return commands.RunStatus(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "init",
			Usage: "Program a new random device secret into OTP memory (irreversible)",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer closeContainer(ctx, container)

				store, err := container.SecretStore()
				if err != nil {
					return err
				}

				return commands.RunInit(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check",
			Usage: "Exit 0 if the device secret is initialized, 4 otherwise",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "quiet",
					Aliases: []string{"q"},
					Usage:   "Do not print a confirmation",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer closeContainer(ctx, container)

				store, err := container.SecretStore()
				if err != nil {
					return err
				}

				return commands.RunCheck(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("quiet"),
				)
			},
		},
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(ctx context.Context, container *app.Container) {
	if err := container.Shutdown(ctx); err != nil {
		container.Logger().Error("failed to shutdown container", slog.Any("error", err))
	}
}
