package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/devicekey/cmd/app/commands"
	apperrors "github.com/allisson/devicekey/internal/errors"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "hex",
			Usage:     "Derive a key of BYTES bytes for INFO and print it as hex",
			ArgsUsage: "<BYTES> <INFO>",
			Flags:     []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 2 {
					return fmt.Errorf("%w: expected <BYTES> <INFO>", apperrors.ErrInvalidInput)
				}

				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer closeContainer(ctx, container)

				useCase, err := container.DeriveUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeriveHex(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Args().Get(0),
					cmd.Args().Get(1),
					cmd.String("format"),
				)
			},
		},
		{
			Name:      "uuid",
			Usage:     "Derive a version 4 UUID for INFO",
			ArgsUsage: "<INFO>",
			Flags:     []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("%w: expected <INFO>", apperrors.ErrInvalidInput)
				}

				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer closeContainer(ctx, container)

				useCase, err := container.DeriveUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeriveUUID(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Args().Get(0),
					cmd.String("format"),
				)
			},
		},
	}
}
