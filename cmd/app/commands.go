package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/devicekey/internal/app"
	"github.com/allisson/devicekey/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getDeviceCommands()...)
	cmds = append(cmds, getKeyCommands()...)
	return cmds
}

// getGlobalFlags returns flags shared by every command. They take precedence over the
// matching environment variables.
func getGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "customer-otp",
			Aliases: []string{"c"},
			Usage: "Use the customer OTP region instead of the private key region. " +
				"Pass it consistently to init and every derive command",
		},
		&cli.StringFlag{
			Name:  "salt",
			Usage: "HKDF salt; every implementation sharing keys must use the same value",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// newContainer loads the configuration, applies the global flags and validates the
// result before any hardware is touched.
func newContainer(cmd *cli.Command) (*app.Container, error) {
	cfg := config.Load()
	if cmd.IsSet("customer-otp") {
		cfg.CustomerOTP = cmd.Bool("customer-otp")
		cfg.RegionName = ""
	}
	if cmd.IsSet("salt") {
		cfg.Salt = cmd.String("salt")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return app.NewContainer(cfg), nil
}
