// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/devicekey/cmd/app/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:     "devicekey",
		Usage:    "Derive device-bound keys from a secret stored in one-time-programmable memory",
		Version:  version,
		Flags:    getGlobalFlags(),
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(commands.ExitCode(err))
	}
}
