// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cxz/crush/cmd/crush/cli"
	"github.com/cxz/crush/cmd/crush/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that already reported their failure return an
		// ExitError. Don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := cli.NewCommandLogger(slog.LevelInfo, cli.LogFormatAuto)
	if err != nil {
		return err
	}
	return commands.Root(commands.NewApp()).Execute(context.Background(), os.Args[1:], logger)
}
