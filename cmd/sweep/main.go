// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the sweep command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/sweep"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/config"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/debug"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/history"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/run"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/schema"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/show"
	"github.com/matt-FFFFFF/sweep/cmd/sweep/upload"
	"github.com/matt-FFFFFF/sweep/internal/allcommands"
	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		config.ConfigCmd,
		debug.DebugCmd,
		history.HistoryCmd,
		run.RunCmd,
		schema.SchemaCmd,
		show.ShowCmd,
		upload.UploadCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "sweep",
	Description: `Sweep drives batches of model training runs. It invokes a training
program once per layer pattern in a configured list, pausing between runs,
and it never stops early because an individual run failed. Workflows are
defined in YAML or HCL and composed from serial, parallel, sweep and other
command types.`,
	Usage:     "sweep run [-f myfile.yaml]",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", sweep.Version, sweep.Commit)

	factory := allcommands.New()

	ctx = context.WithValue(ctx, commands.FactoryContextKey{}, factory)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
