// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package debug provides an interactive REPL for HCL configurations.
package debug

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/sweep/internal/hcl"
	"github.com/urfave/cli/v3"
)

const dirArg = "dir"

// ErrLoadConfig is returned when the HCL configuration cannot be loaded.
var ErrLoadConfig = errors.New("failed to load HCL configuration")

// DebugCmd is the command that starts an interactive HCL expression REPL
// against the sweep configuration in a directory.
var DebugCmd = &cli.Command{
	Name:  "debug",
	Usage: "Evaluate HCL expressions against a sweep configuration",
	Description: `Load the *.sweep.hcl files in the given directory (default ".")
and start an interactive prompt that evaluates HCL expressions against the
configuration's evaluation context.`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: dirArg,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		dir := cmd.StringArg(dirArg)
		if dir == "" {
			dir = "."
		}

		cfg, err := hcl.BuildSweepConfig(ctx, ".", dir, nil)
		if err != nil {
			return errors.Join(ErrLoadConfig, err)
		}

		hcl.EnterDebugMode(cfg)

		return nil
	},
}
