// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shellcommand provides a command type that runs a command line through the shell.
package shellcommand

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

const (
	commandSwitch = "-c"      // Command switch passed to the shell.
	binSh         = "/bin/sh" // Default shell when SHELL is not set.
	shellEnv      = "SHELL"   // Environment variable naming the user's shell.
)

var (
	// ErrCommandNotFound is returned when the command is not found in the system PATH or if the command is empty.
	ErrCommandNotFound = errors.New("command not found")
)

// New creates a new runbatch.OSCommand that runs the command line through the shell.
// It returns an error if the command line is empty.
func New(ctx context.Context, def *Definition) (runbatch.Runnable, error) {
	if def.CommandLine == "" {
		return nil, ErrCommandNotFound
	}

	base, err := def.ToBaseCommand()
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	return &runbatch.OSCommand{
		BaseCommand:      base,
		Path:             defaultShell(ctx),
		Args:             []string{commandSwitch, def.CommandLine},
		SuccessExitCodes: def.SuccessExitCodes,
		SkipExitCodes:    def.SkipExitCodes,
	}, nil
}

func defaultShell(ctx context.Context) string {
	if shell := os.Getenv(shellEnv); shell != "" {
		ctxlog.Debug(ctx, "Using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}
