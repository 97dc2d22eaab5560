// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package traincommand provides a command type that runs one training invocation
// of the experiment script for a single layer pattern.
package traincommand

import (
	"context"
	"errors"
	"os/exec"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/pattern"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

const (
	// DefaultProgram is the interpreter used when none is configured.
	DefaultProgram = "python3"
	// DefaultScript is the training entrypoint used when none is configured.
	DefaultScript = "experiment_patterns.py"
	// DefaultPatternFlag precedes the pattern value on the trainer command line.
	DefaultPatternFlag = "--pattern"
	// DefaultTrackingFlag enables experiment tracking on the trainer command line.
	DefaultTrackingFlag = "--use_wandb"
	// PatternEnvVar names the environment variable that carries the pattern
	// to the training process.
	PatternEnvVar = "SWEEP_PATTERN"
)

// ErrPatternRequired is returned when the pattern field is empty.
var ErrPatternRequired = errors.New("pattern is required")

// New creates a new runnable train command from the definition.
// The trainer inherits the parent environment plus PatternEnvVar and
// streams its output while it runs. The program is resolved from the
// system PATH when possible; an unresolved program is passed through
// so that it fails the single run rather than the whole sweep.
func New(ctx context.Context, def *Definition) (runbatch.Runnable, error) {
	if def.Pattern == "" {
		return nil, ErrPatternRequired
	}

	if !pattern.Pattern(def.Pattern).IsCanonical() {
		ctxlog.Warn(ctx, "pattern contains symbols outside the M/A alphabet, passing it through",
			"pattern", def.Pattern)
	}

	def.applyDefaults()

	if def.Name == "" {
		def.Name = def.Pattern
	}

	base, err := def.ToBaseCommand()
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	base.Env[PatternEnvVar] = def.Pattern

	args := make([]string, 0, len(def.ExtraArgs)+4)
	args = append(args, def.Script, def.PatternFlag, def.Pattern)

	if def.TrackingEnabled() {
		args = append(args, def.TrackingFlag)
	}

	args = append(args, def.ExtraArgs...)

	program := def.Program
	if execPath, err := exec.LookPath(program); err == nil || errors.Is(err, exec.ErrDot) {
		program = execPath
	} else {
		ctxlog.Warn(ctx, "program not found in PATH, passing it through", "program", program)
	}

	return &runbatch.OSCommand{
		BaseCommand:      base,
		Path:             program,
		Args:             args,
		SuccessExitCodes: def.SuccessExitCodes,
		SkipExitCodes:    def.SkipExitCodes,
		StreamOutput:     true,
	}, nil
}
