// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sleepcommand provides a command type that pauses execution for a fixed duration.
package sleepcommand

import (
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

var (
	// ErrDurationRequired is returned when the duration field is empty.
	ErrDurationRequired = errors.New("duration is required")
	// ErrInvalidDuration is returned when the duration cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration")
)

// New creates a new runnable sleep command from the definition.
func New(_ context.Context, def *Definition) (runbatch.Runnable, error) {
	if def.Duration == "" {
		return nil, ErrDurationRequired
	}

	duration, err := time.ParseDuration(def.Duration)
	if err != nil {
		return nil, errors.Join(ErrInvalidDuration, err)
	}

	base, err := def.ToBaseCommand()
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	return &runbatch.SleepCommand{
		BaseCommand: base,
		Duration:    duration,
	}, nil
}
