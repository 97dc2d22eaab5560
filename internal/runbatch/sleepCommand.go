// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
)

var _ Runnable = (*SleepCommand)(nil)

// sleepFn waits for the duration or until the context is cancelled.
// It is a variable so that tests can stub it out and avoid real waits.
var sleepFn = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SleepCommand pauses the batch for a fixed duration.
// It is used to insert cool-down periods between commands,
// e.g. to let hardware recover between training runs.
type SleepCommand struct {
	*BaseCommand
	// Duration is how long to sleep for. Zero or negative durations return immediately.
	Duration time.Duration
}

// Run implements the Runnable interface for SleepCommand.
func (c *SleepCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "SleepCommand").
		With("label", c.Label)

	res := &Result{
		Label:     c.Label,
		ExitCode:  0,
		Status:    ResultStatusSuccess,
		StartedAt: time.Now(),
	}

	if c.Duration <= 0 {
		logger.Debug("no sleep duration set, returning immediately")

		return Results{res}
	}

	logger.Debug("sleeping", "duration", c.Duration)

	if err := sleepFn(ctx, c.Duration); err != nil {
		logger.Debug("sleep interrupted", "error", err)

		res.Error = err
		res.ExitCode = -1
		res.Status = ResultStatusError
	}

	res.Duration = time.Since(res.StartedAt)

	return Results{res}
}
