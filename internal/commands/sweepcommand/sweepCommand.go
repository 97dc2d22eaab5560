// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sweepcommand provides a command type that runs the training script
// once per layer pattern, in order, with a cool-down pause between runs.
package sweepcommand

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/commands/traincommand"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/pattern"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

// DefaultCoolDown is the pause between consecutive runs when none is configured.
const DefaultCoolDown = 60 * time.Second

// ErrInvalidCoolDown is returned when the cool_down duration cannot be parsed.
var ErrInvalidCoolDown = errors.New("invalid cool_down duration")

// New creates a new runnable sweep from the definition.
// The sweep is a serial batch of one train command per pattern, in list
// order, with a cool-down sleep between consecutive runs. Failed runs never
// halt the sweep unless fail_fast is set, and the sweep reports success
// regardless of run outcomes unless fail_on_error is set.
func New(ctx context.Context, def *Definition) (runbatch.Runnable, error) {
	coolDown := DefaultCoolDown

	if def.CoolDown != "" {
		parsed, err := time.ParseDuration(def.CoolDown)
		if err != nil {
			return nil, errors.Join(ErrInvalidCoolDown, err)
		}

		coolDown = parsed
	}

	patterns := def.Patterns
	if len(patterns) == 0 {
		patterns = pattern.Strings(pattern.Default())

		ctxlog.Debug(ctx, "no patterns configured, using the built-in sweep",
			"count", len(patterns))
	}

	if def.Name == "" {
		def.Name = "sweep"
	}

	base, err := def.ToBaseCommand()
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	// Runs never skip after a failure unless fail_fast asks for that.
	runCondition := runbatch.RunOnAlways
	if def.FailFast {
		runCondition = runbatch.RunOnSuccess
	}

	batch := &runbatch.SerialBatch{
		BaseCommand: base,
		BestEffort:  !def.FailOnError,
	}

	children := make([]runbatch.Runnable, 0, 2*len(patterns)-1)

	for i, p := range patterns {
		trainDef := &traincommand.Definition{
			BaseDefinition: commands.BaseDefinition{
				RunsOnCondition: runCondition.String(),
			},
			Program:      def.Program,
			Script:       def.Script,
			Pattern:      p,
			PatternFlag:  def.PatternFlag,
			Tracking:     def.Tracking,
			TrackingFlag: def.TrackingFlag,
			ExtraArgs:    def.ExtraArgs,
		}

		train, err := traincommand.New(ctx, trainDef)
		if err != nil {
			return nil, fmt.Errorf("failed to create train command for pattern %q: %w", p, err)
		}

		train.SetParent(batch)
		children = append(children, train)

		// Cool down between runs, not after the last one.
		if i == len(patterns)-1 {
			continue
		}

		sleep := &runbatch.SleepCommand{
			BaseCommand: runbatch.NewBaseCommand(
				fmt.Sprintf("cool-down %d/%d", i+1, len(patterns)-1),
				"",
				runCondition,
				nil,
				nil,
			),
			Duration: coolDown,
		}

		sleep.SetParent(batch)
		children = append(children, sleep)
	}

	batch.Commands = children

	return batch, nil
}
