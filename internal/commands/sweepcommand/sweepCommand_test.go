// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweepcommand

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/commands/traincommand"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builtInOrder is the exact run order of the built-in sweep.
var builtInOrder = []string{
	"MMMMMMMM",
	"AAAAAAAA",
	"MAMAMAMA",
	"AMAMAMAM",
	"MMMMAAAA",
	"AAAAMMMM",
	"MMAMAMAM",
	"AMMMMMMA",
	"MMAAMMAA",
}

func TestNew_DefaultSweep(t *testing.T) {
	ctx := context.Background()

	runnable, err := New(ctx, &Definition{})
	require.NoError(t, err)
	require.NotNil(t, runnable)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok, "expected *runbatch.SerialBatch")

	assert.Equal(t, "sweep", batch.Label)
	assert.True(t, batch.BestEffort, "run failures must not fail the sweep by default")

	// Nine trains interleaved with eight cool-downs.
	require.Len(t, batch.Commands, 2*len(builtInOrder)-1)

	for i, want := range builtInOrder {
		train, ok := batch.Commands[2*i].(*runbatch.OSCommand)
		require.True(t, ok, "child %d should be a train command", 2*i)

		assert.Equal(t, want, train.Label, "patterns must run in list order")
		assert.Equal(t, traincommand.DefaultProgram, filepath.Base(train.Path))
		assert.Equal(t, []string{
			traincommand.DefaultScript,
			traincommand.DefaultPatternFlag, want,
			traincommand.DefaultTrackingFlag,
		}, train.Args)
		assert.Equal(t, runbatch.RunOnAlways, train.RunsOnCondition,
			"a failed run must not halt the sweep")
	}

	for i := 1; i < len(batch.Commands); i += 2 {
		sleep, ok := batch.Commands[i].(*runbatch.SleepCommand)
		require.True(t, ok, "child %d should be a cool-down", i)

		assert.Equal(t, DefaultCoolDown, sleep.Duration)
		assert.Equal(t, runbatch.RunOnAlways, sleep.RunsOnCondition)
	}
}

func TestNew_CoolDownBetweenRunsOnly(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Patterns: []string{"MMMM", "AAAA", "MAMA"},
		CoolDown: "5s",
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)

	// Three trains, two cool-downs, none after the last run.
	require.Len(t, batch.Commands, 5)

	_, ok = batch.Commands[4].(*runbatch.OSCommand)
	assert.True(t, ok, "the last child must be a train command, not a cool-down")

	for _, i := range []int{1, 3} {
		sleep, ok := batch.Commands[i].(*runbatch.SleepCommand)
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, sleep.Duration)
	}
}

func TestNew_SinglePattern(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Patterns: []string{"MMMMMMMM"},
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)
	assert.Len(t, batch.Commands, 1, "a single run needs no cool-down")
}

func TestNew_TemplateAppliesToEveryRun(t *testing.T) {
	ctx := context.Background()
	tracking := false
	def := &Definition{
		Patterns:    []string{"MM", "AA"},
		Program:     "python",
		Script:      "train.py",
		PatternFlag: "--layers",
		Tracking:    &tracking,
		ExtraArgs:   []string{"--epochs", "10"},
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)

	for _, i := range []int{0, 2} {
		train, ok := batch.Commands[i].(*runbatch.OSCommand)
		require.True(t, ok)

		assert.Equal(t, "python", filepath.Base(train.Path))
		assert.Equal(t, []string{
			"train.py", "--layers", train.Label, "--epochs", "10",
		}, train.Args)
	}
}

func TestNew_FailFast(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Patterns: []string{"MM", "AA"},
		FailFast: true,
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)

	train, ok := batch.Commands[0].(*runbatch.OSCommand)
	require.True(t, ok)
	assert.Equal(t, runbatch.RunOnSuccess, train.RunsOnCondition,
		"fail_fast skips the remaining runs after a failure")

	sleep, ok := batch.Commands[1].(*runbatch.SleepCommand)
	require.True(t, ok)
	assert.Equal(t, runbatch.RunOnSuccess, sleep.RunsOnCondition,
		"no cool-down before a skipped run")
}

func TestNew_FailOnError(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Patterns:    []string{"MM"},
		FailOnError: true,
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)
	assert.False(t, batch.BestEffort, "fail_on_error propagates run failures to the sweep result")
}

func TestNew_ParentWiring(t *testing.T) {
	ctx := context.Background()

	runnable, err := New(ctx, &Definition{Patterns: []string{"MM", "AA"}})
	require.NoError(t, err)

	batch, ok := runnable.(*runbatch.SerialBatch)
	require.True(t, ok)

	for i, child := range batch.Commands {
		assert.Same(t, batch, child.GetParent(), "child %d parent", i)
	}
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid cool_down", func(t *testing.T) {
		def := &Definition{CoolDown: "one minute"}

		runnable, err := New(ctx, def)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCoolDown)
		assert.Nil(t, runnable)
	})

	t.Run("empty pattern in list", func(t *testing.T) {
		def := &Definition{Patterns: []string{"MMMM", ""}}

		runnable, err := New(ctx, def)
		require.Error(t, err)
		assert.ErrorIs(t, err, traincommand.ErrPatternRequired)
		assert.Nil(t, runnable)
	})

	t.Run("invalid run condition", func(t *testing.T) {
		def := &Definition{
			BaseDefinition: commands.BaseDefinition{RunsOnCondition: "never-ever"},
			Patterns:       []string{"MMMM"},
		}

		runnable, err := New(ctx, def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown RunCondition")
		assert.Nil(t, runnable)
	})
}
