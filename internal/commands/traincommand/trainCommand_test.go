// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package traincommand

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Pattern: "MAMAMAMA",
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)
	require.NotNil(t, runnable)

	cmd, ok := runnable.(*runbatch.OSCommand)
	require.True(t, ok, "expected *runbatch.OSCommand")

	assert.Equal(t, "MAMAMAMA", cmd.Label, "label defaults to the pattern")
	assert.Equal(t, DefaultProgram, filepath.Base(cmd.Path), "path may be resolved from PATH")
	assert.Equal(t,
		[]string{DefaultScript, DefaultPatternFlag, "MAMAMAMA", DefaultTrackingFlag},
		cmd.Args,
		"argv must be script, pattern flag, pattern, tracking flag")
	assert.Equal(t, "MAMAMAMA", cmd.Env[PatternEnvVar])
	assert.True(t, cmd.StreamOutput, "trainer output should stream while it runs")
}

func TestNew_ArgvOrder(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Pattern:   "MMAAMMAA",
		ExtraArgs: []string{"--epochs", "10", "--lr", "3e-4"},
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	cmd, ok := runnable.(*runbatch.OSCommand)
	require.True(t, ok)

	assert.Equal(t, []string{
		DefaultScript,
		DefaultPatternFlag, "MMAAMMAA",
		DefaultTrackingFlag,
		"--epochs", "10", "--lr", "3e-4",
	}, cmd.Args, "extra args must follow the tracking flag")
}

func TestNew_TrackingDisabled(t *testing.T) {
	ctx := context.Background()
	tracking := false
	def := &Definition{
		Pattern:  "AAAAMMMM",
		Tracking: &tracking,
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	cmd, ok := runnable.(*runbatch.OSCommand)
	require.True(t, ok)

	assert.Equal(t,
		[]string{DefaultScript, DefaultPatternFlag, "AAAAMMMM"},
		cmd.Args,
		"tracking flag must be absent when tracking is off")
}

func TestNew_CustomTemplate(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Program:      "python",
		Script:       "train.py",
		Pattern:      "MMMMMMMM",
		PatternFlag:  "--layers",
		TrackingFlag: "--track",
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)

	cmd, ok := runnable.(*runbatch.OSCommand)
	require.True(t, ok)

	assert.Equal(t, "python", filepath.Base(cmd.Path))
	assert.Equal(t, []string{"train.py", "--layers", "MMMMMMMM", "--track"}, cmd.Args)
}

func TestNew_ExplicitNameWins(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		BaseDefinition: commands.BaseDefinition{Name: "baseline"},
		Pattern:        "MMMMMMMM",
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, "baseline", runnable.GetLabel())
}

func TestNew_NonCanonicalPatternPassesThrough(t *testing.T) {
	ctx := context.Background()
	def := &Definition{
		Pattern: "MXMXMXMX",
	}

	runnable, err := New(ctx, def)
	require.NoError(t, err, "non-canonical patterns are passed to the trainer verbatim")

	cmd, ok := runnable.(*runbatch.OSCommand)
	require.True(t, ok)
	assert.Contains(t, cmd.Args, "MXMXMXMX")
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing pattern", func(t *testing.T) {
		def := &Definition{}

		runnable, err := New(ctx, def)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPatternRequired)
		assert.Nil(t, runnable)
	})

	t.Run("invalid run condition", func(t *testing.T) {
		def := &Definition{
			BaseDefinition: commands.BaseDefinition{RunsOnCondition: "never-ever"},
			Pattern:        "MAMAMAMA",
		}

		runnable, err := New(ctx, def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown RunCondition")
		assert.Nil(t, runnable)
	})
}
