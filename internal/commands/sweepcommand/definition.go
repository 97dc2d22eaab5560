// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweepcommand

import "github.com/matt-FFFFFF/sweep/internal/commands"

// Definition is the YAML definition for the sweep command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// The layer patterns to train, in order. Defaults to the built-in sweep.
	Patterns []string `yaml:"patterns,omitempty" docdesc:"The layer patterns to train, in order. Defaults to the built-in sweep"` //nolint:lll
	// The pause between consecutive runs, as a Go duration string, defaults to 60s.
	CoolDown string `yaml:"cool_down,omitempty" docdesc:"The pause between consecutive runs, as a Go duration string, defaults to 60s"` //nolint:lll
	// The program that runs the training script, defaults to python3.
	Program string `yaml:"program,omitempty" docdesc:"The program that runs the training script, defaults to python3"` //nolint:lll
	// The training script passed to the program, defaults to experiment_patterns.py.
	Script string `yaml:"script,omitempty" docdesc:"The training script passed to the program, defaults to experiment_patterns.py"` //nolint:lll
	// The flag that precedes the pattern value, defaults to --pattern.
	PatternFlag string `yaml:"pattern_flag,omitempty" docdesc:"The flag that precedes the pattern value, defaults to --pattern"` //nolint:lll
	// Whether to enable experiment tracking, defaults to true.
	Tracking *bool `yaml:"tracking,omitempty" docdesc:"Whether to enable experiment tracking, defaults to true"`
	// The flag appended when tracking is enabled, defaults to --use_wandb.
	TrackingFlag string `yaml:"tracking_flag,omitempty" docdesc:"The flag appended when tracking is enabled, defaults to --use_wandb"` //nolint:lll
	// Additional arguments appended to every training invocation.
	ExtraArgs []string `yaml:"extra_args,omitempty" docdesc:"Additional arguments appended to every training invocation"` //nolint:lll
	// Skip the remaining runs after a failure, defaults to false.
	FailFast bool `yaml:"fail_fast,omitempty" docdesc:"Skip the remaining runs after a failure, defaults to false"` //nolint:lll
	// Report the sweep as failed when any run fails, defaults to false.
	FailOnError bool `yaml:"fail_on_error,omitempty" docdesc:"Report the sweep as failed when any run fails, defaults to false"` //nolint:lll
}
