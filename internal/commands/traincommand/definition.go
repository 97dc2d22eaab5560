// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package traincommand

import "github.com/matt-FFFFFF/sweep/internal/commands"

// Definition is the YAML definition for the train command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// The program that runs the training script, defaults to python3.
	Program string `yaml:"program,omitempty" docdesc:"The program that runs the training script, defaults to python3"` //nolint:lll
	// The training script passed to the program, defaults to experiment_patterns.py.
	Script string `yaml:"script,omitempty" docdesc:"The training script passed to the program, defaults to experiment_patterns.py"` //nolint:lll
	// The layer pattern to train, e.g. MAMAMAMA.
	Pattern string `yaml:"pattern" docdesc:"The layer pattern to train, e.g. MAMAMAMA"`
	// The flag that precedes the pattern value, defaults to --pattern.
	PatternFlag string `yaml:"pattern_flag,omitempty" docdesc:"The flag that precedes the pattern value, defaults to --pattern"` //nolint:lll
	// Whether to enable experiment tracking, defaults to true.
	Tracking *bool `yaml:"tracking,omitempty" docdesc:"Whether to enable experiment tracking, defaults to true"`
	// The flag appended when tracking is enabled, defaults to --use_wandb.
	TrackingFlag string `yaml:"tracking_flag,omitempty" docdesc:"The flag appended when tracking is enabled, defaults to --use_wandb"` //nolint:lll
	// Additional arguments appended after the tracking flag.
	ExtraArgs []string `yaml:"extra_args,omitempty" docdesc:"Additional arguments appended after the tracking flag"` //nolint:lll
	// Exit codes that indicate success, defaults to 0.
	SuccessExitCodes []int `yaml:"success_exit_codes,omitempty" docdesc:"Exit codes that indicate success, defaults to 0"` //nolint:lll
	// Exit codes that indicate skip remaining tasks, defaults to empty.
	SkipExitCodes []int `yaml:"skip_exit_codes,omitempty" docdesc:"Exit codes that indicate skip remaining tasks, defaults to empty"` //nolint:lll
}

// TrackingEnabled reports whether the tracking flag should be appended.
// Tracking is on when the field is omitted.
func (d *Definition) TrackingEnabled() bool {
	return d.Tracking == nil || *d.Tracking
}

// applyDefaults fills in the defaults for unset template fields.
func (d *Definition) applyDefaults() {
	if d.Program == "" {
		d.Program = DefaultProgram
	}

	if d.Script == "" {
		d.Script = DefaultScript
	}

	if d.PatternFlag == "" {
		d.PatternFlag = DefaultPatternFlag
	}

	if d.TrackingFlag == "" {
		d.TrackingFlag = DefaultTrackingFlag
	}
}
