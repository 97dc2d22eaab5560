// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

// ErrBuildRunnables is returned when a sweep block cannot be turned into a runnable.
var ErrBuildRunnables = errors.New("failed to build runnables from HCL plan")

// RunnableBuilder builds a runnable from a single YAML command node.
// The command registry satisfies it.
type RunnableBuilder interface {
	CreateRunnableFromYAML(ctx context.Context, payload []byte) (runbatch.Runnable, error)
}

// BuildRunnables converts every sweep block in the plan into a runnable.
// Blocks are bridged onto the same command types as the YAML configuration
// format by marshalling their map form.
func BuildRunnables(ctx context.Context, builder RunnableBuilder, plan *SweepPlan) ([]runbatch.Runnable, error) {
	runnables := make([]runbatch.Runnable, 0, len(plan.Sweeps))

	var errs error

	for _, block := range plan.Sweeps {
		payload, err := yaml.Marshal(block.ToMap())
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to marshal sweep %q: %w", block.SweepName, err))
			continue
		}

		runnable, err := builder.CreateRunnableFromYAML(ctx, payload)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to build sweep %q: %w", block.SweepName, err))
			continue
		}

		runnables = append(runnables, runnable)
	}

	if errs != nil {
		return nil, errors.Join(ErrBuildRunnables, errs)
	}

	return runnables, nil
}

// ToMap converts the sweep block to the map shape shared with the YAML
// configuration format. A block without nested commands becomes a single
// sweep command. A block with nested commands becomes a serial pipeline;
// its direct children of type "sweep" inherit the block attributes as
// defaults, so the block-level settings apply wherever the sweep is
// placed in the pipeline.
func (b *SweepBlock) ToMap() map[string]any {
	if len(b.Commands) == 0 {
		m := b.sweepAttrs()
		m["type"] = "sweep"
		m["name"] = b.SweepName

		if len(b.Env) > 0 {
			m["env"] = b.Env
		}

		return m
	}

	children := make([]any, 0, len(b.Commands))

	for _, cmd := range b.Commands {
		cm := cmd.ToMap()
		if cm == nil {
			continue
		}

		if cm["type"] == "sweep" {
			b.fillSweepDefaults(cm)
		}

		children = append(children, cm)
	}

	m := map[string]any{
		"type":     "serial",
		"name":     b.SweepName,
		"commands": children,
	}

	if len(b.Env) > 0 {
		m["env"] = b.Env
	}

	return m
}

func (b *SweepBlock) sweepAttrs() map[string]any {
	m := make(map[string]any)

	if len(b.Patterns) > 0 {
		m["patterns"] = b.Patterns
	}

	if b.CoolDown != "" {
		m["cool_down"] = b.CoolDown
	}

	if b.Program != "" {
		m["program"] = b.Program
	}

	if b.Script != "" {
		m["script"] = b.Script
	}

	if b.Tracking != nil {
		m["tracking"] = *b.Tracking
	}

	if len(b.ExtraArgs) > 0 {
		m["extra_args"] = b.ExtraArgs
	}

	if b.FailFast {
		m["fail_fast"] = true
	}

	if b.FailOnError {
		m["fail_on_error"] = true
	}

	return m
}

func (b *SweepBlock) fillSweepDefaults(m map[string]any) {
	for k, v := range b.sweepAttrs() {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
}

// ToMap converts the command block to the map shape shared with the YAML
// configuration format. Disabled blocks convert to nil.
func (b *CommandBlock) ToMap() map[string]any {
	if b.Enabled != nil && !*b.Enabled {
		return nil
	}

	m := map[string]any{"type": b.Type}

	if b.Name != "" {
		m["name"] = b.Name
	}

	if b.WorkingDirectory != "" {
		m["working_directory"] = b.WorkingDirectory
	}

	if b.RunsOnCondition != "" {
		m["runs_on_condition"] = b.RunsOnCondition
	}

	if len(b.RunsOnExitCodes) > 0 {
		m["runs_on_exit_codes"] = b.RunsOnExitCodes
	}

	if len(b.Env) > 0 {
		m["env"] = b.Env
	}

	if b.CommandLine != "" {
		m["command_line"] = b.CommandLine
	}

	if len(b.SuccessExitCodes) > 0 {
		m["success_exit_codes"] = b.SuccessExitCodes
	}

	if len(b.SkipExitCodes) > 0 {
		m["skip_exit_codes"] = b.SkipExitCodes
	}

	if b.Duration != "" {
		m["duration"] = b.Duration
	}

	if b.Pattern != "" {
		m["pattern"] = b.Pattern
	}

	if b.Program != "" {
		m["program"] = b.Program
	}

	if b.Script != "" {
		m["script"] = b.Script
	}

	if b.PatternFlag != "" {
		m["pattern_flag"] = b.PatternFlag
	}

	if b.Tracking != nil {
		m["tracking"] = *b.Tracking
	}

	if b.TrackingFlag != "" {
		m["tracking_flag"] = b.TrackingFlag
	}

	if len(b.ExtraArgs) > 0 {
		m["extra_args"] = b.ExtraArgs
	}

	if len(b.Patterns) > 0 {
		m["patterns"] = b.Patterns
	}

	if b.CoolDown != "" {
		m["cool_down"] = b.CoolDown
	}

	if b.FailFast {
		m["fail_fast"] = true
	}

	if b.FailOnError {
		m["fail_on_error"] = true
	}

	if b.Mode != "" {
		m["mode"] = b.Mode
	}

	if b.CommandGroup != "" {
		m["command_group"] = b.CommandGroup
	}

	if len(b.Commands) > 0 {
		children := make([]any, 0, len(b.Commands))

		for _, cmd := range b.Commands {
			cm := cmd.ToMap()
			if cm == nil {
				continue
			}

			children = append(children, cm)
		}

		m["commands"] = children
	}

	return m
}
