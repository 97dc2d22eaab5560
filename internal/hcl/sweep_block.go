// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package hcl

import (
	"strings"

	"github.com/Azure/golden"
	"github.com/zclconf/go-cty/cty"
)

const (
	sweepBlockAddressLength = 2
	sweepBlockName          = "sweep"
)

var _ golden.ApplyBlock = (*SweepBlock)(nil)

// SweepBlock represents a sweep block in the HCL configuration. Its
// attributes describe a training sweep; optional nested command blocks
// define a pipeline to run around it.
type SweepBlock struct {
	*golden.BaseBlock
	SweepName   string            `hcl:"name"`
	Description string            `hcl:"description,optional"`
	Patterns    []string          `hcl:"patterns,optional"`
	CoolDown    string            `hcl:"cool_down,optional"`
	Program     string            `hcl:"program,optional"`
	Script      string            `hcl:"script,optional"`
	Tracking    *bool             `hcl:"tracking,optional"`
	ExtraArgs   []string          `hcl:"extra_args,optional"`
	FailFast    bool              `hcl:"fail_fast,optional"`
	FailOnError bool              `hcl:"fail_on_error,optional"`
	Env         map[string]string `hcl:"env,optional"`
	Commands    []*CommandBlock   `hcl:"command,block"`
}

// Type returns the type of the block.
func (b *SweepBlock) Type() string {
	return ""
}

// BlockType returns the type of the block, which is "sweep" for SweepBlock.
func (b *SweepBlock) BlockType() string {
	return sweepBlockName
}

// AddressLength returns the length of the address for the block.
func (b *SweepBlock) AddressLength() int {
	return sweepBlockAddressLength
}

// CanExecutePrePlan checks if the block can be executed before the plan is applied.
func (b *SweepBlock) CanExecutePrePlan() bool {
	return false
}

// Apply is a no-op. The plan only collects sweep blocks; they are turned
// into runnables by BuildRunnables.
func (b *SweepBlock) Apply() error {
	return nil
}

// Address returns the address of the sweep block, which is prefixed with "sweep." followed by the sweep name.
func (b *SweepBlock) Address() string {
	return strings.Join([]string{sweepBlockName, b.SweepName}, ".")
}

// CommandBlock represents a command block within a sweep.
type CommandBlock struct {
	Type             string            `hcl:"type"`
	Name             string            `hcl:"name,optional"`
	WorkingDirectory string            `hcl:"working_directory,optional"`
	RunsOnCondition  string            `hcl:"runs_on_condition,optional"`
	RunsOnExitCodes  []int             `hcl:"runs_on_exit_codes,optional"`
	Enabled          *bool             `hcl:"enabled,optional"`
	Env              map[string]string `hcl:"env,optional"`

	// Shell specific attributes
	CommandLine      string `hcl:"command_line,optional"`
	SuccessExitCodes []int  `hcl:"success_exit_codes,optional"`
	SkipExitCodes    []int  `hcl:"skip_exit_codes,optional"`

	// Sleep specific attributes
	Duration string `hcl:"duration,optional"`

	// Train specific attributes
	Pattern      string   `hcl:"pattern,optional"`
	Program      string   `hcl:"program,optional"`
	Script       string   `hcl:"script,optional"`
	PatternFlag  string   `hcl:"pattern_flag,optional"`
	Tracking     *bool    `hcl:"tracking,optional"`
	TrackingFlag string   `hcl:"tracking_flag,optional"`
	ExtraArgs    []string `hcl:"extra_args,optional"`

	// Sweep specific attributes
	Patterns    []string `hcl:"patterns,optional"`
	CoolDown    string   `hcl:"cool_down,optional"`
	FailFast    bool     `hcl:"fail_fast,optional"`
	FailOnError bool     `hcl:"fail_on_error,optional"`

	// Foreachpattern specific attributes
	Mode string `hcl:"mode,optional"`

	// Container attributes
	CommandGroup string          `hcl:"command_group,optional"`
	Commands     []*CommandBlock `hcl:"command,block"`
}

func commandBlockCtyType(depth int) cty.Type {
	attrTypes := map[string]cty.Type{
		"type":               cty.String,
		"name":               cty.String,
		"working_directory":  cty.String,
		"runs_on_condition":  cty.String,
		"runs_on_exit_codes": cty.List(cty.Number),
		"enabled":            cty.Bool,
		"env":                cty.Map(cty.String),
		"command_line":       cty.String,
		"success_exit_codes": cty.List(cty.Number),
		"skip_exit_codes":    cty.List(cty.Number),
		"duration":           cty.String,
		"pattern":            cty.String,
		"program":            cty.String,
		"script":             cty.String,
		"pattern_flag":       cty.String,
		"tracking":           cty.Bool,
		"tracking_flag":      cty.String,
		"extra_args":         cty.List(cty.String),
		"patterns":           cty.List(cty.String),
		"cool_down":          cty.String,
		"fail_fast":          cty.Bool,
		"fail_on_error":      cty.Bool,
		"mode":               cty.String,
		"command_group":      cty.String,
	}

	optional := make([]string, 0, len(attrTypes))

	for name := range attrTypes {
		if name == "type" {
			continue
		}

		optional = append(optional, name)
	}

	if depth > 0 {
		attrTypes["command"] = cty.List(commandBlockCtyType(depth - 1))
		optional = append(optional, "command")
	}

	return cty.ObjectWithOptionalAttrs(attrTypes, optional)
}
