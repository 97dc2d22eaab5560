// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
)

// BaseCommand is a struct that implements the Runnable interface.
// It should be embedded in other command types to provide common functionality.
type BaseCommand struct {
	Label           string            // Optional label for the command
	Cwd             string            // The working directory for the command
	RunsOnCondition RunCondition      // The condition under which the command runs
	RunsOnExitCodes []int             // Specific exit codes that trigger the command to run
	Env             map[string]string // Environment variables to be passed to the command
	parent          Runnable          // The parent command or batch, if any
}

// PreviousCommandStatus holds the state of the previous command execution.
type PreviousCommandStatus struct {
	// State is the result status of the previous command.
	State ResultStatus
	// ExitCode is the exit code of the previous command.
	ExitCode int
	// Err is the error from the previous command, if any.
	Err error
}

// NewBaseCommand creates a new BaseCommand with the specified parameters.
func NewBaseCommand(label, cwd string, runsOn RunCondition, runOnExitCodes []int, env map[string]string) *BaseCommand {
	if runOnExitCodes == nil {
		runOnExitCodes = []int{0} // Default to running on success (exit code 0)
	}

	if env == nil {
		env = make(map[string]string)
	}

	return &BaseCommand{
		Label:           label,
		Cwd:             cwd,
		RunsOnCondition: runsOn,
		RunsOnExitCodes: runOnExitCodes,
		Env:             env,
	}
}

// GetLabel returns the label of the command.
func (c *BaseCommand) GetLabel() string {
	if c.Label == "" {
		return "Command"
	}

	return c.Label
}

// GetCwd returns the effective working directory of the command.
// A relative or unset working directory is resolved against the parent's.
func (c *BaseCommand) GetCwd() string {
	if filepath.IsAbs(c.Cwd) || c.parent == nil {
		return c.Cwd
	}

	parentCwd := c.parent.GetCwd()
	if parentCwd == "" {
		return c.Cwd
	}

	return filepath.Join(parentCwd, c.Cwd)
}

// GetParent returns the parent for this command or batch.
func (c *BaseCommand) GetParent() Runnable {
	return c.parent
}

// SetParent sets the parent for this command or batch.
func (c *BaseCommand) SetParent(parent Runnable) {
	c.parent = parent
}

// SetCwd sets the working directory for the command.
// An empty cwd is ignored. An unset working directory inherits cwd regardless
// of overwrite. With overwrite set, an existing relative working directory is
// resolved against cwd and an existing absolute one is replaced.
func (c *BaseCommand) SetCwd(cwd string, overwrite bool) {
	if cwd == "" {
		return
	}

	if c.Cwd == "" {
		c.Cwd = cwd
		return
	}

	if !overwrite {
		return
	}

	if !filepath.IsAbs(c.Cwd) {
		c.Cwd = filepath.Join(cwd, c.Cwd)
		return
	}

	c.Cwd = cwd
}

// InheritEnv sets additional environment variables for the command.
func (c *BaseCommand) InheritEnv(env map[string]string) {
	if len(c.Env) == 0 {
		c.Env = maps.Clone(env)
		return
	}

	for k, v := range maps.All(env) {
		if _, ok := c.Env[k]; !ok {
			c.Env[k] = v
		}
	}
}

// ShouldRun checks if the command should run based on the current state.
// It returns a ShouldRunAction indicating whether to run, skip, or error.
func (c *BaseCommand) ShouldRun(prev PreviousCommandStatus) ShouldRunAction {
	switch c.RunsOnCondition {
	case RunOnAlways:
		return ShouldRunActionRun
	case RunOnSuccess:
		if prev.State != ResultStatusSuccess {
			return ShouldRunActionError
		}

		if errors.Is(prev.Err, ErrSkipIntentional) {
			return ShouldRunActionSkip
		}

		return ShouldRunActionRun
	case RunOnExitCodes:
		if !slices.Contains(c.RunsOnExitCodes, prev.ExitCode) {
			return ShouldRunActionSkip
		}

		return ShouldRunActionRun
	case RunOnError:
		if prev.State != ResultStatusError {
			return ShouldRunActionError
		}

		return ShouldRunActionRun
	}

	return ShouldRunActionRun
}
