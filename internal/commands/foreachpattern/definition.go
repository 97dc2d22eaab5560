// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package foreachpattern

import (
	"errors"
	"strings"

	"github.com/matt-FFFFFF/sweep/internal/commands"
)

var (
	// ErrBothCommandsAndGroup is returned when a definition sets both commands and command_group.
	ErrBothCommandsAndGroup = errors.New("cannot specify both 'commands' and 'command_group'")
	// ErrEmptyCommandGroup is returned when command_group contains only whitespace.
	ErrEmptyCommandGroup = errors.New("command_group cannot be empty or whitespace")
)

// Definition is the YAML definition for the foreachpattern command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// The layer patterns to iterate over. Defaults to the built-in sweep.
	Patterns []string `yaml:"patterns,omitempty" docdesc:"The layer patterns to iterate over. Defaults to the built-in sweep"` //nolint:lll
	// Mode can be "serial" or "parallel", defaults to serial.
	Mode string `yaml:"mode,omitempty" docdesc:"Execution mode: 'serial' or 'parallel', defaults to serial"`
	// The pause between consecutive patterns in serial mode, as a Go duration string.
	CoolDown string `yaml:"cool_down,omitempty" docdesc:"The pause between consecutive patterns in serial mode, as a Go duration string"` //nolint:lll
	// Commands is the list of commands to run once per pattern.
	Commands []any `yaml:"commands,omitempty" docdesc:"List of commands to run once per pattern"`
	// CommandGroup names a command group that supplies the commands instead of an inline list.
	CommandGroup string `yaml:"command_group,omitempty" docdesc:"Name of a command group that supplies the commands instead of an inline list"` //nolint:lll
}

// Validate checks that the definition supplies its commands in exactly one way.
func (d *Definition) Validate() error {
	if len(d.Commands) > 0 && d.CommandGroup != "" {
		return ErrBothCommandsAndGroup
	}

	if d.CommandGroup != "" && strings.TrimSpace(d.CommandGroup) == "" {
		return ErrEmptyCommandGroup
	}

	return nil
}
