// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package serialcommand

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

// Definition is the YAML definition for the serial command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// Commands is the list of commands to execute sequentially.
	Commands []any `yaml:"commands,omitempty" docdesc:"List of commands to execute sequentially"`
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
