// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

var (
	// ErrYamlUnmarshal is returned when a YAML command definition cannot be unmarshaled.
	ErrYamlUnmarshal = errors.New(
		"failed to decode YAML command definition, please check the syntax and structure of your YAML file",
	)
	// ErrFailedToCreateRunnable is returned when a runnable command cannot be created.
	ErrFailedToCreateRunnable = errors.New(
		"failed to create runnable command, please check the command definition and ensure all required fields are set",
	)
)

// ErrCommandCreate is returned when a command cannot be created.
// It includes the command name for easier debugging.
type ErrCommandCreate struct {
	cmdName string
	details string
}

// Error implements the error interface for ErrCommandCreate.
func (e *ErrCommandCreate) Error() string {
	if e.details == "" {
		return fmt.Sprintf("failed to create command %q", e.cmdName)
	}

	return fmt.Sprintf("failed to create command %q: %s", e.cmdName, e.details)
}

// NewErrCommandCreate creates a new ErrCommandCreate error.
func NewErrCommandCreate(cmdName string) error {
	return &ErrCommandCreate{cmdName: cmdName}
}

// NewErrCommandCreateWithDetails creates a new ErrCommandCreate error with additional details.
func NewErrCommandCreateWithDetails(cmdName string, details string) error {
	return &ErrCommandCreate{cmdName: cmdName, details: details}
}

// ToBaseCommand converts the BaseDefinition to a runbatch.BaseCommand.
// An empty runs_on_condition defaults to success.
func (d *BaseDefinition) ToBaseCommand() (*runbatch.BaseCommand, error) {
	if d.RunsOnCondition == "" {
		d.RunsOnCondition = runbatch.RunOnSuccess.String()
	}

	ro, err := runbatch.NewRunCondition(d.RunsOnCondition)
	if err != nil {
		return nil, errors.Join(ErrYamlUnmarshal, err)
	}

	base := runbatch.NewBaseCommand(
		d.Name,
		d.WorkingDirectory,
		ro,
		slices.Clone(d.RunsOnExitCodes),
		maps.Clone(d.Env))

	return base, nil
}
