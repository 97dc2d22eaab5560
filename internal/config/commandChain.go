// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

var (
	// ErrInvalidYaml is returned when the configuration cannot be parsed.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrNoCommands is returned when the configuration contains no commands.
	ErrNoCommands = errors.New("no commands specified")
	// ErrTimedOut is returned when configuration building exceeds the allowed time.
	ErrTimedOut = errors.New("configuration building timed out")
)

// Definition represents the root configuration structure.
type Definition struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description,omitempty"`
	CommandGroups []CommandGroup `yaml:"command_groups,omitempty"`
	Commands      []any          `yaml:"commands"`
}

// CommandGroup is a named, reusable list of command definitions that
// container commands can reference via their command_group field.
type CommandGroup struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Commands    []any  `yaml:"commands"`
}

// BuildFromYAML creates a runnable from YAML configuration.
// Command groups are registered with the factory before any command is
// built so that groups can be referenced regardless of declaration order.
func BuildFromYAML(ctx context.Context, factory commands.CommanderFactory, yamlData []byte) (runbatch.Runnable, error) {
	var def Definition
	if err := yaml.Unmarshal(yamlData, &def); err != nil {
		return nil, errors.Join(ErrInvalidYaml, err)
	}

	return Build(ctx, factory, &def)
}

// Build creates a runnable from a parsed Definition. The commands are
// wrapped in a serial batch labelled with the definition's name.
func Build(ctx context.Context, factory commands.CommanderFactory, def *Definition) (runbatch.Runnable, error) {
	if len(def.Commands) == 0 {
		return nil, ErrNoCommands
	}

	for _, group := range def.CommandGroups {
		factory.AddCommandGroup(group.Name, group.Commands)
	}

	batch := &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(def.Name, "", runbatch.RunOnSuccess, nil, nil),
	}

	var errs error

	children := make([]runbatch.Runnable, 0, len(def.Commands))

	for i, command := range def.Commands {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Join(ErrTimedOut, ctxErr)
		}

		cmdYAML, err := yaml.Marshal(command)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to marshal command %d: %w", i, err))
			continue
		}

		runnable, err := factory.CreateRunnableFromYAML(ctx, cmdYAML)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to create runnable for command %d: %w", i, err))
			continue
		}

		runnable.SetParent(batch)
		children = append(children, runnable)
	}

	if errs != nil {
		return nil, errs
	}

	batch.Commands = children

	return batch, nil
}
