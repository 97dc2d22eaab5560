// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package foreachpattern provides a command type that runs a list of commands
// once per layer pattern.
package foreachpattern

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/pattern"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/matt-FFFFFF/sweep/internal/schema"
)

// PatternEnvVar is the environment variable that carries the current pattern
// to each command in the iteration.
const PatternEnvVar = "PATTERN"

// ErrInvalidCoolDown is returned when the cool_down duration cannot be parsed.
var ErrInvalidCoolDown = errors.New("invalid cool_down duration")

var _ commands.Commander = (*Commander)(nil)
var _ schema.Writer = (*Commander)(nil)
var _ schema.Provider = (*Commander)(nil)

// Commander is a struct that implements the commands.Commander interface.
type Commander struct {
	schemaGenerator *schema.BaseSchemaGenerator
}

// NewCommander creates a new foreachpattern Commander.
func NewCommander() *Commander {
	c := &Commander{}
	c.schemaGenerator = schema.NewBaseSchemaGenerator()

	return c
}

// Create creates a new runnable command and implements the commands.Commander interface.
func (c *Commander) Create(
	ctx context.Context,
	factory commands.CommanderFactory,
	payload []byte,
) (runbatch.Runnable, error) {
	def := new(Definition)
	if err := yaml.Unmarshal(payload, def); err != nil {
		return nil, errors.Join(commands.ErrYamlUnmarshal, err)
	}

	if err := def.Validate(); err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	base, err := def.ToBaseCommand()
	if err != nil {
		return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
	}

	mode := runbatch.ForEachSerial

	if def.Mode != "" {
		parsed, err := runbatch.ParseForEachMode(def.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse foreach mode %q: %w", def.Mode, err)
		}

		mode = parsed
	}

	var coolDown time.Duration

	if def.CoolDown != "" {
		coolDown, err = time.ParseDuration(def.CoolDown)
		if err != nil {
			return nil, errors.Join(ErrInvalidCoolDown, err)
		}
	}

	patterns := def.Patterns
	if len(patterns) == 0 {
		patterns = pattern.Strings(pattern.Default())
	}

	forEachCommand := &runbatch.ForEachCommand{
		BaseCommand:   base,
		ItemsProvider: itemsProvider(patterns),
		Mode:          mode,
		CoolDown:      coolDown,
		ItemEnvVar:    PatternEnvVar,
	}

	cmdDefs := def.Commands

	if def.CommandGroup != "" {
		cmdDefs, err = factory.ResolveCommandGroup(strings.TrimSpace(def.CommandGroup))
		if err != nil {
			return nil, errors.Join(commands.NewErrCommandCreate(commandType), err)
		}
	}

	var runnables []runbatch.Runnable

	for i, cmd := range cmdDefs {
		cmdYAML, err := yaml.Marshal(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal command %d: %w", i, err)
		}

		runnable, err := factory.CreateRunnableFromYAML(ctx, cmdYAML)
		if err != nil {
			return nil, fmt.Errorf("failed to create runnable for command %d: %w", i, err)
		}

		runnable.SetParent(forEachCommand)

		runnables = append(runnables, runnable)
	}

	forEachCommand.Commands = runnables

	return forEachCommand, nil
}

// itemsProvider returns the configured patterns regardless of working directory.
func itemsProvider(patterns []string) runbatch.ItemsProviderFunc {
	return func(_ context.Context, _ string) ([]string, error) {
		return patterns, nil
	}
}

// GetSchemaFields returns the schema fields for the foreachpattern type.
func (c *Commander) GetSchemaFields() []schema.Field {
	def := &Definition{}
	generator := schema.NewGenerator()

	schemaObj, err := generator.Generate(commandType, def)
	if err != nil {
		return []schema.Field{}
	}

	return schemaObj.Fields
}

// GetCommandType returns the command type string.
func (c *Commander) GetCommandType() string {
	return commandType
}

// GetCommandDescription returns a description of what this command does.
func (c *Commander) GetCommandDescription() string {
	return "Executes commands once per layer pattern, serially or in parallel"
}

// GetExampleDefinition returns an example definition for YAML generation.
func (c *Commander) GetExampleDefinition() interface{} {
	return &Definition{
		BaseDefinition: commands.BaseDefinition{
			Type: commandType,
			Name: "example-foreach-pattern",
		},
		Patterns: []string{"MMMMMMMM", "AAAAAAAA"},
		Mode:     "serial",
		CoolDown: "60s",
		Commands: []any{
			map[string]any{
				"type":         "shell",
				"name":         "pattern-command",
				"command_line": "echo \"training $PATTERN\"",
			},
		},
	}
}

// WriteYAMLExample writes the YAML schema documentation to the provided writer.
func (c *Commander) WriteYAMLExample(w io.Writer) error {
	return c.schemaGenerator.WriteYAMLExample(w, c.GetExampleDefinition()) //nolint:wrapcheck
}

// WriteMarkdownDoc writes the Markdown schema documentation to the provided writer.
func (c *Commander) WriteMarkdownDoc(w io.Writer) error {
	return c.schemaGenerator.WriteMarkdownExample( //nolint:wrapcheck
		w,
		c.GetCommandType(),
		c.GetExampleDefinition(),
		c.GetCommandDescription(),
	)
}

// WriteJSONSchema writes the JSON schema to the provided writer.
func (c *Commander) WriteJSONSchema(w io.Writer, f commands.CommanderFactory) error {
	return c.schemaGenerator.WriteJSONSchema(w, f) //nolint:wrapcheck
}
