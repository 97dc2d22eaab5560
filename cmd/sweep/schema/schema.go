// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema provides the schema command for displaying YAML schema help.
package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/schema"
	"github.com/urfave/cli/v3"
)

const (
	commandTypeArg = "command-type"
	formatFlag     = "format"

	formatYAML     = "yaml"
	formatMarkdown = "markdown"
	formatMD       = "md"
	formatJSON     = "json"
)

// SchemaCmd is the command that displays YAML schema help for command types.
var SchemaCmd = &cli.Command{
	Name:        "schema",
	Description: "Display YAML schema documentation for command types",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: commandTypeArg,
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        formatFlag,
			Aliases:     []string{"f"},
			Usage:       "Output format: yaml, markdown, or json",
			DefaultText: formatYAML,
			Value:       formatYAML,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	factory, ok := ctx.Value(commands.FactoryContextKey{}).(commands.CommanderFactory)
	if !ok {
		return cli.Exit("failed to get command factory from context", 1)
	}

	commandType := cmd.StringArg(commandTypeArg)
	format := strings.ToLower(cmd.String(formatFlag))

	if commandType == "" {
		return listCommandTypes(cmd, factory)
	}

	switch format {
	case formatYAML, formatMarkdown, formatMD, formatJSON:
	default:
		return cli.Exit(fmt.Sprintf("Invalid format: %s. Valid formats: yaml, markdown, json", format), 1)
	}

	if commandType == "config" {
		return writeFullConfigSchema(cmd, factory, format)
	}

	commander, exists := factory.Get(commandType)
	if !exists {
		return cli.Exit(fmt.Sprintf("Unknown command type: %s", commandType), 1)
	}

	writer, ok := commander.(schema.Writer)
	if !ok {
		return cli.Exit(fmt.Sprintf("Command type %s does not support schema generation", commandType), 1)
	}

	switch format {
	case formatYAML:
		return writer.WriteYAMLExample(cmd.Writer)
	case formatMarkdown, formatMD:
		return writer.WriteMarkdownDoc(cmd.Writer)
	default:
		return writer.WriteJSONSchema(cmd.Writer, factory)
	}
}

// listCommandTypes prints every registered command type with its description.
func listCommandTypes(cmd *cli.Command, factory commands.CommanderFactory) error {
	fmt.Fprintln(cmd.Writer, "Available command types:")
	fmt.Fprintln(cmd.Writer)
	fmt.Fprintf(cmd.Writer, "  %-16s - %s\n", "config", "Full configuration file schema")

	type entry struct {
		commandType string
		description string
	}

	var entries []entry

	for commandType, commander := range factory.Iter() {
		description := "Description not available"
		if provider, ok := commander.(schema.Provider); ok {
			description = provider.GetCommandDescription()
		}

		entries = append(entries, entry{commandType: commandType, description: description})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].commandType < entries[j].commandType
	})

	for _, e := range entries {
		fmt.Fprintf(cmd.Writer, "  %-16s - %s\n", e.commandType, e.description)
	}

	fmt.Fprintln(cmd.Writer)
	fmt.Fprintln(cmd.Writer, "Use 'sweep schema <command-type>' to see detailed schema documentation.")
	fmt.Fprintln(cmd.Writer, "Use 'sweep schema <command-type> --format markdown' for markdown documentation.")
	fmt.Fprintln(cmd.Writer, "Use 'sweep schema config --format json' for the full configuration JSON Schema.")

	return nil
}

// writeFullConfigSchema emits the schema for an entire configuration file.
func writeFullConfigSchema(cmd *cli.Command, factory commands.CommanderFactory, format string) error {
	switch format {
	case formatJSON:
		jsonStr, err := schema.NewGenerator().GenerateJSONSchemaString(factory)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to generate full JSON schema: %v", err), 1)
		}

		fmt.Fprint(cmd.Writer, jsonStr)

		return nil
	case formatYAML:
		fmt.Fprintln(cmd.Writer, `# Full sweep configuration schema
# This shows the complete structure of a sweep configuration file

name: "hybrid layer pattern sweep"  # Name of the configuration
description: "Trains one model per layer pattern"  # What this configuration does
commands:  # List of commands to execute
  - type: sweep
    name: "layer pattern sweep"
    patterns:
      - MMMMMMMM
      - AAAAAAAA
    cool_down: 60s
  - type: shell
    name: "notify"
    command_line: "echo 'sweep finished'"

# Use 'sweep schema <command-type>' for specific command schemas`)

		return nil
	default:
		fmt.Fprintln(cmd.Writer, "# Sweep Configuration Schema")
		fmt.Fprintln(cmd.Writer)
		fmt.Fprintln(cmd.Writer, "Complete schema documentation for sweep configuration files.")
		fmt.Fprintln(cmd.Writer)
		fmt.Fprintln(cmd.Writer, "## Root Configuration")
		fmt.Fprintln(cmd.Writer)
		fmt.Fprintln(cmd.Writer, "| Field | Type | Required | Description |")
		fmt.Fprintln(cmd.Writer, "|-------|------|----------|-------------|")
		fmt.Fprintln(cmd.Writer, "| `name` | string | No | Name of the configuration |")
		fmt.Fprintln(cmd.Writer, "| `description` | string | No | Description of what this configuration does |")
		fmt.Fprintln(cmd.Writer, "| `command_groups` | array | No | Named, reusable lists of commands |")
		fmt.Fprintln(cmd.Writer, "| `commands` | array | Yes | List of commands to execute |")
		fmt.Fprintln(cmd.Writer)
		fmt.Fprintln(cmd.Writer, "## Available Command Types")
		fmt.Fprintln(cmd.Writer)

		var types []string
		for commandType := range factory.Iter() {
			types = append(types, commandType)
		}

		sort.Strings(types)

		for _, t := range types {
			fmt.Fprintf(cmd.Writer, "- `%s`\n", t)
		}

		fmt.Fprintln(cmd.Writer)
		fmt.Fprintln(cmd.Writer, "Use `sweep schema <command-type>` for detailed documentation of each command type.")

		return nil
	}
}
