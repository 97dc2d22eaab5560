// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config provides commands for inspecting the configuration format
// and writing a starter configuration file.
package config

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/config"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/schema"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	pathArg = "path"
	// DefaultInitPath is where `sweep config init` writes when no path is given.
	DefaultInitPath = "sweep.yaml"

	fileMode = 0o644
)

// ErrFileExists is returned when the init target already exists.
var ErrFileExists = errors.New("file already exists")

// FS is the filesystem used by `config init`. Tests replace it with a memory
// backed implementation.
var FS = afero.NewOsFs()

// ConfigCmd is the command that gives info on the configuration format.
var ConfigCmd = &cli.Command{
	Name:  "config",
	Usage: "Get info on the configuration format and command types",
	Commands: []*cli.Command{
		typesCmd,
		defaultCmd,
		initCmd,
	},
}

var typesCmd = &cli.Command{
	Name:        "types",
	Description: "List the registered command types.",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		factory, ok := ctx.Value(commands.FactoryContextKey{}).(commands.CommanderFactory)
		if !ok {
			return cli.Exit("failed to get command factory from context", 1)
		}

		type entry struct {
			commandType string
			description string
		}

		var entries []entry

		for commandType, commander := range factory.Iter() {
			description := ""
			if provider, ok := commander.(schema.Provider); ok {
				description = provider.GetCommandDescription()
			}

			entries = append(entries, entry{commandType: commandType, description: description})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].commandType < entries[j].commandType
		})

		fmt.Fprintf(cmd.Writer, "Available command types:\n\n")

		for _, e := range entries {
			fmt.Fprintf(cmd.Writer, "- %-16s %s\n", e.commandType, e.description)
		}

		return nil
	},
}

var defaultCmd = &cli.Command{
	Name:        "default",
	Description: "Print the embedded default sweep configuration as YAML.",
	Action: func(_ context.Context, cmd *cli.Command) error {
		_, err := cmd.Writer.Write(config.DefaultYAML())

		return err
	},
}

var initCmd = &cli.Command{
	Name: "init",
	Description: "Write the embedded default sweep configuration to a file. " +
		"Defaults to " + DefaultInitPath + " in the current directory.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: pathArg,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.StringArg(pathArg)
		if path == "" {
			path = DefaultInitPath
		}

		exists, err := afero.Exists(FS, path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		if exists {
			return cli.Exit(fmt.Sprintf("%s: %s", ErrFileExists.Error(), path), 1)
		}

		if err := afero.WriteFile(FS, path, config.DefaultYAML(), fileMode); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		ctxlog.Info(ctx, "wrote default sweep configuration", "path", path)

		return nil
	},
}
