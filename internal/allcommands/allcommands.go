// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package allcommands bundles the registrations of every built-in command
// type so that the CLI and tests build identical registries.
package allcommands

import (
	"github.com/matt-FFFFFF/sweep/internal/commandregistry"
	"github.com/matt-FFFFFF/sweep/internal/commands/foreachpattern"
	"github.com/matt-FFFFFF/sweep/internal/commands/parallelcommand"
	"github.com/matt-FFFFFF/sweep/internal/commands/serialcommand"
	"github.com/matt-FFFFFF/sweep/internal/commands/shellcommand"
	"github.com/matt-FFFFFF/sweep/internal/commands/sleepcommand"
	"github.com/matt-FFFFFF/sweep/internal/commands/sweepcommand"
	"github.com/matt-FFFFFF/sweep/internal/commands/traincommand"
)

// New creates a command registry with every built-in command type registered.
func New() commandregistry.Registry {
	return commandregistry.New(
		serialcommand.Register,
		parallelcommand.Register,
		foreachpattern.Register,
		shellcommand.Register,
		sleepcommand.Register,
		traincommand.Register,
		sweepcommand.Register,
	)
}
