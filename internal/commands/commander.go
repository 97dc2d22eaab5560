// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"iter"

	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

// FactoryContextKey is the context key under which the active
// CommanderFactory is stored. The CLI places the factory in the root
// context so that subcommands can retrieve it.
type FactoryContextKey struct{}

// Commander is implemented by each command type. It turns a raw YAML
// command node into a runnable.
type Commander interface {
	// Create builds a runnable from the YAML command definition.
	// The factory is supplied so that container commands can create
	// their nested commands.
	Create(ctx context.Context, factory CommanderFactory, payload []byte) (runbatch.Runnable, error)
}

// CommanderFactory resolves command type names to their Commanders and
// holds named command groups for reuse across a configuration.
type CommanderFactory interface {
	// Get returns the Commander registered for the given command type.
	Get(commandType string) (Commander, bool)
	// Iter returns an iterator over the registered command types and
	// their Commanders.
	Iter() iter.Seq2[string, Commander]
	// CreateRunnableFromYAML builds a runnable from a single YAML
	// command node by dispatching on its `type` field.
	CreateRunnableFromYAML(ctx context.Context, payload []byte) (runbatch.Runnable, error)
	// AddCommandGroup stores a named list of command definitions.
	AddCommandGroup(name string, commands []any)
	// ResolveCommandGroup returns the command definitions stored under
	// name, validating nested group references.
	ResolveCommandGroup(name string) ([]any, error)
}
