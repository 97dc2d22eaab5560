// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commandregistry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
)

// MaxRecursionDepth is the maximum depth of nested command group references.
const MaxRecursionDepth = 100

var (
	// ErrUnknownCommandType is returned when a command type is not registered.
	ErrUnknownCommandType = errors.New("unknown command type")
	// ErrCommandCreation is returned when a command cannot be created.
	ErrCommandCreation = errors.New("failed to create command")
	// ErrCommandUnmarshal is returned when a command cannot be unmarshaled.
	ErrCommandUnmarshal = errors.New("failed to unmarshal command definition")
	// ErrUnknownCommandGroup is returned when a command group is not registered.
	ErrUnknownCommandGroup = errors.New("unknown command group")
	// ErrCircularDependency is returned when command groups reference each other in a cycle.
	ErrCircularDependency = errors.New("circular dependency detected in command groups")
	// ErrMaxRecursionDepth is returned when command group nesting exceeds MaxRecursionDepth.
	ErrMaxRecursionDepth = errors.New("maximum recursion depth exceeded")
)

var _ commands.CommanderFactory = Registry{}

// Registry maps command type strings to their commanders and holds named
// command groups that configurations can reference.
type Registry struct {
	commanders map[string]commands.Commander
	groups     map[string][]any
}

// Registration registers one or more command types with a registry.
type Registration func(Registry)

// New creates a Registry and applies the supplied registrations.
func New(registrations ...Registration) Registry {
	r := Registry{
		commanders: make(map[string]commands.Commander),
		groups:     make(map[string][]any),
	}

	for _, register := range registrations {
		register(r)
	}

	return r
}

// Register registers a commander under the given command type.
func (r Registry) Register(commandType string, commander commands.Commander) {
	r.commanders[commandType] = commander
}

// Get returns the commander registered for the given command type.
func (r Registry) Get(commandType string) (commands.Commander, bool) {
	commander, ok := r.commanders[commandType]

	return commander, ok
}

// Iter returns an iterator over all registered command types and their commanders.
func (r Registry) Iter() iter.Seq2[string, commands.Commander] {
	return maps.All(r.commanders)
}

// commandEnvelope carries the type discriminator of a YAML command definition.
type commandEnvelope struct {
	Type string `yaml:"type"`
}

// CreateRunnableFromYAML creates a runnable from YAML data using the registered commanders.
func (r Registry) CreateRunnableFromYAML(ctx context.Context, yamlData []byte) (runbatch.Runnable, error) {
	var envelope commandEnvelope
	if err := yaml.Unmarshal(yamlData, &envelope); err != nil {
		return nil, errors.Join(ErrCommandUnmarshal, err)
	}

	commander, ok := r.Get(envelope.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommandType, envelope.Type)
	}

	runnable, err := commander.Create(ctx, r, yamlData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCommandCreation, envelope.Type, err)
	}

	return runnable, nil
}

// AddCommandGroup stores a named group of command definitions.
func (r Registry) AddCommandGroup(name string, commands []any) {
	r.groups[name] = commands
}

// ResolveCommandGroup returns the commands in the named group after validating
// that every transitive group reference exists and that no cycles are present.
// Nested references are not inlined; commanders resolve them during creation.
func (r Registry) ResolveCommandGroup(name string) ([]any, error) {
	if err := r.validateGroupReferences(name, nil, 0); err != nil {
		return nil, err
	}

	return r.groups[name], nil
}

// validateGroupReferences walks the group reference graph depth-first,
// carrying the path of visited groups for cycle reporting.
func (r Registry) validateGroupReferences(name string, path []string, depth int) error {
	if depth > MaxRecursionDepth {
		return fmt.Errorf("%w (%d) resolving command group %q", ErrMaxRecursionDepth, MaxRecursionDepth, name)
	}

	for i, visited := range path {
		if visited == name {
			return fmt.Errorf("%w: %s", ErrCircularDependency, formatCircularDependencyPath(path[i:]))
		}
	}

	groupCommands, ok := r.groups[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommandGroup, name)
	}

	for _, command := range groupCommands {
		ref, ok := commandGroupReference(command)
		if !ok {
			continue
		}

		if err := r.validateGroupReferences(ref, append(path, name), depth+1); err != nil {
			return err
		}
	}

	return nil
}

// commandGroupReference extracts the command_group field from a raw command
// definition, if present.
func commandGroupReference(command any) (string, bool) {
	m, ok := command.(map[string]any)
	if !ok {
		return "", false
	}

	ref, ok := m["command_group"].(string)

	return ref, ok && ref != ""
}

// formatCircularDependencyPath renders a cycle as "a → b → a".
func formatCircularDependencyPath(path []string) string {
	if len(path) == 0 {
		return "unknown path"
	}

	return strings.Join(path, " → ") + " → " + path[0]
}
