// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"
)

var _ Runnable = (*ForEachCommand)(nil)

// DefaultItemEnvVar is the default environment variable name used to store
// the current item in the iteration.
const DefaultItemEnvVar = "ITEM"

// ItemsProviderFunc is a function that returns a list of items to iterate over.
// It takes a context and the current working directory, and returns a list of items and an error.
type ItemsProviderFunc func(ctx context.Context, workingDirectory string) ([]string, error)

// ErrItemsProviderFailed is returned when the items provider function fails.
var ErrItemsProviderFailed = errors.New("items provider function failed")

// ForEachMode determines whether the commands are executed in serial or parallel.
type ForEachMode int

const (
	// ForEachSerial executes commands in series for each item.
	ForEachSerial ForEachMode = iota
	// ForEachParallel executes commands in parallel for each item.
	ForEachParallel
)

const (
	forEachSerialStr   = "serial"
	forEachParallelStr = "parallel"
	forEachUnknownStr  = "unknown"
)

// ErrInvalidForEachMode is returned when an unknown foreach mode is encountered.
var ErrInvalidForEachMode = errors.New("invalid foreach mode")

// String returns the string representation of the ForEachMode.
func (m ForEachMode) String() string {
	switch m {
	case ForEachSerial:
		return forEachSerialStr
	case ForEachParallel:
		return forEachParallelStr
	default:
		return forEachUnknownStr
	}
}

// ParseForEachMode creates a ForEachMode from a string.
func ParseForEachMode(s string) (ForEachMode, error) {
	switch s {
	case forEachSerialStr:
		return ForEachSerial, nil
	case forEachParallelStr:
		return ForEachParallel, nil
	default:
		return ForEachMode(-1), ErrInvalidForEachMode
	}
}

// ForEachCommand executes a list of commands for each item returned by an items provider function.
type ForEachCommand struct {
	*BaseCommand
	ItemsProvider ItemsProviderFunc
	Commands      []Runnable
	Mode          ForEachMode
	// CoolDown is the pause inserted between consecutive items in serial mode.
	// There is no pause after the final item. Parallel mode ignores it.
	CoolDown time.Duration
	// ItemEnvVar is the environment variable that carries the current item.
	// Defaults to DefaultItemEnvVar when empty.
	ItemEnvVar string
	// BestEffort reports overall success even when some items fail.
	BestEffort bool
}

// GetLabel returns the label of the batch.
func (f *ForEachCommand) GetLabel() string {
	if f.Label == "" {
		return "ForEach Command"
	}

	return f.Label
}

// Run implements the Runnable interface for ForEachCommand.
func (f *ForEachCommand) Run(ctx context.Context) Results {
	run, results := f.expand(ctx)
	if results != nil {
		return results
	}

	return run.Run(ctx)
}

// expand builds the batch that executes the commands once per item.
// It returns either the runnable to execute, or the results to return
// directly when the provider fails or yields no items.
func (f *ForEachCommand) expand(ctx context.Context) (Runnable, Results) {
	items, err := f.ItemsProvider(ctx, f.Cwd)
	if err != nil {
		return nil, Results{{
			Label:    f.Label,
			ExitCode: -1,
			Status:   ResultStatusError,
			Error:    fmt.Errorf("%w: %v", ErrItemsProviderFailed, err),
		}}
	}

	// Not an error, just an empty list - return success
	if len(items) == 0 {
		return nil, Results{{
			Label:    f.Label,
			ExitCode: 0,
			Status:   ResultStatusSuccess,
			Children: Results{},
		}}
	}

	itemEnvVar := f.ItemEnvVar
	if itemEnvVar == "" {
		itemEnvVar = DefaultItemEnvVar
	}

	interleaveCoolDown := f.Mode == ForEachSerial && f.CoolDown > 0

	capacity := len(items)
	if interleaveCoolDown {
		capacity += len(items) - 1
	}

	foreachCommands := make([]Runnable, 0, capacity)

	for i, item := range items {
		// Each item gets its own copy of the commands and environment so
		// that iterations cannot leak state into each other.
		newEnv := maps.Clone(f.Env)
		if newEnv == nil {
			newEnv = make(map[string]string)
		}

		newEnv[itemEnvVar] = item

		clonedCommands := make([]Runnable, len(f.Commands))
		for j, cmd := range f.Commands {
			clonedCommands[j] = cloneRunnable(cmd)
		}

		itemBatch := &SerialBatch{
			BaseCommand: NewBaseCommand(
				fmt.Sprintf("[%s]", item),
				f.Cwd,
				f.RunsOnCondition,
				f.RunsOnExitCodes,
				newEnv,
			),
			Commands: clonedCommands,
		}

		for _, cmd := range clonedCommands {
			cmd.SetParent(itemBatch)
		}

		foreachCommands = append(foreachCommands, itemBatch)

		if interleaveCoolDown && i < len(items)-1 {
			foreachCommands = append(foreachCommands, &SleepCommand{
				BaseCommand: NewBaseCommand(
					fmt.Sprintf("cool-down %s", f.CoolDown),
					"",
					f.RunsOnCondition,
					f.RunsOnExitCodes,
					nil,
				),
				Duration: f.CoolDown,
			})
		}
	}

	var run Runnable

	switch f.Mode {
	case ForEachParallel:
		run = &ParallelBatch{
			BaseCommand: NewBaseCommand(
				f.GetLabel()+" (parallel)",
				f.Cwd,
				f.RunsOnCondition,
				f.RunsOnExitCodes,
				maps.Clone(f.Env),
			),
			Commands:   foreachCommands,
			BestEffort: f.BestEffort,
		}
	case ForEachSerial:
		run = &SerialBatch{
			BaseCommand: NewBaseCommand(
				f.GetLabel()+" (serial)",
				f.Cwd,
				f.RunsOnCondition,
				f.RunsOnExitCodes,
				maps.Clone(f.Env),
			),
			Commands:   foreachCommands,
			BestEffort: f.BestEffort,
		}
	}

	run.SetParent(f.GetParent())

	for _, cmd := range foreachCommands {
		cmd.SetParent(run)
	}

	return run, nil
}

// NewForEachCommand creates a new ForEachCommand.
func NewForEachCommand(
	base *BaseCommand,
	provider ItemsProviderFunc,
	mode ForEachMode,
	commands []Runnable) *ForEachCommand {
	return &ForEachCommand{
		BaseCommand:   base,
		ItemsProvider: provider,
		Commands:      commands,
		Mode:          mode,
	}
}
