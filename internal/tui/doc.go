// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a real-time Terminal User Interface (TUI) for monitoring
// command execution progress in the sweep driver. It displays a live tree view
// of executing commands with status indicators, a spinner for running commands,
// and the last output line from each running command.
//
// The TUI integrates with the progress event system to provide real-time updates
// as commands are executed, offering better visibility into long training sweeps
// compared to traditional text-based output.
package tui
