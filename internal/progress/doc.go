// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress provides real-time progress reporting for command execution.
// Commands emit events as they start, produce output, and finish; listeners
// such as the TUI, the metrics collector and the history recorder consume
// them without coupling to the executing command tree.
package progress
