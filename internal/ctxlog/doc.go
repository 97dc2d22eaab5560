// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger built on log/slog.
// The log level is read from the SWEEP_LOG_LEVEL environment variable at
// startup and defaults to INFO.
//
// The default handler is a pretty console handler that formats log messages
// in a human-readable way; a JSON logger is available for non-interactive use.
package ctxlog
