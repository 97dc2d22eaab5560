// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color colorizes strings with ANSI escape codes.
// The environment variables NO_COLOR and FORCE_COLOR determine whether color
// output is enabled; when neither is set, terminal detection via
// golang.org/x/term decides. Constants are provided for the standard ANSI
// foreground and background colors.
package color
