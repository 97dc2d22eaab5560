// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sleepcommand

import "github.com/matt-FFFFFF/sweep/internal/commands"

// Definition is the YAML definition for the sleep command.
type Definition struct {
	commands.BaseDefinition `yaml:",inline"`
	// How long to pause, as a Go duration string, e.g. "60s" or "1m30s".
	Duration string `yaml:"duration" docdesc:"How long to pause, as a Go duration string, e.g. \"60s\" or \"1m30s\""` //nolint:lll
}
