// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shellcommand

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "shell"

// Register adds the shell command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
