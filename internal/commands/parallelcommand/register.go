// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallelcommand

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "parallel"

// Register adds the parallel command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
