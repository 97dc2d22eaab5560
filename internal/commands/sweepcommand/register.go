// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweepcommand

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "sweep"

// Register adds the sweep command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
