// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sleepcommand

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "sleep"

// Register adds the sleep command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
