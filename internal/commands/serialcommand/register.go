// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package serialcommand

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "serial"

// Register adds the serial command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
