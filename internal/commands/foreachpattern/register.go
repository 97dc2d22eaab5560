// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package foreachpattern

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "foreachpattern"

// Register adds the foreachpattern command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
