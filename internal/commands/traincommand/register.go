// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package traincommand

import "github.com/matt-FFFFFF/sweep/internal/commandregistry"

const commandType = "train"

// Register adds the train command type to the registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, NewCommander())
}
