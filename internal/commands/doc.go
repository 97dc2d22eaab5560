// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commands defines the interfaces between the configuration layer
// and the runnable command types. Each command type package implements
// Commander; the registry implements CommanderFactory and dispatches YAML
// command nodes to the right Commander by their `type` field.
package commands
