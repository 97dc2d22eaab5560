// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	_ "embed"
	"errors"

	"github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default sweep configuration.
// It is used when `sweep run` is invoked without a configuration file
// and as the template written by `sweep config init`.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)

	return out
}

// DefaultDefinition parses the embedded default sweep configuration.
func DefaultDefinition() (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(defaultYAML, &def); err != nil {
		return nil, errors.Join(ErrInvalidYaml, err)
	}

	return &def, nil
}
