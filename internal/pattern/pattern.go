// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pattern

import "errors"

// Symbols of the layer pattern alphabet.
const (
	// SymbolStateSpace marks a state-space (Mamba) layer.
	SymbolStateSpace = 'M'
	// SymbolAttention marks an attention layer.
	SymbolAttention = 'A'
)

// DefaultLength is the layer count of the built-in patterns.
const DefaultLength = 8

// ErrEmptyPattern is returned when a pattern is empty.
var ErrEmptyPattern = errors.New("pattern must not be empty")

// Pattern is a layer pattern, e.g. "MAMAMAMA".
// The trainer receives it verbatim.
type Pattern string

// String implements fmt.Stringer.
func (p Pattern) String() string {
	return string(p)
}

// Validate returns an error when the pattern cannot be used at all.
// Symbols outside the canonical alphabet are allowed, the trainer decides
// what it accepts. Use IsCanonical to check the alphabet.
func (p Pattern) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPattern
	}

	return nil
}

// IsCanonical reports whether the pattern is non-empty and uses only the
// M/A alphabet.
func (p Pattern) IsCanonical() bool {
	if len(p) == 0 {
		return false
	}

	for _, r := range p {
		if r != SymbolStateSpace && r != SymbolAttention {
			return false
		}
	}

	return true
}

// Counts returns the number of state-space and attention symbols.
// Symbols outside the alphabet are not counted.
func (p Pattern) Counts() (stateSpace, attention int) {
	for _, r := range p {
		switch r {
		case SymbolStateSpace:
			stateSpace++
		case SymbolAttention:
			attention++
		}
	}

	return stateSpace, attention
}

// Default returns the built-in sweep patterns.
// Sweeps run them in exactly this order.
func Default() []Pattern {
	return []Pattern{
		"MMMMMMMM",
		"AAAAAAAA",
		"MAMAMAMA",
		"AMAMAMAM",
		"MMMMAAAA",
		"AAAAMMMM",
		"MMAMAMAM",
		"AMMMMMMA",
		"MMAAMMAA",
	}
}

// Strings converts a pattern list to plain strings.
func Strings(patterns []Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = string(p)
	}

	return out
}

// FromStrings converts plain strings to a pattern list.
func FromStrings(raw []string) []Pattern {
	out := make([]Pattern, len(raw))
	for i, s := range raw {
		out[i] = Pattern(s)
	}

	return out
}
