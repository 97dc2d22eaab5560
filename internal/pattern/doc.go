// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pattern defines the layer pattern vocabulary used by sweeps.
// A pattern is a string over the two-symbol alphabet {M, A}: M denotes a
// state-space (Mamba) layer and A an attention layer. The package also
// carries the built-in list of patterns that the default sweep trains,
// in the order they are trained.
package pattern
