// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a TeeReader implementation that captures the last
// line of output while preserving all data for complete reading. This is useful
// for displaying live progress from long-running training runs while keeping
// the full output for the result tree.
package teereader
