// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"

	"github.com/matt-FFFFFF/sweep/internal/progress"
)

// Ensure ForEachCommand implements ProgressiveRunnable.
var _ ProgressiveRunnable = (*ForEachCommand)(nil)

// RunWithProgress implements ProgressiveRunnable for ForEachCommand.
// The foreach layer is transparent in the progress hierarchy: it passes the
// reporter straight to the expanded batch, which reports directly.
func (f *ForEachCommand) RunWithProgress(ctx context.Context, reporter progress.Reporter) Results {
	run, results := f.expand(ctx)
	if results != nil {
		return results
	}

	if progressive, ok := run.(ProgressiveRunnable); ok {
		return progressive.RunWithProgress(ctx, reporter)
	}

	// Fallback to regular execution with synthesized progress events
	return RunRunnableWithProgress(ctx, run, reporter, []string{run.GetLabel()})
}
