// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/sweep/internal/progress"
)

// Ensure SleepCommand implements ProgressiveRunnable.
var _ ProgressiveRunnable = (*SleepCommand)(nil)

// RunWithProgress implements ProgressiveRunnable for SleepCommand.
func (c *SleepCommand) RunWithProgress(ctx context.Context, reporter progress.Reporter) Results {
	ReportCommandStarted(reporter, c.GetLabel())

	results := c.Run(ctx)

	ReportExecutionComplete(reporter, c.GetLabel(), results,
		fmt.Sprintf("Cool-down complete: %s", c.GetLabel()),
		fmt.Sprintf("Cool-down interrupted: %s", c.GetLabel()))

	return results
}
