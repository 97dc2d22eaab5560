// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdOut      bool // Whether to include stdout in the output
	IncludeStdErr      bool // Whether to include stderr in the output
	ColorOutput        bool // Whether to use ANSI colors in the output
	ShowSuccessDetails bool // Whether to show details for successful commands
	ShowDetails        bool // Whether to include start time and duration per result
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ColorOutput:        true,
		ShowSuccessDetails: false,
		ShowDetails:        false,
	}
}

const resultsHeader = "===== Results ====="

// WriteResults writes formatted results to the provided writer.
func WriteResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	fmt.Fprintf(w, "%s\n\n", resultsHeader) // nolint:errcheck

	// Process each top-level result
	for _, r := range results {
		if err := writeResultWithIndent(w, r, "", options); err != nil {
			return err
		}
	}

	return nil
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	// Results built by hand may not carry a status, so derive one.
	status := r.Status
	if status == ResultStatusUnknown {
		if r.Error != nil || r.ExitCode != 0 {
			status = ResultStatusError
		} else {
			status = ResultStatusSuccess
		}
	}

	// Format the status indicator
	var statusStr, labelPrefix, reset string

	switch status {
	case ResultStatusSkipped:
		statusStr = "~"

		if options.ColorOutput {
			statusStr = color.Colorize(statusStr, color.FgYellow)
			labelPrefix = color.ControlString(color.Bold, color.FgYellow)
		}
	case ResultStatusError:
		statusStr = "✗"

		if options.ColorOutput {
			statusStr = color.Colorize(statusStr, color.FgRed)
			labelPrefix = color.ControlString(color.Bold, color.FgRed)
		}
	default:
		statusStr = "✓"

		if options.ColorOutput {
			statusStr = color.Colorize(statusStr, color.FgGreen)
			labelPrefix = color.ControlString(color.Bold, color.FgGreen)
		}
	}

	if options.ColorOutput {
		reset = color.ControlString(color.Reset)
	}

	// Format the label
	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	// Print the status line
	fmt.Fprintf( // nolint:errcheck
		w,
		"%s%s %s%s%s",
		indent,
		statusStr,
		labelPrefix,
		label,
		reset,
	)

	// Add exit code if non-zero
	if r.ExitCode != 0 {
		fmt.Fprintf(w, " (exit code: %d)", r.ExitCode) // nolint:errcheck
	}

	// Synthetic results carry no start time, so there is nothing to show.
	if options.ShowDetails && !r.StartedAt.IsZero() {
		fmt.Fprintf( // nolint:errcheck
			w,
			" (started: %s, took: %s)",
			r.StartedAt.Format(time.TimeOnly),
			r.Duration.Round(time.Millisecond),
		)
	}

	fmt.Fprintln(w) // nolint:errcheck

	// Add error message if there is one.
	// Skip printing ErrResultChildrenHasError since it's redundant with the actual errors.
	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		errPrefix := "➜ Error:"

		if options.ColorOutput {
			var errColor color.Code

			switch status {
			case ResultStatusSkipped:
				errColor = color.FgYellow
			case ResultStatusError:
				errColor = color.FgRed
			default:
				errColor = color.FgWhite
			}

			errPrefix = color.ColorizeNoReset(errPrefix, errColor)
		}

		fmt.Fprintf( // nolint:errcheck
			w,
			"%s  %s %s%s\n",
			indent,
			errPrefix,
			r.Error.Error(),
			reset,
		)
	}

	// Show details only for failed commands or if explicitly asked to show success details
	shouldShowDetails := (r.Error != nil || r.ExitCode != 0 || options.ShowSuccessDetails) &&
		len(r.Children) == 0

	// Add stdout if requested and exists
	if shouldShowDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		fmt.Fprintf(w, "%s  ➜ Output:\n", indent)                    // nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.StdOut, indent+"     ")) // nolint:errcheck
	}

	// Add stderr if requested and exists
	if shouldShowDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		errOutPrefix := "➜ Error Output:"
		if options.ColorOutput {
			errOutPrefix = color.Colorize(errOutPrefix, color.FgHiRed)
		}

		fmt.Fprintf(w, "%s  %s\n", indent, errOutPrefix)             // nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.StdErr, indent+"     ")) // nolint:errcheck
	}

	// Process child results if any, with increased indentation
	if len(r.Children) > 0 {
		childIndent := indent + "  "
		for _, child := range r.Children {
			if err := writeResultWithIndent(w, child, childIndent, options); err != nil {
				return err
			}
		}
	}

	return nil
}

// formatOutput formats multi-line output with proper indentation.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(string(output), "\n")
	sb.Grow(len(output) + len(lines)*len(indent)) // Preallocate enough space
	// Add indentation to each line and join them back together
	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n") // Preserve empty lines
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
