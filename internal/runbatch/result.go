// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"slices"
	"time"
)

// ErrResultChildrenHasError is set on a parent result when one or more child results failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// ResultStatus classifies the outcome of a single command or batch.
type ResultStatus int

const (
	// ResultStatusUnknown means the outcome has not been determined.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the command or batch completed successfully.
	ResultStatusSuccess
	// ResultStatusError means the command or batch failed.
	ResultStatusError
	// ResultStatusSkipped means the command or batch was not run.
	ResultStatusSkipped
)

const (
	resultStatusUnknownStr = "unknown"
	resultStatusSuccessStr = "success"
	resultStatusErrorStr   = "error"
	resultStatusSkippedStr = "skipped"
)

// String returns the string representation of the ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return resultStatusSuccessStr
	case ResultStatusError:
		return resultStatusErrorStr
	case ResultStatusSkipped:
		return resultStatusSkippedStr
	default:
		return resultStatusUnknownStr
	}
}

// Result represents the outcome of running a command or batch.
type Result struct {
	ExitCode  int           // Exit code of the command or batch
	Error     error         // Error, if any
	StdOut    []byte        // Output from the command(s)
	StdErr    []byte        // Error output from the command(s)
	Label     string        // Label of the command or batch
	Status    ResultStatus  // Outcome classification
	StartedAt time.Time     // When the command started, zero for synthetic results
	Duration  time.Duration // Wall-clock run time of the command
	Children  Results       // Nested results for tree output
	newCwd    string        // New working directory, if changed
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result in the slice failed.
// Skip sentinels do not count as failures, and child results are not
// inspected: batches record their aggregate outcome on their own result.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			return true
		}

		if v.Error != nil && !errors.Is(v.Error, ErrSkipIntentional) && !errors.Is(v.Error, ErrSkipOnError) {
			return true
		}

		if v.Status == ResultStatusUnknown && v.ExitCode != 0 {
			return true
		}
	}

	return false
}

// Walk visits every result in the tree in depth-first order, parents before children.
func (r Results) Walk(fn func(*Result)) {
	for v := range slices.Values(r) {
		fn(v)

		if len(v.Children) > 0 {
			v.Children.Walk(fn)
		}
	}
}

// WriteText outputs the results to the writer in human-readable form with default options.
func (r Results) WriteText(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteTextWithOptions outputs the results to the writer in human-readable form.
func (r Results) WriteTextWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}

// WriteBinary outputs the results to the writer in a binary format that can
// be replayed later with the show command.
func (r Results) WriteBinary(w io.Writer) error {
	return writeResultGob(w, r)
}
