// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show renders results previously saved by `sweep run --out`.
package show

import (
	"context"
	"encoding/gob"
	"errors"
	"os"

	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	fileArg                  = "file"
	noOutputStdErrFlag       = "no-output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
	showDetailsFlag          = "show-details"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrDecodeResults is returned when the results cannot be decoded from the file.
	ErrDecodeResults = errors.New("failed to decode results")
	// ErrWriteResults is returned when the results cannot be written to stdout.
	ErrWriteResults = errors.New("failed to write results to stdout")
)

// ShowCmd is the command that renders previously saved run results.
var ShowCmd = &cli.Command{
	Name:        "show",
	Description: "Show previously saved results.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: fileArg,
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        outputSuccessDetailsFlag,
			Aliases:     []string{"success"},
			Usage:       "Include successful results in the output",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        noOutputStdErrFlag,
			Aliases:     []string{"no-stderr"},
			Usage:       "Exclude stderr output in the results",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        outputStdOutFlag,
			Aliases:     []string{"stdout"},
			Usage:       "Include stdout output in the results",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        showDetailsFlag,
			Aliases:     []string{"details"},
			Usage:       "Include start times and durations in the output",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		file, err := os.Open(cmd.StringArg(fileArg))
		if err != nil {
			return errors.Join(ErrReadFile, err)
		}

		defer file.Close() //nolint:errcheck

		var results runbatch.Results
		if err := gob.NewDecoder(file).Decode(&results); err != nil {
			return errors.Join(ErrDecodeResults, err)
		}

		opts := runbatch.DefaultOutputOptions()
		opts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
		opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
		opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)
		opts.ShowDetails = cmd.Bool(showDetailsFlag)

		if err := results.WriteTextWithOptions(cmd.Writer, opts); err != nil {
			return errors.Join(ErrWriteResults, err)
		}

		return nil
	},
}
