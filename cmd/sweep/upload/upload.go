// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package upload provides the command that publishes a trained checkpoint
// to the Hugging Face Hub.
package upload

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/upload"
	"github.com/urfave/cli/v3"
)

const (
	modelFlag    = "model"
	repoFlag     = "repo"
	nameFlag     = "name"
	patternFlag  = "pattern"
	dryRunFlag   = "dry-run"
	keepTempFlag = "keep-temp"
)

// UploadCmd is the command that stages a checkpoint and pushes it to the Hub.
var UploadCmd = &cli.Command{
	Name:  "upload",
	Usage: "Publish a trained checkpoint to the Hugging Face Hub",
	Description: `Stage a trained checkpoint together with a model config and
README model card, then publish the staged files to a Hugging Face Hub
repository with git. Requires HF_TOKEN in the environment or in a .env file,
and git credentials able to push to the target repository.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      modelFlag,
			Aliases:   []string{"m"},
			Usage:     "Path of the trained checkpoint file",
			TakesFile: true,
			Required:  true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     repoFlag,
			Aliases:  []string{"r"},
			Usage:    "Target Hub repository, e.g. user/hybrid-llm",
			Required: true,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     nameFlag,
			Usage:    "Display name used in the commit message. Defaults to the checkpoint file name.",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     patternFlag,
			Usage:    "Layer pattern recorded in the model config, e.g. MMAAMMAA",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:        dryRunFlag,
			Usage:       "Stage the files and print the publish plan without pushing",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        keepTempFlag,
			Usage:       "Keep the staging directory after publishing",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	opts := upload.Options{
		ModelPath: cmd.String(modelFlag),
		RepoName:  cmd.String(repoFlag),
		ModelName: cmd.String(nameFlag),
		Pattern:   cmd.String(patternFlag),
		DryRun:    cmd.Bool(dryRunFlag),
		KeepTemp:  cmd.Bool(keepTempFlag),
	}

	if _, err := upload.Token(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	stagingDir, err := upload.Stage(ctx, opts)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	defer upload.Cleanup(ctx, stagingDir, opts.KeepTemp || opts.DryRun)

	batch := upload.PublishBatch(ctx, opts, stagingDir)

	if opts.DryRun {
		fmt.Fprintf(cmd.Writer, "Dry run: staged %s in %s\n\n", opts.DisplayName(), stagingDir)
		fmt.Fprintln(cmd.Writer, "Publish plan:")

		for _, child := range batch.Commands {
			fmt.Fprintf(cmd.Writer, "  - %s\n", child.GetLabel())
		}

		return nil
	}

	ctxlog.Info(ctx, "publishing model", "repo", opts.RepoName, "model", opts.DisplayName())

	res := batch.Run(ctx)
	if err := res.WriteText(cmd.Writer); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if res.HasError() {
		return cli.Exit("publish failed, see results above", 1)
	}

	fmt.Fprintf(cmd.Writer, "Published %s to %s\n", opts.DisplayName(), opts.RepoURL())

	return nil
}
