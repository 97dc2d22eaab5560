// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package upload

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/spf13/afero"
)

// PublishBatch builds the git pipeline that pushes a staged upload: clone
// the target repository into the staging directory, copy the staged files
// in, then add, commit and push. Every step runs on success only, so a
// failed clone stops the pipeline.
func PublishBatch(ctx context.Context, opts Options, stagingDir string) *runbatch.SerialBatch {
	repoDir := filepath.Join(stagingDir, RepoDirName)

	batch := &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(
			"publish "+opts.RepoName, stagingDir, runbatch.RunOnSuccess, nil, nil),
	}

	gitPath := "git"
	if execPath, err := exec.LookPath(gitPath); err == nil || errors.Is(err, exec.ErrDot) {
		gitPath = execPath
	} else {
		ctxlog.Warn(ctx, "git not found in PATH, publish will fail", "error", err)
	}

	copyStep := &runbatch.FunctionCommand{
		BaseCommand: runbatch.NewBaseCommand(
			"copy staged files", stagingDir, runbatch.RunOnSuccess, nil, nil),
		Func: func(ctx context.Context, _ string, _ ...string) runbatch.FunctionCommandReturn {
			return runbatch.FunctionCommandReturn{
				Err: copyStaging(ctx, stagingDir, repoDir),
			}
		},
	}

	children := []runbatch.Runnable{
		gitCommand(gitPath, "git clone", stagingDir, "clone", opts.RepoURL(), repoDir),
		copyStep,
		gitCommand(gitPath, "git add", repoDir, "add", "."),
		gitCommand(gitPath, "git commit", repoDir, "commit", "-m", "Add model: "+opts.DisplayName()),
		gitCommand(gitPath, "git push", repoDir, "push"),
	}

	for _, child := range children {
		child.SetParent(batch)
	}

	batch.Commands = children

	return batch
}

func gitCommand(gitPath, label, cwd string, args ...string) *runbatch.OSCommand {
	return &runbatch.OSCommand{
		BaseCommand:  runbatch.NewBaseCommand(label, cwd, runbatch.RunOnSuccess, nil, nil),
		Path:         gitPath,
		Args:         args,
		StreamOutput: true,
	}
}

// copyStaging copies the staged files into the cloned repository, skipping
// the clone itself.
func copyStaging(ctx context.Context, stagingDir, repoDir string) error {
	return afero.Walk(FS, stagingDir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}

		if path == stagingDir {
			return nil
		}

		relPath, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return errors.Join(ErrFilePath, err)
		}

		if relPath == RepoDirName || strings.HasPrefix(relPath, RepoDirName+string(os.PathSeparator)) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		dstPath := filepath.Clean(filepath.Join(repoDir, relPath))

		if info.IsDir() {
			return FS.MkdirAll(dstPath, sevenFiveFive)
		}

		return copyFile(path, dstPath)
	})
}
