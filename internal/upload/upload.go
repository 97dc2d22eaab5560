// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// WeightsFileName is the checkpoint file name expected by the Hub.
	WeightsFileName = "pytorch_model.bin"
	// ConfigFileName is the model config file name expected by the Hub.
	ConfigFileName = "config.json"
	// ReadmeFileName is the model card file name.
	ReadmeFileName = "README.md"
	// RepoDirName is the clone target inside the staging directory.
	RepoDirName = "repo"
	// TokenEnvVar names the environment variable holding the Hub token.
	TokenEnvVar = "HF_TOKEN"

	hubBaseURL  = "https://huggingface.co/"
	envFileName = ".env"

	// sixFourFour is the file mode for non-executable files created in the staging directory.
	sixFourFour = 0o644
	// sevenFiveFive is the file mode for directories created in the staging directory.
	sevenFiveFive = 0o755
	// tempDirSuffixLength is the length of the random suffix for the staging directory.
	tempDirSuffixLength = 8
)

var (
	// ErrNoToken is returned when no Hub token can be found.
	ErrNoToken = errors.New("HF_TOKEN is not set, export it or add it to a .env file")
	// ErrModelNotFound is returned when the checkpoint does not exist.
	ErrModelNotFound = errors.New("model file not found")
	// ErrStage is returned when the staging directory cannot be populated.
	ErrStage = errors.New("failed to stage model files")
	// ErrFileCopy is returned when a file copy operation fails.
	ErrFileCopy = errors.New("file copy error")
	// ErrFilePath is returned when a file path operation fails.
	ErrFilePath = errors.New("file path error")
)

// FS is a filesystem abstraction used for file operations.
// Default is the OS filesystem, but can be replaced with a mock for testing.
var FS = afero.NewOsFs()

// TempDirPath returns the temporary directory to use.
var TempDirPath = os.TempDir

// RandomName generates a random string with the given prefix and length.
var RandomName = func(prefix string, n int) string {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}

	return prefix + string(b)
}

// Options describes one upload.
type Options struct {
	ModelPath string // Path to the trained checkpoint.
	RepoName  string // Hub repository, e.g. "user/hybrid-llm".
	ModelName string // Optional display name, defaults to the checkpoint file name.
	Pattern   string // Optional layer pattern recorded in the model config.
	DryRun    bool   // Stage only, do not publish.
	KeepTemp  bool   // Keep the staging directory after publishing.
}

// DisplayName returns the model name used in the commit message.
func (o Options) DisplayName() string {
	if o.ModelName != "" {
		return o.ModelName
	}

	return filepath.Base(o.ModelPath)
}

// RepoURL returns the git remote for the target repository.
func (o Options) RepoURL() string {
	return hubBaseURL + o.RepoName
}

// Token loads a .env file when one is present in the working directory,
// then returns the Hub token from the environment. Pushing relies on the
// user's git credential setup; the token is only checked up front so a
// missing one fails before any work is done.
func Token() (string, error) {
	if _, err := os.Stat(envFileName); err == nil {
		if err := godotenv.Load(); err != nil {
			return "", errors.Join(ErrNoToken, err)
		}
	}

	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return "", ErrNoToken
	}

	return token, nil
}

type modelConfig struct {
	Architectures []string `json:"architectures"`
	ModelType     string   `json:"model_type"`
	LayerPattern  string   `json:"layer_pattern,omitempty"`
}

// Stage writes the upload payload into a fresh staging directory: the
// model config, a README model card and the checkpoint copied as the
// Hub weights file. It returns the staging directory path.
func Stage(ctx context.Context, opts Options) (string, error) {
	exists, err := afero.Exists(FS, opts.ModelPath)
	if err != nil {
		return "", errors.Join(ErrStage, err)
	}

	if !exists {
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, opts.ModelPath)
	}

	dir := filepath.Join(TempDirPath(), RandomName("sweep_upload_", tempDirSuffixLength))
	if err := FS.MkdirAll(dir, sevenFiveFive); err != nil {
		return "", errors.Join(ErrStage, err)
	}

	ctxlog.Info(ctx, "staging model for upload", "model", opts.ModelPath, "dir", dir)

	cfg, err := json.MarshalIndent(modelConfig{
		Architectures: []string{"HybridModel"},
		ModelType:     "hybrid_llm",
		LayerPattern:  opts.Pattern,
	}, "", "  ")
	if err != nil {
		return "", errors.Join(ErrStage, err)
	}

	if err := afero.WriteFile(FS, filepath.Join(dir, ConfigFileName), cfg, sixFourFour); err != nil {
		return "", errors.Join(ErrStage, err)
	}

	if err := afero.WriteFile(FS, filepath.Join(dir, ReadmeFileName), modelCard(opts), sixFourFour); err != nil {
		return "", errors.Join(ErrStage, err)
	}

	if err := copyFile(opts.ModelPath, filepath.Join(dir, WeightsFileName)); err != nil {
		return "", errors.Join(ErrStage, err)
	}

	return dir, nil
}

// Cleanup removes the staging directory unless the caller asked to keep it.
func Cleanup(ctx context.Context, dir string, keep bool) {
	if keep {
		ctxlog.Info(ctx, "keeping staging directory", "dir", dir)

		return
	}

	if err := FS.RemoveAll(dir); err != nil {
		ctxlog.Warn(ctx, "failed to remove staging directory", "dir", dir, "error", err)
	}
}

func modelCard(opts Options) []byte {
	var b strings.Builder

	b.WriteString("# Hybrid LLM Model\n\n")
	b.WriteString("This is a hybrid transformer-Mamba model uploaded by the sweep driver.\n\n")
	b.WriteString("## Model Details\n\n")
	b.WriteString("- **Architecture**: Hybrid Transformer-Mamba\n")

	if opts.Pattern != "" {
		fmt.Fprintf(&b, "- **Layer pattern**: `%s`\n", opts.Pattern)
	}

	fmt.Fprintf(&b, "- **Source checkpoint**: `%s`\n", filepath.Base(opts.ModelPath))
	b.WriteString("\n## Usage\n\n")
	fmt.Fprintf(&b, "```python\nfrom transformers import AutoModelForCausalLM\n\nmodel = AutoModelForCausalLM.from_pretrained(%q)\n```\n", opts.RepoName)

	return []byte(b.String())
}

// copyFile streams src to dst so large checkpoints are never held in memory.
func copyFile(src, dst string) error {
	in, err := FS.Open(src)
	if err != nil {
		return errors.Join(ErrFileCopy, err)
	}
	defer in.Close() //nolint:errcheck

	out, err := FS.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, sixFourFour)
	if err != nil {
		return errors.Join(ErrFileCopy, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()

		return errors.Join(ErrFileCopy, err)
	}

	return out.Close()
}
