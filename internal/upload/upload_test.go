// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package upload

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain is used to run the goleak verification before and after tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const stagingDir = "/tmp/sweep_upload_test"

func stubFs(t *testing.T) afero.Fs {
	t.Helper()

	memFs := afero.NewMemMapFs()
	stub := gostub.Stub(&FS, memFs)
	stub.Stub(&TempDirPath, func() string { return "/tmp" })
	stub.Stub(&RandomName, func(prefix string, _ int) string { return prefix + "test" })
	t.Cleanup(stub.Reset)

	return memFs
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestStage(t *testing.T) {
	memFs := stubFs(t)
	writeFile(t, memFs, "/models/model.pt", "weights")

	opts := Options{
		ModelPath: "/models/model.pt",
		RepoName:  "user/hybrid-llm",
		Pattern:   "MAMAMAMA",
	}

	dir, err := Stage(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, stagingDir, dir)

	raw, err := afero.ReadFile(memFs, filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal(raw, &cfg))
	assert.Equal(t, []any{"HybridModel"}, cfg["architectures"])
	assert.Equal(t, "hybrid_llm", cfg["model_type"])
	assert.Equal(t, "MAMAMAMA", cfg["layer_pattern"])

	card, err := afero.ReadFile(memFs, filepath.Join(dir, ReadmeFileName))
	require.NoError(t, err)
	assert.Contains(t, string(card), "# Hybrid LLM Model")
	assert.Contains(t, string(card), "MAMAMAMA")
	assert.Contains(t, string(card), `from_pretrained("user/hybrid-llm")`)

	weights, err := afero.ReadFile(memFs, filepath.Join(dir, WeightsFileName))
	require.NoError(t, err)
	assert.Equal(t, "weights", string(weights))
}

func TestStageWithoutPatternOmitsIt(t *testing.T) {
	memFs := stubFs(t)
	writeFile(t, memFs, "/models/model.pt", "weights")

	opts := Options{
		ModelPath: "/models/model.pt",
		RepoName:  "user/hybrid-llm",
	}

	dir, err := Stage(context.Background(), opts)
	require.NoError(t, err)

	raw, err := afero.ReadFile(memFs, filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal(raw, &cfg))
	assert.NotContains(t, cfg, "layer_pattern")

	card, err := afero.ReadFile(memFs, filepath.Join(dir, ReadmeFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(card), "Layer pattern")
}

func TestStageModelMissing(t *testing.T) {
	stubFs(t)

	_, err := Stage(context.Background(), Options{
		ModelPath: "/models/nope.pt",
		RepoName:  "user/hybrid-llm",
	})
	require.ErrorIs(t, err, ErrModelNotFound)
}

func TestCleanupRemovesStaging(t *testing.T) {
	memFs := stubFs(t)
	writeFile(t, memFs, "/models/model.pt", "weights")

	dir, err := Stage(context.Background(), Options{
		ModelPath: "/models/model.pt",
		RepoName:  "user/hybrid-llm",
	})
	require.NoError(t, err)

	Cleanup(context.Background(), dir, false)

	exists, err := afero.DirExists(memFs, dir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCleanupKeepsStagingWhenAsked(t *testing.T) {
	memFs := stubFs(t)
	writeFile(t, memFs, "/models/model.pt", "weights")

	dir, err := Stage(context.Background(), Options{
		ModelPath: "/models/model.pt",
		RepoName:  "user/hybrid-llm",
	})
	require.NoError(t, err)

	Cleanup(context.Background(), dir, true)

	exists, err := afero.DirExists(memFs, dir)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestToken(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "env-token")

		token, err := Token()
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("from .env file", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "placeholder")
		require.NoError(t, os.Unsetenv(TokenEnvVar))

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HF_TOKEN=file-token\n"), 0o600))
		t.Chdir(dir)

		token, err := Token()
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "placeholder")
		require.NoError(t, os.Unsetenv(TokenEnvVar))
		t.Chdir(t.TempDir())

		_, err := Token()
		require.ErrorIs(t, err, ErrNoToken)
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "model.pt", Options{ModelPath: "/models/model.pt"}.DisplayName())
	assert.Equal(t, "baseline", Options{ModelPath: "/models/model.pt", ModelName: "baseline"}.DisplayName())
}

func TestPublishBatchStructure(t *testing.T) {
	ctx := context.Background()
	opts := Options{
		ModelPath: "/models/model.pt",
		RepoName:  "user/hybrid-llm",
	}

	batch := PublishBatch(ctx, opts, stagingDir)

	assert.Equal(t, "publish user/hybrid-llm", batch.Label)
	require.Len(t, batch.Commands, 5)

	clone, ok := batch.Commands[0].(*runbatch.OSCommand)
	require.True(t, ok)
	assert.Equal(t, "git", filepath.Base(clone.Path))
	assert.Equal(t,
		[]string{"clone", "https://huggingface.co/user/hybrid-llm", filepath.Join(stagingDir, RepoDirName)},
		clone.Args)

	_, ok = batch.Commands[1].(*runbatch.FunctionCommand)
	require.True(t, ok, "second step copies the staged files")

	add, ok := batch.Commands[2].(*runbatch.OSCommand)
	require.True(t, ok)
	assert.Equal(t, []string{"add", "."}, add.Args)
	assert.Equal(t, filepath.Join(stagingDir, RepoDirName), add.GetCwd(),
		"git steps after the clone run inside the repository")

	commit, ok := batch.Commands[3].(*runbatch.OSCommand)
	require.True(t, ok)
	assert.Equal(t, []string{"commit", "-m", "Add model: model.pt"}, commit.Args)

	push, ok := batch.Commands[4].(*runbatch.OSCommand)
	require.True(t, ok)
	assert.Equal(t, []string{"push"}, push.Args)

	for i, child := range batch.Commands {
		assert.Same(t, batch, child.GetParent(), "child %d parent", i)
	}
}

func TestCopyStagingSkipsClone(t *testing.T) {
	memFs := stubFs(t)
	repoDir := filepath.Join(stagingDir, RepoDirName)

	writeFile(t, memFs, filepath.Join(stagingDir, ConfigFileName), `{"model_type":"hybrid_llm"}`)
	writeFile(t, memFs, filepath.Join(stagingDir, ReadmeFileName), "# Hybrid LLM Model")
	writeFile(t, memFs, filepath.Join(stagingDir, WeightsFileName), "weights")
	writeFile(t, memFs, filepath.Join(repoDir, ".git", "HEAD"), "ref: refs/heads/main")

	require.NoError(t, copyStaging(context.Background(), stagingDir, repoDir))

	for _, name := range []string{ConfigFileName, ReadmeFileName, WeightsFileName} {
		exists, err := afero.Exists(memFs, filepath.Join(repoDir, name))
		require.NoError(t, err)
		assert.True(t, exists, "%s should be copied into the clone", name)
	}

	exists, err := afero.Exists(memFs, filepath.Join(repoDir, RepoDirName))
	require.NoError(t, err)
	assert.False(t, exists, "the clone must not be copied into itself")
}

func TestCopyStepRunsInsideBatch(t *testing.T) {
	memFs := stubFs(t)
	repoDir := filepath.Join(stagingDir, RepoDirName)

	writeFile(t, memFs, filepath.Join(stagingDir, WeightsFileName), "weights")
	require.NoError(t, memFs.MkdirAll(repoDir, 0o755))

	batch := PublishBatch(context.Background(), Options{
		ModelPath: "/models/model.pt",
		RepoName:  "user/hybrid-llm",
	}, stagingDir)

	copyStep, ok := batch.Commands[1].(*runbatch.FunctionCommand)
	require.True(t, ok)

	results := copyStep.Run(context.Background())
	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)

	weights, err := afero.ReadFile(memFs, filepath.Join(repoDir, WeightsFileName))
	require.NoError(t, err)
	assert.Equal(t, "weights", string(weights))
}
