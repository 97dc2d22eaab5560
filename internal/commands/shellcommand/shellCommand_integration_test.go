// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build integration

package shellcommand

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDefinition(name, commandLine string, env map[string]string, cwd string) *Definition {
	return &Definition{
		BaseDefinition: commands.BaseDefinition{
			Name:             name,
			WorkingDirectory: cwd,
			Env:              env,
		},
		CommandLine: commandLine,
	}
}

func TestCommandLineEdgeCases_Integration(t *testing.T) {
	ctx := context.Background()
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	testCases := []struct {
		name             string
		command          string
		expectedOutput   string // Expected substring in output
		expectedExitCode int
		cleanupFunc      func(t *testing.T) // Optional cleanup function
	}{
		{
			name:             "simple echo command",
			command:          `echo "Hello World"`,
			expectedOutput:   "Hello World",
			expectedExitCode: 0,
		},
		{
			name:             "command with nested quotes",
			command:          `echo "He said 'Hello World'"`,
			expectedOutput:   "He said 'Hello World'",
			expectedExitCode: 0,
		},
		{
			name:             "command with escaped quotes",
			command:          `echo "\"Hello World\""`,
			expectedOutput:   `"Hello World"`,
			expectedExitCode: 0,
		},
		{
			name:             "command with pipe",
			command:          `echo "hello world" | grep "world"`,
			expectedOutput:   "hello world",
			expectedExitCode: 0,
		},
		{
			name:             "command with output redirection",
			command:          `echo "test content" > test_output.txt && cat test_output.txt`,
			expectedOutput:   "test content",
			expectedExitCode: 0,
			cleanupFunc: func(t *testing.T) {
				os.Remove("test_output.txt")
			},
		},
		{
			name:             "command with logical AND operator",
			command:          `echo "first" && echo "second"`,
			expectedOutput:   "first",
			expectedExitCode: 0,
		},
		{
			name:             "command with logical OR operator",
			command:          `false || echo "fallback"`,
			expectedOutput:   "fallback",
			expectedExitCode: 0,
		},
		{
			name:             "command with subshell",
			command:          `echo "Date: $(date +%Y)"`,
			expectedOutput:   "Date:",
			expectedExitCode: 0,
		},
		{
			name:             "command with multiple commands",
			command:          `echo "Line 1"; echo "Line 2"`,
			expectedOutput:   "Line 1",
			expectedExitCode: 0,
		},
		{
			name:             "command with unicode characters",
			command:          `echo "Hello 世界 🌍"`,
			expectedOutput:   "Hello 世界 🌍",
			expectedExitCode: 0,
		},
		{
			name:             "command with special characters",
			command:          `echo "Special: !@#$%^&*()"`,
			expectedOutput:   "Special: !@#$%^&*()",
			expectedExitCode: 0,
		},
		{
			name:             "command that should fail",
			command:          `exit 1`,
			expectedOutput:   "",
			expectedExitCode: 1,
		},
		{
			name:             "long command with repeated text",
			command:          `echo "` + strings.Repeat("A", 100) + `"`,
			expectedOutput:   strings.Repeat("A", 100),
			expectedExitCode: 0,
		},
		{
			name:             "command with variable assignment",
			command:          `TEST_VAR="hello" && echo $TEST_VAR`,
			expectedOutput:   "hello",
			expectedExitCode: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cleanupFunc != nil {
				defer tc.cleanupFunc(t)
			}

			runnable, err := New(ctx, newTestDefinition("integration-test", tc.command, nil, ""))
			require.NoError(t, err)
			require.NotNil(t, runnable)

			// Run the command with timeout
			ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			results := runnable.Run(ctxWithTimeout)
			require.Len(t, results, 1, "expected exactly one result")

			result := results[0]

			// Check exit code
			assert.Equal(t, tc.expectedExitCode, result.ExitCode,
				"unexpected exit code. StdOut: %s, StdErr: %s",
				string(result.StdOut), string(result.StdErr))

			// Check expected output if provided
			if tc.expectedOutput != "" {
				output := string(result.StdOut)
				assert.Contains(t, output, tc.expectedOutput,
					"expected output not found. Full output: %s, StdErr: %s",
					output, string(result.StdErr))
			}

			// For successful commands, verify no error
			if tc.expectedExitCode == 0 {
				assert.NoError(t, result.Error,
					"unexpected error for successful command. StdOut: %s, StdErr: %s",
					string(result.StdOut), string(result.StdErr))
			}
		})
	}
}

func TestCommandWithEnvironmentVariables_Integration(t *testing.T) {
	ctx := context.Background()
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	testCases := []struct {
		name           string
		env            map[string]string
		command        string
		expectedOutput string
	}{
		{
			name:           "single environment variable",
			env:            map[string]string{"TEST_VAR": "hello_world"},
			command:        `echo "Value: $TEST_VAR"`,
			expectedOutput: "Value: hello_world",
		},
		{
			name: "multiple environment variables",
			env: map[string]string{
				"FIRST_VAR":  "first",
				"SECOND_VAR": "second",
			},
			command:        `echo "$FIRST_VAR and $SECOND_VAR"`,
			expectedOutput: "first and second",
		},
		{
			name:           "environment variable with special characters",
			env:            map[string]string{"SPECIAL_VAR": "hello@world#123"},
			command:        `echo "Special: $SPECIAL_VAR"`,
			expectedOutput: "Special: hello@world#123",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runnable, err := New(ctx, newTestDefinition("env-test", tc.command, tc.env, ""))
			require.NoError(t, err)
			require.NotNil(t, runnable)

			ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			results := runnable.Run(ctxWithTimeout)
			require.Len(t, results, 1)

			result := results[0]
			assert.Equal(t, 0, result.ExitCode,
				"command failed. StdOut: %s, StdErr: %s",
				string(result.StdOut), string(result.StdErr))
			assert.NoError(t, result.Error)

			output := string(result.StdOut)
			assert.Contains(t, output, tc.expectedOutput,
				"expected output not found. Full output: %s", output)
		})
	}
}

func TestCommandWithWorkingDirectory_Integration(t *testing.T) {
	ctx := context.Background()
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	tempDir := t.TempDir()

	// Create a test file in the temp directory
	testFile := "test_file.txt"
	testContent := "test content"
	err := os.WriteFile(tempDir+"/"+testFile, []byte(testContent), 0644)
	require.NoError(t, err)

	runnable, err := New(ctx, newTestDefinition("cwd-test", "cat "+testFile, nil, tempDir))
	require.NoError(t, err)
	require.NotNil(t, runnable)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	results := runnable.Run(ctxWithTimeout)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, 0, result.ExitCode,
		"command failed. StdOut: %s, StdErr: %s",
		string(result.StdOut), string(result.StdErr))
	assert.NoError(t, result.Error)

	output := string(result.StdOut)
	assert.Contains(t, output, testContent,
		"expected file content not found. Full output: %s", output)
}

func TestCommandTimeout_Integration(t *testing.T) {
	ctx := context.Background()
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	runnable, err := New(ctx, newTestDefinition("timeout-test", "sleep 5", nil, ""))
	require.NoError(t, err)
	require.NotNil(t, runnable)

	// Use a short timeout to force cancellation
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	results := runnable.Run(ctxWithTimeout)
	require.Len(t, results, 1)

	result := results[0]
	// Should be killed due to timeout
	assert.Equal(t, -1, result.ExitCode,
		"expected command to be killed. StdOut: %s, StdErr: %s",
		string(result.StdOut), string(result.StdErr))
	assert.Error(t, result.Error, "expected error due to timeout")
}

func TestCommandFailure_Integration(t *testing.T) {
	ctx := context.Background()
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	testCases := []struct {
		name             string
		command          string
		expectedExitCode int
	}{
		{
			name:             "exit with code 1",
			command:          `exit 1`,
			expectedExitCode: 1,
		},
		{
			name:             "exit with code 2",
			command:          `exit 2`,
			expectedExitCode: 2,
		},
		{
			name:             "command not found",
			command:          `nonexistent_command_12345`,
			expectedExitCode: 127, // Standard "command not found" exit code
		},
		{
			name:             "false command",
			command:          `false`,
			expectedExitCode: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runnable, err := New(ctx, newTestDefinition("failure-test", tc.command, nil, ""))
			require.NoError(t, err)
			require.NotNil(t, runnable)

			ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			results := runnable.Run(ctxWithTimeout)
			require.Len(t, results, 1)

			result := results[0]
			assert.Equal(t, tc.expectedExitCode, result.ExitCode,
				"unexpected exit code. StdOut: %s, StdErr: %s",
				string(result.StdOut), string(result.StdErr))
		})
	}
}
