// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/sweep/internal/commands"
	"github.com/matt-FFFFFF/sweep/internal/config"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/matt-FFFFFF/sweep/internal/hcl"
	"github.com/matt-FFFFFF/sweep/internal/history"
	"github.com/matt-FFFFFF/sweep/internal/metrics"
	"github.com/matt-FFFFFF/sweep/internal/progress"
	"github.com/matt-FFFFFF/sweep/internal/runbatch"
	"github.com/matt-FFFFFF/sweep/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                    = "file"
	hclDirFlag                  = "hcl-dir"
	outFlag                     = "out"
	noOutputStdErrFlag          = "no-output-stderr"
	outputStdOutFlag            = "output-stdout"
	outputSuccessDetailsFlag    = "output-success-details"
	parallelismFlag             = "parallelism"
	tuiFlag                     = "tui"
	configTimeoutFlag           = "config-timeout"
	metricsListenFlag           = "metrics-listen"
	historyDBFlag               = "history-db"
	noHistoryFlag               = "no-history"
	configTimeoutSecondsDefault = 30
	cliExitStr                  = ""
	showDetails                 = "show-details"
)

var (
	// ErrGetConfigFile is returned when the file cannot be read.
	ErrGetConfigFile = fmt.Errorf("failed to get config file")
	// ErrBuildConfig is returned when the configuration cannot be built from the YAML file.
	ErrBuildConfig = fmt.Errorf("failed to build config")
)

// RunCmd is the command that runs a batch of commands defined in a YAML file.
var RunCmd = &cli.Command{
	Name: "run",
	Description: `Run a command or batch of commands defined in a YAML file.
This command executes the commands defined in the specified YAML file and outputs the results.
When no file is given, the embedded default sweep is run: it trains the model
once per layer pattern in the built-in list, with a cool-down pause between runs.

Config file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.

To save the results to a file, specify the output file name as an argument.
`,
	Arguments: []cli.Argument{},
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    fileFlag,
			Aliases: []string{"f"},
			Usage: "Specify the URL of the YAML configuration file to run. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Specify multiple times to run multiple files. " +
				"When omitted, the embedded default sweep is run.",
			OnlyOnce: false,
		},
		&cli.StringFlag{
			Name:     hclDirFlag,
			Usage:    "Specify a directory containing *.sweep.hcl configuration files to run.",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      outFlag,
			Aliases:   []string{"o"},
			Usage:     "Specify the output file name",
			TakesFile: true,
			Value:     "",
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:        outputSuccessDetailsFlag,
			Aliases:     []string{"success"},
			Usage:       "Include successful results in the output",
			TakesFile:   false,
			DefaultText: "false",
			Value:       false,
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        noOutputStdErrFlag,
			Aliases:     []string{"no-stderr"},
			Usage:       "Exclude stderr output in the results",
			Value:       false,
			DefaultText: "false",
			TakesFile:   false,
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        outputStdOutFlag,
			Aliases:     []string{"stdout"},
			Usage:       "Include stdout output in the results",
			TakesFile:   false,
			DefaultText: "false",
			Value:       false,
			OnlyOnce:    true,
		},
		&cli.IntFlag{
			Name:    parallelismFlag,
			Aliases: []string{"p"},
			Usage: "Set the maximum number of concurrent commands to run. " +
				"Defaults to the number of CPU cores available.",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:        tuiFlag,
			Aliases:     []string{"t", "interactive"},
			Usage:       "Run with interactive Terminal User Interface (TUI) showing real-time progress",
			Value:       false,
			DefaultText: "false",
			TakesFile:   false,
			OnlyOnce:    true,
		},
		&cli.IntFlag{
			Name:    configTimeoutFlag,
			Aliases: []string{"timeout"},
			Usage: "Set the maximum time in seconds to wait for configuration building. " +
				"Defaults to 30 seconds.",
			Value: configTimeoutSecondsDefault,
		},
		&cli.BoolFlag{
			Name:        showDetails,
			Aliases:     []string{"details"},
			Usage:       "Include start times and durations in the output",
			Value:       false,
			DefaultText: "false",
			TakesFile:   false,
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name: metricsListenFlag,
			Usage: "Expose Prometheus metrics on this address (host:port) " +
				"for the duration of the run.",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name: historyDBFlag,
			Usage: "Path of the run history database. " +
				"Defaults to $XDG_DATA_HOME/sweep/history.db.",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:        noHistoryFlag,
			Usage:       "Do not record this run in the history database",
			Value:       false,
			DefaultText: "false",
			TakesFile:   false,
			OnlyOnce:    true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	if cmd.Int(parallelismFlag) > 0 {
		runtime.GOMAXPROCS(cmd.Int(parallelismFlag))
	}

	factory := ctx.Value(commands.FactoryContextKey{}).(commands.CommanderFactory)

	// Create a timeout context for configuration building
	configCtx, configCancel := context.WithTimeout(ctx, time.Duration(cmd.Int(configTimeoutFlag))*time.Second)
	defer configCancel()

	runnables, err := buildRunnables(configCtx, cmd, factory)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	var topRunnable runbatch.Runnable

	switch l := len(runnables); l {
	case 0:
		logger.Error("No runnable commands found in the provided configuration files.")
		return cli.Exit(nil, 1)
	case 1:
		topRunnable = runnables[0]
	default:
		topRunnable = &runbatch.SerialBatch{
			BaseCommand: &runbatch.BaseCommand{
				Cwd:   ".",
				Label: "Aggregate",
			},
			Commands: runnables,
		}
	}

	// Execute with TUI or regular mode based on flag
	var res runbatch.Results

	var execErr error

	stopMetrics := func() error { return nil }

	defer func() {
		if err := stopMetrics(); err != nil {
			logger.Warn("failed to stop metrics endpoint", "error", err.Error())
		}
	}()

	switch cmd.Bool(tuiFlag) {
	case true:
		// Run with TUI - use TUI-compatible logger that won't interfere with display
		logger.Info("Starting interactive TUI mode...")

		buf := new(bytes.Buffer)
		// Create a TUI-friendly context that suppresses log output
		tuiCtx := ctxlog.NewForTUI(ctx, buf)

		runner := tui.NewRunner(tuiCtx)

		reporter, stop, err := wireMetrics(ctx, cmd.String(metricsListenFlag), runner.GetReporter())
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		stopMetrics = stop

		runner.SetReporter(reporter)

		res, execErr = runner.Run(tuiCtx, topRunnable)

		buf.WriteTo(cmd.Writer) //nolint:errcheck // Write any buffered log output to the command writer

		if execErr != nil {
			logger.Error(fmt.Sprintf("TUI execution error: %s", execErr.Error()), "error", execErr.Error())
		}
	default:
		// Run in standard mode
		reporter, stop, err := wireMetrics(ctx, cmd.String(metricsListenFlag), progress.NewNullReporter())
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		stopMetrics = stop

		res = tui.RunWithoutTUI(ctx, topRunnable, reporter)

		reporter.Close()
	}

	if !cmd.Bool(noHistoryFlag) {
		recordHistory(ctx, cmd.String(historyDBFlag), res)
	}

	outFileName := cmd.String(outFlag)
	if outFileName != "" {
		f, err := os.Create(outFileName) // Create the output file if it doesn't exist
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create output file %s: %s", outFileName, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		defer f.Close() //nolint:errcheck

		if err := res.WriteBinary(f); err != nil {
			logger.Error(fmt.Sprintf("Failed to write results to file %s: %s", outFileName, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info(fmt.Sprintf("Results written to %s", outFileName))
	}

	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
	opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)
	opts.ShowDetails = cmd.Bool(showDetails)

	logger.Info("Displaying results...")

	if err := res.WriteTextWithOptions(cmd.Writer, opts); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %s", err.Error()))
		return cli.Exit(nil, 1)
	}

	if res.HasError() {
		logger.Error("Some commands failed. See above for details.")
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// wireMetrics wraps base in a metrics reporter and serves its registry on
// addr. When addr is empty, base is returned unchanged. The returned function
// stops the endpoint and is always safe to call.
func wireMetrics(
	ctx context.Context,
	addr string,
	base progress.Reporter,
) (progress.Reporter, func() error, error) {
	if addr == "" {
		return base, func() error { return nil }, nil
	}

	reporter := metrics.NewReporter(base)

	server, err := metrics.StartServer(ctx, addr, reporter.Registry())
	if err != nil {
		return nil, nil, err
	}

	ctxlog.Info(ctx, "metrics endpoint listening", "addr", server.Addr())

	return reporter, server.Close, nil
}

// buildRunnables assembles the runnables from the YAML file URLs and the HCL
// configuration directory. When neither is given, the embedded default sweep
// is used.
func buildRunnables(
	ctx context.Context,
	cmd *cli.Command,
	factory commands.CommanderFactory,
) ([]runbatch.Runnable, error) {
	urls := cmd.StringSlice(fileFlag)
	hclDir := cmd.String(hclDirFlag)

	if len(urls) == 0 && hclDir == "" {
		ctxlog.Info(ctx, "no configuration file specified, running the default sweep")

		rb, err := config.BuildFromYAML(ctx, factory, config.DefaultYAML())
		if err != nil {
			return nil, errors.Join(ErrBuildConfig, err)
		}

		return []runbatch.Runnable{rb}, nil
	}

	runnables := make([]runbatch.Runnable, 0, len(urls))

	for i, u := range urls {
		if u == "" {
			return nil, fmt.Errorf("%w: the URL at index %d is empty", ErrGetConfigFile, i)
		}

		bytes, err := getURL(ctx, u)
		if err != nil {
			return nil, err
		}

		rb, err := config.BuildFromYAML(ctx, factory, bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrBuildConfig, u, err)
		}

		if rb == nil {
			continue
		}

		runnables = append(runnables, rb)
	}

	if hclDir != "" {
		hclRunnables, err := buildHCLRunnables(ctx, factory, hclDir)
		if err != nil {
			return nil, err
		}

		runnables = append(runnables, hclRunnables...)
	}

	return runnables, nil
}

// buildHCLRunnables loads every *.sweep.hcl file in dir and bridges the
// resulting sweep blocks onto the registered command types.
func buildHCLRunnables(
	ctx context.Context,
	factory commands.CommanderFactory,
	dir string,
) ([]runbatch.Runnable, error) {
	cfg, err := hcl.BuildSweepConfig(ctx, ".", dir, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: directory %s: %w", ErrBuildConfig, dir, err)
	}

	plan, err := hcl.RunSweepPlan(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: directory %s: %w", ErrBuildConfig, dir, err)
	}

	runnables, err := hcl.BuildRunnables(ctx, factory, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: directory %s: %w", ErrBuildConfig, dir, err)
	}

	return runnables, nil
}

// recordHistory stores one row per executed command in the history database.
// Recording is best effort: failures are logged and never fail the run.
func recordHistory(ctx context.Context, dbPath string, res runbatch.Results) {
	// Recording must still work when the run was cancelled by a signal.
	ctx = context.WithoutCancel(ctx)

	if dbPath == "" {
		p, err := history.DefaultPath()
		if err != nil {
			ctxlog.Warn(ctx, "failed to resolve history database path", "error", err.Error())
			return
		}

		dbPath = p
	}

	store, err := history.Open(ctx, dbPath)
	if err != nil {
		ctxlog.Warn(ctx, "failed to open history database", "path", dbPath, "error", err.Error())
		return
	}

	defer store.Close() //nolint:errcheck

	runGroup := history.NewRunGroup()

	if err := store.Record(ctx, runGroup, res); err != nil {
		ctxlog.Warn(ctx, "failed to record run history", "path", dbPath, "error", err.Error())
		return
	}

	ctxlog.Debug(ctx, "recorded run history", "path", dbPath, "run_group", runGroup)
}

// getURL retrieves the content from the specified URL using Hashicorp's go-getter.
// It removes the temporary file after reading its content.
func getURL(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrGetConfigFile
	}

	tmpDir, err := os.MkdirTemp("", "sweep-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	cli := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// If it's not a local file URL, we need to download the directory and read the file from there
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := cli.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	bytes, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return bytes, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
)

// splitFileNameFromGetterURL splits the URL into the directory and file name.
// It returns the new getter URL without the file name and the file name itself.
// It will append any ref query parameter to the new URL if it exists.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref, fileName string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	if strings.Contains(parts[len(parts)-1], goGetterRefSeparator) {
		refSplit := strings.Split(parts[len(parts)-1], goGetterRefSeparator)
		if len(refSplit) > 1 {
			ref = strings.Join(refSplit[1:], "")
		}

		parts[len(parts)-1] = refSplit[0]
	}

	if filepath.Clean(parts[len(parts)-1]) == filepath.Dir(parts[len(parts)-1]) {
		return "", ""
	}

	fileName = filepath.Base(parts[len(parts)-1])
	parts[len(parts)-1] = filepath.Dir(parts[len(parts)-1])

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1] // Remove the last part which is the file name
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
