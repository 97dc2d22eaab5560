// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package history provides commands for querying the run history database.
package history

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/history"
	"github.com/urfave/cli/v3"
)

const (
	dbFlag      = "db"
	limitFlag   = "limit"
	statusFlag  = "status"
	patternFlag = "pattern"
	groupFlag   = "group"
	keepFlag    = "keep"

	defaultLimit = 50
	defaultKeep  = 20

	timeFormat = "2006-01-02 15:04:05"
)

// ErrOpenStore is returned when the history database cannot be opened.
var ErrOpenStore = errors.New("failed to open history database")

// HistoryCmd is the command that queries the run history database.
var HistoryCmd = &cli.Command{
	Name:        "history",
	Usage:       "Query past sweep runs",
	Description: "List and prune the run history recorded by `sweep run`.",
	Commands: []*cli.Command{
		listCmd,
		pruneCmd,
	},
}

var listCmd = &cli.Command{
	Name:        "list",
	Description: "List recorded runs, newest first.",
	Flags: []cli.Flag{
		dbPathFlag(),
		&cli.IntFlag{
			Name:     limitFlag,
			Aliases:  []string{"n"},
			Usage:    "Maximum number of rows to show",
			Value:    defaultLimit,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     statusFlag,
			Usage:    "Only show runs with this status (success, error, skipped)",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     patternFlag,
			Usage:    "Only show runs for this layer pattern",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     groupFlag,
			Usage:    "Only show runs from this run group",
			OnlyOnce: true,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		store, err := openStore(ctx, cmd.String(dbFlag))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		defer store.Close() //nolint:errcheck

		runs, err := store.List(ctx, history.Filter{
			RunGroup: cmd.String(groupFlag),
			Status:   cmd.String(statusFlag),
			Pattern:  cmd.String(patternFlag),
			Limit:    cmd.Int(limitFlag),
		})
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.Writer, "No runs recorded.")

			return nil
		}

		w := tabwriter.NewWriter(cmd.Writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tLABEL\tPATTERN\tSTATUS\tEXIT\tDURATION")

		for _, r := range runs {
			started := ""
			if !r.StartedAt.IsZero() {
				started = r.StartedAt.Local().Format(timeFormat)
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				started, r.Label, r.Pattern, r.Status, r.ExitCode,
				r.Duration.Round(time.Millisecond))
		}

		return w.Flush()
	},
}

var pruneCmd = &cli.Command{
	Name:        "prune",
	Description: "Delete old runs, keeping only the most recent run groups.",
	Flags: []cli.Flag{
		dbPathFlag(),
		&cli.IntFlag{
			Name:     keepFlag,
			Usage:    "Number of run groups to keep",
			Value:    defaultKeep,
			OnlyOnce: true,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		store, err := openStore(ctx, cmd.String(dbFlag))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		defer store.Close() //nolint:errcheck

		deleted, err := store.Prune(ctx, cmd.Int(keepFlag))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		fmt.Fprintf(cmd.Writer, "Deleted %d runs from %s\n", deleted, store.Path())

		return nil
	},
}

func dbPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name: dbFlag,
		Usage: "Path of the run history database. " +
			"Defaults to $XDG_DATA_HOME/sweep/history.db.",
		TakesFile: true,
		OnlyOnce:  true,
	}
}

// openStore opens the history database at path, falling back to the default
// location when path is empty.
func openStore(ctx context.Context, path string) (*history.Store, error) {
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, errors.Join(ErrOpenStore, err)
		}

		path = p
	}

	store, err := history.Open(ctx, path)
	if err != nil {
		return nil, errors.Join(ErrOpenStore, err)
	}

	return store, nil
}
