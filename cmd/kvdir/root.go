// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kvdir/cmd/kvdir/cli"
)

// stdio is the process's standard streams. Tests substitute pipes
// and buffers.
type stdio struct {
	in  *os.File
	out io.Writer
	err io.Writer
}

type rootParams struct {
	shellParams
	Interactive bool `flag:"interactive,i" desc:"start the interactive shell"`
}

func root(std stdio) *cli.Command {
	var params rootParams

	command := &cli.Command{
		Name: "kvdir",
		Description: `Explore a hierarchical key-value namespace.

Directories are addressed by slash-separated paths (/app/foo). Each
directory owns a short key prefix; keys and values below it are
tuple-encoded and shown decoded where possible. Use "ls" and "scan"
for one-off queries or "kvdir -i" for an interactive shell with tab
completion.

The store is a SQLite file selected by --database, database.path in
the configuration file, or the default under $XDG_DATA_HOME/kvdir.
The configuration file is named by --config or $KVDIR_CONFIG.`,
		Usage: "kvdir [-i] <command> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("kvdir", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Start the interactive shell",
				Command:     "kvdir -i --database ./kv.db",
			},
			{
				Description: "List the subdirectories and first rows of a directory",
				Command:     "kvdir ls /app/foo",
			},
			{
				Description: "Show ten rows whose keys start with a byte prefix",
				Command:     `kvdir scan /app/foo --limit 10 --prefix '\x02users' --raw`,
			},
		},
	}
	command.Subcommands = []*cli.Command{
		lsCommand(std),
		scanCommand(std),
		shellCommand(std),
		versionCommand(std),
	}
	command.Run = func(ctx context.Context, args []string) error {
		if !params.Interactive {
			command.PrintHelp(std.err)
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return fmt.Errorf("command required (or -i for the interactive shell)")
		}
		if len(args) > 0 {
			return fmt.Errorf("-i takes no arguments, got %q", args[0])
		}
		return runShell(ctx, std, &params.shellParams)
	}
	return command
}
