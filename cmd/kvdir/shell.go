// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/kvdir/cmd/kvdir/cli"
	"github.com/bureau-foundation/kvdir/lib/nspath"
	"github.com/bureau-foundation/kvdir/lib/repl"
)

type shellParams struct {
	cli.ConnectionParams
	cli.DisplayParams
}

func shellCommand(std stdio) *cli.Command {
	var params shellParams

	return &cli.Command{
		Name:    "shell",
		Summary: "Start the interactive shell (same as kvdir -i)",
		Description: `Start an interactive shell positioned at the root. Commands: help,
pwd, cd, ls, scan (alias dump), exit (alias quit). Tab completes
command names and directory paths. Ctrl-C abandons the current line;
Ctrl-D or exit leaves the shell.

When stdin is not a terminal, lines are read without editing or
prompts, so a script can be piped in.`,
		Usage: "kvdir shell [flags]",
		Examples: []cli.Example{
			{
				Description: "Run a scripted session",
				Command:     `printf 'cd /app\nls\n' | kvdir shell`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("shell", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("shell takes no arguments, got %q", args[0])
			}
			return runShell(ctx, std, &params)
		},
	}
}

// runShell connects and runs the shell until exit, end of input, or
// cancellation of ctx.
func runShell(ctx context.Context, std stdio, params *shellParams) error {
	connection, err := params.Connect()
	if err != nil {
		return err
	}
	defer connection.Close()

	cfg := connection.Config
	logger := connection.Logger.With("command", "shell")
	state := &repl.State{Current: nspath.Root}

	var (
		reader repl.LineReader
		out    = std.out
	)
	if term.IsTerminal(int(std.in.Fd())) {
		completer := repl.NewCompleter(connection.Query, state, cfg.Shell.CompletionTimeout, logger)
		terminalReader, err := repl.NewTerminalReader(std.in, std.out, completer)
		if err != nil {
			return err
		}
		defer terminalReader.Close()
		reader, out = terminalReader, terminalReader
	} else {
		// A blocked read on a pipe returns once stdin is closed.
		stopReading := context.AfterFunc(ctx, func() { std.in.Close() })
		defer stopReading()
		reader = repl.NewPlainReader(std.in, nil)
	}

	styles, err := params.Styles(std.out, cfg)
	if err != nil {
		return err
	}
	engine := repl.New(repl.Config{
		Namespace: connection.Query,
		State:     state,
		Out:       out,
		Styles:    styles,
		Render:    params.Options(cfg),
		ScanLimit: cfg.Display.ScanLimit,
		LsSample:  cfg.Display.LsSample,
		Logger:    logger,
	})

	logger.Debug("shell started", "database", cfg.Database.Path)
	if err := engine.Run(ctx, reader); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
