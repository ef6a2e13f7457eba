// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kvdir/cmd/kvdir/cli"
	"github.com/bureau-foundation/kvdir/lib/display"
	"github.com/bureau-foundation/kvdir/lib/namespace"
	"github.com/bureau-foundation/kvdir/lib/nspath"
)

type lsParams struct {
	cli.ConnectionParams
	cli.DisplayParams
	cli.JSONOutput
	Raw bool `flag:"raw,r" desc:"show keys as byte literals"`
}

func lsCommand(std stdio) *cli.Command {
	var params lsParams

	return &cli.Command{
		Name:    "ls",
		Summary: "List the subdirectories and first rows of a directory",
		Description: `List the subdirectories of a directory and the first rows stored in
it (display.ls_sample, 50 by default). The root has no rows of its own,
so only its subdirectories are shown.

Exits with status 2 when the path names no directory.`,
		Usage: "kvdir ls [path] [flags]",
		Examples: []cli.Example{
			{
				Description: "List the root",
				Command:     "kvdir ls",
			},
			{
				Description: "List a directory as JSON",
				Command:     "kvdir ls /app/foo --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("ls", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			path, err := pathArg(args)
			if err != nil {
				return err
			}

			connection, err := params.Connect()
			if err != nil {
				return err
			}
			defer connection.Close()

			cfg := connection.Config
			options := params.Options(cfg)
			options.Raw = params.Raw
			styles, err := params.Styles(std.out, cfg)
			if err != nil {
				return err
			}
			printer := display.NewPrinter(std.out, styles, options)

			listing, err := connection.Query.Listing(ctx, path, cfg.Display.LsSample)
			if err != nil {
				return notFound(printer, err)
			}

			if done, err := params.EmitJSON(std.out, display.NewListingJSON(listing, options)); done {
				return err
			}
			printer.Listing(listing, cfg.Display.LsSample)
			return printer.Err()
		},
	}
}

// pathArg returns the single optional path argument, resolved from the
// root. No argument means the root.
func pathArg(args []string) (nspath.Path, error) {
	switch len(args) {
	case 0:
		return nspath.Root, nil
	case 1:
		return nspath.Resolve(nspath.Root, args[0]), nil
	}
	return nil, fmt.Errorf("expected at most one path, got %d arguments", len(args))
}

// notFound prints the diagnostic for a missing path and converts it to
// exit status 2. Other errors are returned unchanged.
func notFound(printer *display.Printer, err error) error {
	if !errors.Is(err, namespace.ErrPathNotFound) {
		return err
	}
	printer.Line("%s", err)
	if err := printer.Err(); err != nil {
		return err
	}
	return &cli.ExitError{Code: 2}
}
