// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kvdir/cmd/kvdir/cli"
	"github.com/bureau-foundation/kvdir/lib/byteliteral"
	"github.com/bureau-foundation/kvdir/lib/display"
	"github.com/bureau-foundation/kvdir/lib/namespace"
)

type scanParams struct {
	cli.ConnectionParams
	cli.DisplayParams
	cli.JSONOutput
	Limit  int    `flag:"limit,n" desc:"maximum number of rows (default: display.scan_limit)"`
	Prefix string `flag:"prefix,p" desc:"byte literal that keys must start with after the directory prefix (\\xHH escapes)"`
	Raw    bool   `flag:"raw,r" desc:"show keys as byte literals instead of decoding tuples"`
}

func scanCommand(std stdio) *cli.Command {
	var params scanParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "scan",
		Summary: "Print the key-value rows of a directory",
		Description: `Print up to --limit rows of a directory in key order. Keys are decoded
as tuples relative to the directory; keys that do not decode, or all
keys with --raw, are shown as byte literals. Values are decoded as
tuples where possible and otherwise shown as text or byte literals.

--prefix restricts the scan to keys whose bytes after the directory
prefix start with the given literal. A malformed literal is an error.

Exits with status 2 when the path names no directory.`,
		Usage: "kvdir scan [path] [flags]",
		Examples: []cli.Example{
			{
				Description: "Print the first row of a directory",
				Command:     "kvdir scan /app/foo -n 1",
			},
			{
				Description: "Raw keys of rows whose first tuple element is a string",
				Command:     `kvdir scan /app/foo --prefix '\x02' --raw`,
			},
			{
				Description: "Decompress and decode values, as JSON",
				Command:     "kvdir scan /app/blobs --decompress --cbor --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("scan", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			path, err := pathArg(args)
			if err != nil {
				return err
			}

			var prefix []byte
			if flagSet.Changed("prefix") {
				prefix, err = byteliteral.Decode(params.Prefix)
				if err != nil {
					return fmt.Errorf("--prefix %q: %w", params.Prefix, err)
				}
			}

			connection, err := params.Connect()
			if err != nil {
				return err
			}
			defer connection.Close()

			cfg := connection.Config
			limit := cfg.Display.ScanLimit
			if flagSet.Changed("limit") {
				limit = params.Limit
			}
			options := params.Options(cfg)
			options.Raw = params.Raw
			styles, err := params.Styles(std.out, cfg)
			if err != nil {
				return err
			}
			printer := display.NewPrinter(std.out, styles, options)

			rows, err := connection.Query.Scan(ctx, path, namespace.ScanOptions{
				Limit:  limit,
				Prefix: prefix,
			})
			if err != nil {
				return notFound(printer, err)
			}

			if done, err := params.EmitJSON(std.out, display.NewScanJSON(path, limit, prefix, rows, options)); done {
				return err
			}
			printer.ScanHeader(path, limit, prefix)
			printer.Rows(rows)
			return printer.Err()
		},
	}
}
