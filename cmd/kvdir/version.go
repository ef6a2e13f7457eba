// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kvdir/cmd/kvdir/cli"
	"github.com/bureau-foundation/kvdir/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Go      string `json:"go"`
}

func versionCommand(std stdio) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if done, err := params.EmitJSON(std.out, versionInfo{
				Version: version.Short(),
				Commit:  version.Commit(),
				Go:      runtime.Version(),
			}); done {
				return err
			}
			_, err := fmt.Fprintf(std.out, "kvdir %s\n", version.Full())
			return err
		},
	}
}
