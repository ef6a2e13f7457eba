// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// kvdir explores a hierarchical key-value namespace stored in SQLite.
// Directories hold tuple-encoded keys under a short prefix; kvdir lists
// them, scans their rows, and offers an interactive shell with path
// completion.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		// ls and scan print their own diagnostic for a missing path and
		// return an ExitError. Don't print a redundant "error:" line
		// for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second signal terminates immediately.
	context.AfterFunc(ctx, stop)
	return root(stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr}).Execute(ctx, os.Args[1:])
}
