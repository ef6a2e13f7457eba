// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package repl is the explorer's interactive shell.
//
// An [Engine] reads one line at a time from a [LineReader], splits it
// into shell-style words, and dispatches the first word as a command.
// The only state carried between commands is the current path in
// [State]. Output goes to a single writer; command failures are
// printed as "error: ..." lines and never end the loop.
//
// Commands:
//
//	help                  list commands
//	pwd                   print the current path
//	cd [path]             change directory (no argument: /)
//	ls [path]             list subdirectories and the first keys
//	scan|dump [args]      print key => value rows of the current path
//	exit | quit           leave the shell
//
// scan takes its arguments in any order: "--raw", "-r" or "raw" shows
// keys as byte literals, a non-negative integer is the row limit, and
// the first other word that parses as a byte literal restricts the
// scan to keys with that prefix. Backslashes are shell escapes, so
// byte literals containing \x escapes are written in single quotes:
//
//	scan 10 '\x02users' --raw
//
// # Completion
//
// [Completer] answers tab completion for the line editor. The editor
// calls it synchronously while it owns the terminal, but directory
// listings need a store transaction. The completer runs each lookup on
// its own goroutine under a deadline and waits for either the result or
// the deadline. A Tab pressed while an earlier lookup is still running
// returns no candidates instead of queueing behind it. Completion never
// reports errors; a failed lookup simply completes nothing.
//
// # Line editing
//
// [TerminalReader] drives golang.org/x/term's line editor on a raw-mode
// terminal, which provides editing keys and in-session history, and
// wires Tab to the completer. [PlainReader] reads newline-separated
// commands from any reader for scripted or piped input.
package repl
