// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/bureau-foundation/kvdir/lib/byteliteral"
	"github.com/bureau-foundation/kvdir/lib/display"
	"github.com/bureau-foundation/kvdir/lib/namespace"
	"github.com/bureau-foundation/kvdir/lib/nspath"
)

// Banner is printed when the shell starts.
const Banner = "kvdir interactive. Type 'help' for commands."

// DefaultScanLimit is the scan limit used when Config.ScanLimit is
// zero.
const DefaultScanLimit = 50

// Namespace is the part of namespace.Query the shell uses.
type Namespace interface {
	Exists(ctx context.Context, path nspath.Path) (bool, error)
	List(ctx context.Context, path nspath.Path) ([]string, error)
	Listing(ctx context.Context, path nspath.Path, sample int) (*namespace.Listing, error)
	Scan(ctx context.Context, path nspath.Path, options namespace.ScanOptions) ([]namespace.Row, error)
}

// State is the shell state shared by the engine and the completer.
type State struct {
	// Current is the working path. Only cd changes it.
	Current nspath.Path
}

// Config holds the parameters for New.
type Config struct {
	Namespace Namespace

	// State is the working path, shared with a Completer. Nil starts
	// at the root.
	State *State

	// Out receives all command output.
	Out io.Writer

	Styles display.Styles

	// Render is the base rendering mode; scan may turn on Raw per
	// command.
	Render display.Options

	// ScanLimit is the default scan row limit. Zero means
	// DefaultScanLimit.
	ScanLimit int

	// LsSample is the number of rows ls shows. Zero means
	// namespace.DefaultSample.
	LsSample int

	// Logger receives command failures at debug level. Nil discards.
	Logger *slog.Logger
}

// Engine executes shell commands.
type Engine struct {
	namespace Namespace
	state     *State
	out       io.Writer
	styles    display.Styles
	render    display.Options
	scanLimit int
	lsSample  int
	logger    *slog.Logger
}

// New returns an Engine. Without cfg.State it starts at the root.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	scanLimit := cfg.ScanLimit
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	lsSample := cfg.LsSample
	if lsSample <= 0 {
		lsSample = namespace.DefaultSample
	}
	state := cfg.State
	if state == nil {
		state = &State{Current: nspath.Root}
	}
	return &Engine{
		namespace: cfg.Namespace,
		state:     state,
		out:       cfg.Out,
		styles:    cfg.Styles,
		render:    cfg.Render,
		scanLimit: scanLimit,
		lsSample:  lsSample,
		logger:    logger,
	}
}

// State returns the engine's state. The completer reads it.
func (e *Engine) State() *State {
	return e.state
}

// Prompt returns the prompt for the current path.
func (e *Engine) Prompt() string {
	path := e.state.Current.String()
	if e.styles.Enabled() {
		path = e.styles.Heading.Render(path)
	}
	return "kvdir:" + path + "> "
}

// Run prints the banner and executes lines from reader until EOF, an
// exit command, or ctx is canceled. It returns an error only when
// reading input or writing output fails.
func (e *Engine) Run(ctx context.Context, reader LineReader) error {
	printer := e.printer(e.render)
	printer.Line("%s", Banner)
	printer.Line("")
	if err := printer.Err(); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := reader.ReadLine(e.Prompt())
		switch {
		case errors.Is(err, ErrInterrupted):
			printer.Line("^C")
			if err := printer.Err(); err != nil {
				return err
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stop, err := e.Execute(ctx, line)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Execute runs one command line. stop is true for exit and quit. The
// returned error is set only when writing output failed; command
// failures are printed and do not produce an error.
func (e *Engine) Execute(ctx context.Context, line string) (stop bool, err error) {
	words := splitWords(line)
	if len(words) == 0 {
		return false, nil
	}
	command, args := words[0], words[1:]

	printer := e.printer(e.render)
	switch command {
	case "help":
		e.help(printer)
	case "exit", "quit":
		return true, nil
	case "pwd":
		printer.Line("%s", e.state.Current)
	case "cd":
		e.cd(ctx, printer, args)
	case "ls":
		e.ls(ctx, printer, args)
	case "scan", "dump":
		printer = e.scan(ctx, args)
	default:
		printer.Line("Unknown command: %s. Try 'help'.", command)
	}
	return false, printer.Err()
}

func (e *Engine) printer(options display.Options) *display.Printer {
	return display.NewPrinter(e.out, e.styles, options)
}

func (e *Engine) fail(printer *display.Printer, command string, err error) {
	e.logger.Debug("shell command failed",
		"command", command,
		"path", e.state.Current.String(),
		"error", err,
	)
	printer.Error(err)
}

func (e *Engine) help(printer *display.Printer) {
	for _, line := range []string{
		"Commands:",
		"  help                 Show this help",
		"  exit | quit          Exit the shell",
		"  pwd                  Print current directory path",
		"  cd [path]            Change directory (use /, .., or relative; no path: /)",
		"  ls [path]            List subdirectories and first keys at path (default: current)",
		"  scan [limit] [prefix] [--raw]",
		"                       Print key => value pairs in current dir (default limit " + strconv.Itoa(e.scanLimit) + ")",
		"                       prefix is a byte literal; quote \\x escapes: '\\x01'",
		"  dump                 Same as scan",
	} {
		printer.Line("%s", line)
	}
}

func (e *Engine) cd(ctx context.Context, printer *display.Printer, args []string) {
	target := "/"
	if len(args) > 0 {
		target = args[0]
	}
	path := nspath.Resolve(e.state.Current, target)

	exists, err := e.namespace.Exists(ctx, path)
	if err != nil {
		e.fail(printer, "cd", err)
		return
	}
	if !exists {
		printer.Line("No such directory: %s", path)
		return
	}
	e.state.Current = path
}

func (e *Engine) ls(ctx context.Context, printer *display.Printer, args []string) {
	path := e.state.Current
	if len(args) > 0 {
		path = nspath.Resolve(e.state.Current, args[0])
	}
	listing, err := e.namespace.Listing(ctx, path, e.lsSample)
	if err != nil {
		e.fail(printer, "ls", err)
		return
	}
	printer.Listing(listing, e.lsSample)
}

// ScanArgs is the result of interpreting scan's arguments.
type ScanArgs struct {
	Limit  int
	Prefix []byte
	Raw    bool
}

// ParseScanArgs interprets scan arguments in any order. Words that are
// neither a flag, a limit, nor a valid byte literal are ignored, as is
// every literal after the first.
func ParseScanArgs(args []string, defaultLimit int) ScanArgs {
	result := ScanArgs{Limit: defaultLimit}
	for _, arg := range args {
		switch arg {
		case "--raw", "-r", "raw":
			result.Raw = true
			continue
		}
		if limit, err := strconv.ParseUint(arg, 10, 31); err == nil {
			result.Limit = int(limit)
			continue
		}
		if result.Prefix == nil {
			if prefix, err := byteliteral.Decode(arg); err == nil {
				result.Prefix = prefix
			}
		}
	}
	return result
}

func (e *Engine) scan(ctx context.Context, args []string) *display.Printer {
	parsed := ParseScanArgs(args, e.scanLimit)
	options := e.render
	options.Raw = options.Raw || parsed.Raw
	printer := e.printer(options)

	path := e.state.Current
	rows, err := e.namespace.Scan(ctx, path, namespace.ScanOptions{
		Limit:  parsed.Limit,
		Prefix: parsed.Prefix,
	})
	if err != nil {
		e.fail(printer, "scan", err)
		return printer
	}
	printer.ScanHeader(path, parsed.Limit, parsed.Prefix)
	printer.Rows(rows)
	return printer
}

// splitWords splits a command line with shell quoting rules. A line
// with unbalanced quotes falls back to splitting on whitespace.
func splitWords(line string) []string {
	words, err := shellwords.Parse(line)
	if err != nil {
		return strings.Fields(line)
	}
	return words
}
