// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/kvdir/lib/nspath"
)

// DefaultCompletionTimeout bounds one directory lookup when the
// completer is built with a zero timeout.
const DefaultCompletionTimeout = 2 * time.Second

// Commands are the names offered when completing the first word.
var Commands = []string{"help", "exit", "quit", "pwd", "cd", "ls", "scan", "dump"}

// pathCommands take a directory path argument.
var pathCommands = map[string]bool{"cd": true, "ls": true, "scan": true, "dump": true}

// Lister lists the children of a directory.
type Lister interface {
	List(ctx context.Context, path nspath.Path) ([]string, error)
}

// Completer produces tab-completion candidates.
type Completer struct {
	lister  Lister
	state   *State
	timeout time.Duration
	logger  *slog.Logger

	// busy is set from the start of a lookup until its goroutine
	// finishes, which may be after the caller gave up waiting.
	busy atomic.Bool
}

// NewCompleter returns a completer that resolves relative paths
// against state. A zero timeout means DefaultCompletionTimeout.
func NewCompleter(lister Lister, state *State, timeout time.Duration, logger *slog.Logger) *Completer {
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Completer{lister: lister, state: state, timeout: timeout, logger: logger}
}

// Complete returns the candidates for the word ending at the end of
// line, and the byte offset in line where that word starts. Each
// candidate is a full replacement for line[start:]. Directory
// candidates end in "/".
func (c *Completer) Complete(line string) (start int, candidates []string) {
	words := splitWords(line)
	endsWithSpace := strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t")

	if len(words) == 0 || (len(words) == 1 && !endsWithSpace) {
		trimmed := strings.TrimLeft(line, " \t")
		start = len(line) - len(trimmed)
		for _, command := range Commands {
			if strings.HasPrefix(command, trimmed) {
				candidates = append(candidates, command)
			}
		}
		return start, candidates
	}

	if !pathCommands[words[0]] {
		return len(line), nil
	}

	token := ""
	start = len(line)
	if !endsWithSpace {
		token = words[len(words)-1]
		start = strings.LastIndexAny(line, " \t") + 1
	}
	return start, c.completePath(token)
}

// completePath completes a partially typed path. The text up to the
// last "/" names the directory to list and the rest is the prefix to
// match.
func (c *Completer) completePath(token string) []string {
	cut := strings.LastIndex(token, "/") + 1
	parentText, needle := token[:cut], token[cut:]

	parent := c.state.Current
	if parentText != "" {
		parent = nspath.Resolve(c.state.Current, parentText)
	}

	names := c.list(parent)
	var candidates []string
	for _, name := range names {
		if strings.HasPrefix(name, needle) {
			candidates = append(candidates, parentText+name+"/")
		}
	}
	return candidates
}

type listResult struct {
	names []string
	err   error
}

// list runs one lookup on a separate goroutine and waits at most
// c.timeout for it. It returns nil when another lookup is still
// running, on timeout, and on error.
func (c *Completer) list(path nspath.Path) []string {
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Debug("completion skipped, previous lookup still running", "path", path.String())
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	results := make(chan listResult, 1)
	go func() {
		defer c.busy.Store(false)
		names, err := c.lister.List(ctx, path)
		results <- listResult{names: names, err: err}
	}()

	select {
	case result := <-results:
		if result.err != nil {
			c.logger.Debug("completion lookup failed", "path", path.String(), "error", result.err)
			return nil
		}
		return result.names
	case <-ctx.Done():
		c.logger.Debug("completion lookup timed out", "path", path.String(), "timeout", c.timeout)
		return nil
	}
}

// commonPrefix returns the longest common prefix of values.
func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, value := range values[1:] {
		for !strings.HasPrefix(value, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
