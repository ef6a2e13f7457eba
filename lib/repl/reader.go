// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrInterrupted is returned by a LineReader when the user pressed
// Ctrl-C at the prompt. The shell prints "^C" and prompts again.
var ErrInterrupted = errors.New("interrupted")

// LineReader supplies command lines. ReadLine returns io.EOF when
// input ends and ErrInterrupted when the current line was abandoned.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// PlainReader reads newline-separated lines without editing. It is
// used when stdin is not a terminal.
type PlainReader struct {
	scanner *bufio.Scanner
	prompt  io.Writer
}

// NewPlainReader reads lines from in. When prompt is non-nil each
// prompt is written to it before reading.
func NewPlainReader(in io.Reader, prompt io.Writer) *PlainReader {
	return &PlainReader{scanner: bufio.NewScanner(in), prompt: prompt}
}

// ReadLine returns the next line without its line ending.
func (r *PlainReader) ReadLine(prompt string) (string, error) {
	if r.prompt != nil {
		if _, err := io.WriteString(r.prompt, prompt); err != nil {
			return "", err
		}
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(r.scanner.Text(), "\r"), nil
}

const (
	keyCtrlC = 3
	keyCtrlD = 4
	keyTab   = '\t'
)

// keyWatcher remembers the last Ctrl-C or Ctrl-D byte read from the
// terminal. The editor reports both as io.EOF.
type keyWatcher struct {
	reader io.Reader
	last   byte
}

func (w *keyWatcher) Read(p []byte) (int, error) {
	n, err := w.reader.Read(p)
	for _, b := range p[:n] {
		if b == keyCtrlC || b == keyCtrlD {
			w.last = b
		}
	}
	return n, err
}

// TerminalReader is a line editor on a raw-mode terminal. It is also
// the writer for everything the shell prints while it is active:
// output must go through the editor so the prompt is redrawn and line
// endings are translated for raw mode.
type TerminalReader struct {
	terminal  *term.Terminal
	keys      *keyWatcher
	fd        int
	saved     *term.State
	completer *Completer
}

// NewTerminalReader puts in into raw mode and starts a line editor
// reading from in and writing to out. completer may be nil. Close
// restores the terminal.
func NewTerminalReader(in *os.File, out io.Writer, completer *Completer) (*TerminalReader, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	keys := &keyWatcher{reader: in}
	reader := &TerminalReader{
		terminal: term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{keys, out}, ""),
		keys:      keys,
		fd:        fd,
		saved:     saved,
		completer: completer,
	}
	if width, height, err := term.GetSize(fd); err == nil {
		reader.terminal.SetSize(width, height)
	}
	reader.terminal.AutoCompleteCallback = reader.handleKey
	return reader, nil
}

// ReadLine reads one edited line.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	if width, height, err := term.GetSize(r.fd); err == nil {
		r.terminal.SetSize(width, height)
	}
	r.terminal.SetPrompt(prompt)
	r.keys.last = 0
	line, err := r.terminal.ReadLine()
	if errors.Is(err, io.EOF) && r.keys.last == keyCtrlC {
		return "", ErrInterrupted
	}
	return line, err
}

// Write prints above the prompt.
func (r *TerminalReader) Write(data []byte) (int, error) {
	return r.terminal.Write(data)
}

// Close restores the terminal mode saved by NewTerminalReader.
func (r *TerminalReader) Close() error {
	return term.Restore(r.fd, r.saved)
}

// handleKey is the editor's per-keypress hook. Tab runs completion;
// every other key is left to the editor.
func (r *TerminalReader) handleKey(line string, pos int, key rune) (string, int, bool) {
	if key != keyTab {
		return "", 0, false
	}
	if r.completer == nil {
		return line, pos, true
	}
	newLine, newPos := r.complete(line, pos)
	return newLine, newPos, true
}

func (r *TerminalReader) complete(line string, pos int) (string, int) {
	start, candidates := r.completer.Complete(line[:pos])
	if len(candidates) == 0 {
		return line, pos
	}

	replacement := commonPrefix(candidates)
	if len(candidates) > 1 && len(replacement) <= pos-start {
		fmt.Fprintf(r.terminal, "%s\n", strings.Join(candidates, "  "))
		return line, pos
	}
	return line[:start] + replacement + line[pos:], start + len(replacement)
}
