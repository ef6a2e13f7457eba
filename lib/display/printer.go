// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/kvdir/lib/byteliteral"
	"github.com/bureau-foundation/kvdir/lib/namespace"
	"github.com/bureau-foundation/kvdir/lib/nspath"
)

// TruncationHint follows a listing whose sample was cut short.
const TruncationHint = "use 'scan [limit]' to see more"

// Printer writes listings and scan results in the explorer's text
// layout. Write errors are sticky: after the first failure nothing
// more is written and Err reports it.
type Printer struct {
	w       io.Writer
	styles  Styles
	options Options
	err     error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, styles Styles, options Options) *Printer {
	return &Printer{w: w, styles: styles, options: options}
}

// Err returns the first write error, if any.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) println(parts ...string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, strings.Join(parts, " ")+"\n")
}

// Line writes one unstyled line.
func (p *Printer) Line(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}

// Error writes an "error: ..." line.
func (p *Printer) Error(err error) {
	p.println(p.styles.render(p.styles.Error, "error: "+err.Error()))
}

// Listing writes the ls layout for listing. sample is the number shown
// in the keys heading.
func (p *Printer) Listing(listing *namespace.Listing, sample int) {
	p.println(p.styles.render(p.styles.Path, listing.Path.String()+":"))

	p.println(p.styles.render(p.styles.Heading, "Directories:"))
	if len(listing.Directories) == 0 {
		p.println("(none)")
	}
	for _, name := range listing.Directories {
		p.println(p.styles.render(p.styles.Directory, name+"/"))
	}

	if listing.Path.IsRoot() {
		return
	}
	p.println(p.styles.render(p.styles.Heading, fmt.Sprintf("Keys (first %d):", sample)))
	if len(listing.Rows) == 0 {
		p.println("(none)")
	}
	for i, row := range listing.Rows {
		p.Row(i+1, row)
	}
	if listing.Truncated {
		p.println(p.styles.render(p.styles.Faint, "…"), p.styles.render(p.styles.Faint, TruncationHint))
	}
}

// ScanHeader writes the line that precedes scan results.
func (p *Printer) ScanHeader(path nspath.Path, limit int, prefix []byte) {
	suffix := ""
	if prefix != nil {
		suffix = ", prefix " + byteliteral.Encode(prefix)
	}
	p.println(fmt.Sprintf("-- scanning %s (limit %d%s) --",
		p.styles.render(p.styles.Path, path.String()), limit, suffix))
}

// Rows writes rows numbered from 1.
func (p *Printer) Rows(rows []namespace.Row) {
	for i, row := range rows {
		p.Row(i+1, row)
	}
}

// Row writes one numbered "key => value" line.
func (p *Printer) Row(index int, row namespace.Row) {
	p.println(
		p.styles.render(p.styles.Faint, fmt.Sprintf("%4d.", index)),
		p.styles.render(p.styles.Key, Key(row, p.options)),
		p.styles.render(p.styles.Faint, "=>"),
		p.styles.render(p.styles.Value, Value(row.Value, p.options)),
	)
}
