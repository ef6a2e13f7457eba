// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package display turns namespace rows into the text the explorer
// prints.
//
// Keys are shown as the tuple left after stripping the directory
// prefix, or as a byte literal when they do not decode (or when raw
// mode is on). Values go through a short pipeline:
//
//  1. With [Options.Decompress], a zstd or lz4 frame is unwrapped.
//  2. The bytes are decoded as a packed tuple. A one-element tuple is
//     shown as that element, so a stored integer prints as 42 rather
//     than (42).
//  3. With [Options.CBOR], bytes that are not a tuple but form exactly
//     one CBOR data item are shown in CBOR diagnostic notation.
//  4. Anything else is shown as quoted text when it is clean UTF-8 and
//     as a byte literal otherwise.
//
// [Printer] writes the ls and scan layouts, styled with lipgloss when
// the output supports color. [NewListingJSON] and [NewScanJSON] build
// the machine-readable forms used by --json.
package display
