// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the kvdir binary.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/kvdir and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Parameter structs declare flags with struct tags and are bound by
// [FlagsFromParams]. [ConnectionParams] and [DisplayParams] are shared
// by every command that reads the store: they load the configuration,
// open the [kvstore.Store], and merge rendering flags over the
// configured defaults. [JSONOutput] adds --json.
package cli
