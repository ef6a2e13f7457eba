// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the explorer's configuration file.
//
// The file is named by the --config flag (via [LoadFile]) or the
// KVDIR_CONFIG environment variable (via [Load]). There is no search
// path and no ~/.config discovery. When neither is given, [Default]
// applies, so a bare --database flag is enough to run the explorer.
//
// YAML is the primary format. Files ending in .json or .jsonc are
// accepted too; comments and trailing commas are stripped before
// decoding. Durations are written as Go duration strings ("250ms",
// "2s").
//
// ${VAR} and ${VAR:-default} patterns are expanded in database.path
// after loading. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- the root struct: Database, Retry, Display, Shell, Log
//   - [Default] -- built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid field at once
//
// This package depends on no other kvdir packages.
package config
