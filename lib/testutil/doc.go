// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern used when a test waits on a channel fed by another goroutine
// (the completion bridge in lib/repl, the fake clock in lib/clock).
// They are the only place tests use real wall-clock timeouts, and the
// timeout only guards against a hung test.
//
// All helpers call t.Fatalf on failure.
package testutil
