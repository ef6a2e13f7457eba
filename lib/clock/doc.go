// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the passage of time so that retry backoff in
// lib/kvstore can be tested without sleeping.
//
// Production code takes a [Clock] and uses [Real]. Tests use [Fake],
// whose time only moves when [FakeClock.Advance] is called. A test
// that needs to advance past a backoff first calls
// [FakeClock.WaitForTimers] so that it does not race the goroutine
// registering the wait.
package clock
