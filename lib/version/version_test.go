// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, settings []debug.BuildSetting) {
	t.Helper()
	original := readBuildInfo
	originalCommit, originalDirty, originalTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		readBuildInfo = original
		GitCommit, GitDirty, BuildTime = originalCommit, originalDirty, originalTime
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestInfoPrefersLdflags(t *testing.T) {
	withBuildInfo(t, []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffffffff"}})
	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-03-01T00:00:00Z"

	if got, want := Info(), Version+" (abc1234-dirty, 2026-03-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if Commit() != "abc1234" {
		t.Errorf("Commit() = %q, want abc1234", Commit())
	}
}

func TestInfoFallsBackToBuildInfo(t *testing.T) {
	withBuildInfo(t, []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.modified", Value: "false"},
		{Key: "vcs.time", Value: "2026-02-10T12:00:00Z"},
	})
	GitCommit, GitDirty, BuildTime = "unknown", "false", "unknown"

	if got, want := Info(), Version+" (0123456789ab, 2026-02-10T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestFull(t *testing.T) {
	withBuildInfo(t, nil)
	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Go: ") || !strings.Contains(full, "Platform: ") {
		t.Errorf("Full() = %q", full)
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
