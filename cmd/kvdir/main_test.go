// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/kvdir/cmd/kvdir/cli"
	"github.com/bureau-foundation/kvdir/lib/config"
	"github.com/bureau-foundation/kvdir/lib/display"
	"github.com/bureau-foundation/kvdir/lib/kvstore/kvstoretest"
	"github.com/bureau-foundation/kvdir/lib/repl"
)

func appDatabase(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	_, path := kvstoretest.Open(t, kvstoretest.Fixture{
		"/app/foo": {
			{Key: []any{"x", 1}, Value: []any{42}},
			{Key: []any{"y", 2}, Value: []any{"hello"}},
		},
		"/app/bar": nil,
		"/raw": {
			{RawKey: []byte{0x00, 0x01}, RawValue: []byte("a")},
			{RawKey: []byte{0x01}, RawValue: []byte("b")},
		},
	})
	return path
}

// runKvdir executes the command tree with stdin read from input and
// returns what was written to stdout and stderr.
func runKvdir(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	t.Cleanup(func() { reader.Close() })
	if _, err := writer.WriteString(input); err != nil {
		t.Fatalf("writing stdin: %v", err)
	}
	writer.Close()

	var stdout, stderr bytes.Buffer
	err = root(stdio{in: reader, out: &stdout, err: &stderr}).Execute(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestLs(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "ls", "/app/foo", "--database", database)
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	want := strings.Join([]string{
		"/app/foo:",
		"Directories:",
		"(none)",
		"Keys (first 50):",
		`   1. ("x", 1) => 42`,
		`   2. ("y", 2) => "hello"`,
		"",
	}, "\n")
	if stdout != want {
		t.Errorf("ls /app/foo:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestLs_DefaultsToRoot(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "ls", "--database", database)
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if want := "/:\nDirectories:\napp/\nraw/\n"; stdout != want {
		t.Errorf("ls = %q, want %q", stdout, want)
	}
}

func TestLs_MissingPathExitsTwo(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "ls", "/nope", "--database", database)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 2 {
		t.Fatalf("ls /nope error = %v, want exit code 2", err)
	}
	if want := "No such directory: /nope\n"; stdout != want {
		t.Errorf("ls /nope printed %q, want %q", stdout, want)
	}
}

func TestLs_JSON(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "ls", "/app", "--json", "--database", database)
	if err != nil {
		t.Fatalf("ls --json: %v", err)
	}
	var listing display.ListingJSON
	if err := json.Unmarshal([]byte(stdout), &listing); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, stdout)
	}
	if listing.Path != "/app" {
		t.Errorf("path = %q, want /app", listing.Path)
	}
	if len(listing.Directories) != 2 || listing.Directories[0] != "bar" || listing.Directories[1] != "foo" {
		t.Errorf("directories = %v, want [bar foo]", listing.Directories)
	}
	if len(listing.Rows) != 0 {
		t.Errorf("rows = %v, want none", listing.Rows)
	}
}

func TestScan(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "scan", "app/foo", "-n", "1", "--database", database)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := "-- scanning /app/foo (limit 1) --\n" + `   1. ("x", 1) => 42` + "\n"
	if stdout != want {
		t.Errorf("scan -n 1:\n%s\nwant:\n%s", stdout, want)
	}

	stdout, _, err = runKvdir(t, "", "scan", "/app/foo", "--limit", "0", "--database", database)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if want := "-- scanning /app/foo (limit 0) --\n"; stdout != want {
		t.Errorf("scan --limit 0 = %q, want %q", stdout, want)
	}
}

func TestScan_ConfiguredLimit(t *testing.T) {
	database := appDatabase(t)
	configPath := filepath.Join(t.TempDir(), "kvdir.yaml")
	if err := os.WriteFile(configPath, []byte("display:\n  scan_limit: 1\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	stdout, _, err := runKvdir(t, "", "scan", "/app/foo", "--config", configPath, "--database", database)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.HasPrefix(stdout, "-- scanning /app/foo (limit 1) --\n") || strings.Count(stdout, "=>") != 1 {
		t.Errorf("scan with scan_limit 1:\n%s", stdout)
	}
}

func TestScan_RawPrefix(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "scan", "/raw", "--prefix", `\x00`, "--raw", "--database", database)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("raw scan printed %d lines, want header and one row:\n%s", len(lines), stdout)
	}
	if want := `-- scanning /raw (limit 50, prefix b"\x00") --`; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	if !strings.HasSuffix(lines[1], `\x00\x01" => "a"`) {
		t.Errorf("row = %q, want a raw key ending in \\x00\\x01", lines[1])
	}
}

func TestScan_MalformedPrefix(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "scan", "/raw", "--prefix", `\xZZ`, "--database", database)
	if err == nil {
		t.Fatal("expected error for a malformed --prefix")
	}
	if !strings.Contains(err.Error(), "--prefix") {
		t.Errorf("error = %q, want mention of --prefix", err)
	}
	if stdout != "" {
		t.Errorf("malformed prefix printed %q, want nothing", stdout)
	}
}

func TestScan_MissingPathExitsTwo(t *testing.T) {
	database := appDatabase(t)

	_, _, err := runKvdir(t, "", "scan", "/nope", "--database", database)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 2 {
		t.Fatalf("scan /nope error = %v, want exit code 2", err)
	}
}

func TestScan_JSON(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "", "scan", "/app/foo", "--json", "--database", database)
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}
	var result display.ScanJSON
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, stdout)
	}
	if result.Limit != 50 || len(result.Rows) != 2 {
		t.Fatalf("scan result = %+v, want limit 50 and two rows", result)
	}
	if result.Rows[0].KeyText != `("x", 1)` || result.Rows[0].ValueText != "42" {
		t.Errorf("first row = %+v", result.Rows[0])
	}
	if len(result.Rows[0].ValueDigest) != 64 {
		t.Errorf("value digest = %q, want 32 hex-encoded bytes", result.Rows[0].ValueDigest)
	}
}

func TestScan_MissingDatabase(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	_, _, err := runKvdir(t, "", "scan", "--database", filepath.Join(t.TempDir(), "absent.db"))
	if err == nil || !strings.Contains(err.Error(), "database not found") {
		t.Errorf("scan error = %v, want database not found", err)
	}
}

func TestShell_Piped(t *testing.T) {
	database := appDatabase(t)

	script := "cd app\npwd\ncd /nope\npwd\ncd foo\nscan 1\nexit\npwd\n"
	stdout, _, err := runKvdir(t, script, "shell", "--database", database)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	want := strings.Join([]string{
		repl.Banner,
		"",
		"/app",
		"No such directory: /nope",
		"/app",
		"-- scanning /app/foo (limit 1) --",
		`   1. ("x", 1) => 42`,
		"",
	}, "\n")
	if stdout != want {
		t.Errorf("shell output:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestInteractiveFlag(t *testing.T) {
	database := appDatabase(t)

	stdout, _, err := runKvdir(t, "ls\n", "-i", "--database", database)
	if err != nil {
		t.Fatalf("kvdir -i: %v", err)
	}
	if want := repl.Banner + "\n\n/:\nDirectories:\napp/\nraw/\n"; stdout != want {
		t.Errorf("kvdir -i output = %q, want %q", stdout, want)
	}
}

func TestRootWithoutCommand(t *testing.T) {
	_, stderr, err := runKvdir(t, "")
	if err == nil || !strings.Contains(err.Error(), "command required") {
		t.Errorf("kvdir error = %v, want command required", err)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("kvdir printed no help:\n%s", stderr)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := runKvdir(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "kvdir ") || !strings.Contains(stdout, "Go: ") {
		t.Errorf("version output = %q", stdout)
	}

	stdout, _, err = runKvdir(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, stdout)
	}
	if info.Version == "" || info.Go == "" {
		t.Errorf("version info = %+v", info)
	}
}
