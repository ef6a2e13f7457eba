// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"io"
	"strings"
	"testing"
)

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{nil, ""},
		{[]string{"app/"}, "app/"},
		{[]string{"app/", "apple/"}, "app"},
		{[]string{"/a/x/", "/a/y/"}, "/a/"},
		{[]string{"bar/", "foo/"}, ""},
	}
	for _, test := range tests {
		if got := commonPrefix(test.values); got != test.want {
			t.Errorf("commonPrefix(%q) = %q, want %q", test.values, got, test.want)
		}
	}
}

func TestPlainReader(t *testing.T) {
	reader := NewPlainReader(strings.NewReader("ls\r\ncd app\nlast"), nil)
	for _, want := range []string{"ls", "cd app", "last"} {
		got, err := reader.ReadLine("> ")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := reader.ReadLine("> "); err != io.EOF {
		t.Errorf("ReadLine at end = %v, want io.EOF", err)
	}
}

func TestKeyWatcher(t *testing.T) {
	watcher := &keyWatcher{reader: strings.NewReader("ab\x03cd\x04ef")}
	buffer := make([]byte, 4)

	if _, err := watcher.Read(buffer); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if watcher.last != keyCtrlC {
		t.Errorf("after %q last = %d, want Ctrl-C", buffer, watcher.last)
	}
	if _, err := watcher.Read(buffer); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if watcher.last != keyCtrlD {
		t.Errorf("after %q last = %d, want Ctrl-D", buffer, watcher.last)
	}
}
