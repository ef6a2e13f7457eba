// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"

	"github.com/bureau-foundation/kvdir/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(time.Second)

	clock.Advance(500 * time.Millisecond)
	select {
	case <-channel:
		t.Fatal("fired before deadline")
	default:
	}

	clock.Advance(500 * time.Millisecond)
	fired := testutil.RequireReceive(t, channel, 5*time.Second, "waiting for After")
	if !fired.Equal(epoch.Add(time.Second)) {
		t.Errorf("fired at %v, want %v", fired, epoch.Add(time.Second))
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount = %d after firing, want 0", clock.PendingCount())
	}
}

func TestFakeAfterNonPositiveIsImmediate(t *testing.T) {
	clock := Fake(epoch)
	testutil.RequireReceive(t, clock.After(0), 5*time.Second, "After(0)")
	if clock.PendingCount() != 0 {
		t.Errorf("After(0) registered a waiter")
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	done := make(chan struct{})
	go func() {
		<-clock.After(time.Minute)
		close(done)
	}()

	clock.WaitForTimers(1)
	clock.Advance(time.Minute)
	testutil.RequireClosed(t, done, 5*time.Second, "goroutine waiting on After")
}

func TestFakeNow(t *testing.T) {
	clock := Fake(epoch)
	clock.Advance(3 * time.Hour)
	if got := clock.Now(); !got.Equal(epoch.Add(3 * time.Hour)) {
		t.Errorf("Now() = %v, want %v", got, epoch.Add(3*time.Hour))
	}
}
