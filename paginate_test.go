package main

import "testing"

func TestPaginatorSingleFlight(t *testing.T) {
	p := newPaginator("cursor-1")

	if !p.requestOlder() {
		t.Fatal("first request should acquire the lock")
	}
	if p.requestOlder() {
		t.Fatal("second request granted while a fetch is in flight")
	}

	p.complete("cursor-2", true)
	if p.cursor != "cursor-2" {
		t.Errorf("cursor = %q after success, want cursor-2", p.cursor)
	}
	if !p.requestOlder() {
		t.Error("lock not released by completion")
	}
}

func TestPaginatorFailureRetainsCursor(t *testing.T) {
	p := newPaginator("cursor-1")
	p.requestOlder()
	p.complete("", false)

	if p.cursor != "cursor-1" {
		t.Errorf("cursor = %q after failure, want cursor-1", p.cursor)
	}
	if !p.hasMore {
		t.Error("failure must not mark the history exhausted")
	}
	if !p.requestOlder() {
		t.Error("the same page should be retryable after a failure")
	}
}

func TestPaginatorExhaustedHistory(t *testing.T) {
	p := newPaginator("")
	if p.requestOlder() {
		t.Error("request granted with no history to fetch")
	}

	p = newPaginator("cursor-1")
	p.requestOlder()
	p.complete("", true)
	if p.hasMore {
		t.Error("empty cursor from a successful page must exhaust the history")
	}
	if p.requestOlder() {
		t.Error("request granted after exhaustion")
	}
}

func TestAutoFetchGating(t *testing.T) {
	p := newPaginator("cursor-1")

	if p.maybeAutoFetch(topFetchThreshold + 1) {
		t.Error("auto fetch armed while far from the top")
	}
	if !p.maybeAutoFetch(0) {
		t.Fatal("auto fetch should arm at the top with a fresh limiter")
	}

	// In flight: suppressed without burning the rate window.
	if p.maybeAutoFetch(0) {
		t.Error("auto fetch armed while a fetch is in flight")
	}

	p.complete("cursor-2", true)
	if p.maybeAutoFetch(0) {
		t.Error("auto fetch armed again inside the rate window")
	}
}

func TestAutoFetchSuppressionDoesNotBurnToken(t *testing.T) {
	p := newPaginator("cursor-1")

	// A manual fetch holds the lock; proximity triggers during it must
	// not consume the limiter token.
	p.requestOlder()
	for i := 0; i < 5; i++ {
		if p.maybeAutoFetch(0) {
			t.Fatal("auto fetch armed while the manual fetch holds the lock")
		}
	}
	p.complete("cursor-2", true)

	if !p.maybeAutoFetch(0) {
		t.Error("token was burned by suppressed attempts")
	}
}
