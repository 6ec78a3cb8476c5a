package main

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	// runPageSize is how many runs one backward fetch asks for.
	runPageSize = 20

	// autoFetchWindow rate-limits automatic near-top fetch attempts to
	// one per rolling window.
	autoFetchWindow = 1500 * time.Millisecond

	// topFetchThreshold is how close to the top of the rendered timeline
	// (in lines) the viewport must be before an automatic fetch arms.
	topFetchThreshold = 4
)

// paginator manages backward (older-run) loading: a boolean single-flight
// lock so at most one fetch is ever in flight, and a rate limiter on the
// automatic near-top trigger. It owns no IO; the caller issues the actual
// fetch when a request is granted and reports completion back.
type paginator struct {
	fetching bool
	cursor   string // opaque "before" cursor for the next older page
	hasMore  bool
	auto     *rate.Limiter
}

func newPaginator(cursor string) paginator {
	return paginator{
		cursor:  cursor,
		hasMore: cursor != "",
		auto:    rate.NewLimiter(rate.Every(autoFetchWindow), 1),
	}
}

// requestOlder acquires the single-flight lock. Returns false while a
// fetch is already in flight or the history is exhausted; the lock is
// released only by complete.
func (p *paginator) requestOlder() bool {
	if p.fetching || !p.hasMore {
		return false
	}
	p.fetching = true
	return true
}

// maybeAutoFetch is the viewport-proximity trigger. Suppressed entirely
// while the lock is held (before the limiter is consulted, so a blocked
// attempt doesn't burn the window's token), then rate-limited, then
// subject to the same single-flight acquisition as a manual request.
func (p *paginator) maybeAutoFetch(distanceFromTop int) bool {
	if p.fetching || !p.hasMore {
		return false
	}
	if distanceFromTop > topFetchThreshold {
		return false
	}
	if !p.auto.Allow() {
		return false
	}
	return p.requestOlder()
}

// complete releases the single-flight lock. On success the cursor
// advances; on failure it stays put so the same page can be retried by a
// later trigger.
func (p *paginator) complete(nextCursor string, ok bool) {
	p.fetching = false
	if ok {
		p.cursor = nextCursor
		p.hasMore = nextCursor != ""
	}
}
