package letta

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// A transcript is a recorded stream: one StreamEvent JSON object per line.
// Replaying one exercises the exact reconciliation path the live channel
// uses, which makes transcripts useful both offline and in tests.

// replayDebounce coalesces rapid appends (tool call round trips) into a
// single incremental read.
const replayDebounce = 250 * time.Millisecond

// ReadTranscript reads a transcript file from the given byte offset and
// returns the events found plus the new offset. Malformed lines are
// skipped; the offset still advances past them.
func ReadTranscript(path string, offset int64) ([]StreamEvent, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, offset, err
	}
	defer f.Close()

	if _, err := f.Seek(offset, 0); err != nil {
		return nil, offset, err
	}

	lr := newLineReader(f)
	var events []StreamEvent
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		var ev StreamEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		if ev.RunID == "" {
			continue
		}
		events = append(events, ev)
	}
	if err := lr.Err(); err != nil {
		return nil, offset, err
	}
	return events, offset + lr.BytesRead(), nil
}

// LoadTranscriptRuns replays a whole transcript into a stored run list
// (newest first) and returns the end offset for subsequent tailing.
func LoadTranscriptRuns(path string) ([]Run, int64, error) {
	events, offset, err := ReadTranscript(path, 0)
	if err != nil {
		return nil, 0, err
	}
	var runs []Run
	for _, ev := range events {
		runs, _ = ApplyStreamEvent(runs, ev)
	}
	return runs, offset, nil
}

// Replay tails a transcript file and delivers appended events through the
// same channel shape as Stream, so the TUI consumes both sources
// identically. All offset bookkeeping happens on the run() goroutine;
// the mutex only guards the debounce timer so Close can cancel it.
type Replay struct {
	path   string
	offset int64
	events chan StreamEvent
	errs   chan error
	done   chan struct{}
	signal chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
}

// TailTranscript starts tailing a transcript from the given offset
// (normally the offset LoadTranscriptRuns returned).
func TailTranscript(path string, offset int64) *Replay {
	r := &Replay{
		path:   path,
		offset: offset,
		events: make(chan StreamEvent, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
		signal: make(chan struct{}, 1),
	}
	go r.run()
	return r
}

// Events returns the ordered event channel. Closed when tailing stops.
func (r *Replay) Events() <-chan StreamEvent { return r.events }

// Errs forwards watcher errors. Closed when tailing stops.
func (r *Replay) Errs() <-chan error { return r.errs }

// Close stops the tail goroutine and cancels any pending debounce.
func (r *Replay) Close() error {
	select {
	case <-r.done:
		return nil
	default:
	}
	close(r.done)
	r.mu.Lock()
	if r.debounce != nil {
		r.debounce.Stop()
	}
	r.mu.Unlock()
	return nil
}

// sendSignal does a non-blocking send; a pending signal already covers
// any newer writes.
func (r *Replay) sendSignal() {
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *Replay) run() {
	defer close(r.events)
	defer close(r.errs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.errs <- err
		return
	}
	defer watcher.Close()

	if err := watcher.Add(r.path); err != nil {
		r.errs <- err
		return
	}

	for {
		select {
		case <-r.done:
			return

		case <-r.signal:
			r.readAppended()

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				r.mu.Lock()
				if r.debounce != nil {
					r.debounce.Stop()
				}
				r.debounce = time.AfterFunc(replayDebounce, r.sendSignal)
				r.mu.Unlock()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal: forward and keep tailing.
			select {
			case r.errs <- err:
			default:
			}
		}
	}
}

// readAppended reads everything past the current offset and forwards it.
// Only called from run(), so offset needs no locking.
func (r *Replay) readAppended() {
	events, newOffset, err := ReadTranscript(r.path, r.offset)
	if err != nil {
		select {
		case r.errs <- err:
		default:
		}
		return
	}
	r.offset = newOffset
	for _, ev := range events {
		select {
		case r.events <- ev:
		case <-r.done:
			return
		}
	}
}
