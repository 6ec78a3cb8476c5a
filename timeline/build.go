package timeline

import (
	"time"

	"github.com/letta-ai/letta-tui/letta"
)

// PlaceholderID is the sentinel id of the synthetic "agent is working"
// item. It never exists server-side: the placeholder is recomputed every
// build pass, never stored, and must never reach the backend. Callers
// suppress edit affordances by comparing against this id, not by kind.
const PlaceholderID = "placeholder-assistant-message"

// IsPlaceholder reports whether an event is the synthetic placeholder.
func IsPlaceholder(ev letta.MessageEvent) bool {
	return ev.ID == PlaceholderID
}

// Item is one renderable unit of the timeline: a message event plus the
// metadata presentation needs without re-walking the run.
type Item struct {
	Event letta.MessageEvent
	Class Classification

	// RunID identifies the run this item was built from. The scroll
	// coordinator anchors on it after a backfill.
	RunID string

	// HasNextOrRunComplete is true when another item follows in the same
	// run or the run has reached a terminal status. Presentation uses it
	// to decide whether a step is still the live tail.
	HasNextOrRunComplete bool

	// Next is the following event in the run's render sequence, nil on
	// the last item.
	Next *letta.MessageEvent

	// PairedToolReturn is the correlated tool_return for tool_call and
	// approval_request items. Nil while the return is pending.
	PairedToolReturn *letta.MessageEvent

	// FirstOfGroup marks the first item of a contiguous same-role span.
	// Set by AnnotateGroups so presentation draws one avatar per group.
	FirstOfGroup bool
}

// hiddenKinds are administrative event kinds that never render as
// standalone items. Tool returns are attached to their call instead.
var hiddenKinds = map[Kind]bool{
	KindStopReason:      true,
	KindUsageStatistics: true,
	KindToolReturn:      true,
	KindPing:            true,
}

// BuildRun produces the render sequence for one run: filtered, annotated
// with per-item metadata, and, when the run is still working on its first
// visible output, augmented with exactly one placeholder item. Calling it
// twice on the same immutable run yields structurally identical output
// aside from the placeholder's synthetic timestamp.
func BuildRun(run letta.Run) []Item {
	corr := Correlate(run.Messages)

	events := make([]letta.MessageEvent, 0, len(run.Messages))
	allUser := true
	for _, ev := range run.Messages {
		class := Classify(ev)
		if hiddenKinds[class.Kind] {
			continue
		}
		if class.Kind != KindUser {
			allUser = false
		}
		events = append(events, corr.Annotate(ev))
	}

	// A running run that has produced nothing visible beyond the user's
	// input gets the "agent is working" placeholder.
	if run.Status == letta.RunStatusRunning && allUser {
		events = append(events, newPlaceholder())
	}

	items := make([]Item, len(events))
	for i, ev := range events {
		class := Classify(ev)
		item := Item{
			Event:                ev,
			Class:                class,
			RunID:                run.ID,
			HasNextOrRunComplete: i < len(events)-1 || run.Status.Terminal(),
		}
		if i < len(events)-1 {
			item.Next = &events[i+1]
		}
		switch class.Kind {
		case KindToolCall, KindApprovalRequest:
			if ret, ok := corr.ReturnFor(class.CorrelationID); ok {
				item.PairedToolReturn = &ret
			}
		}
		items[i] = item
	}
	return items
}

// newPlaceholder builds the synthetic assistant item. Empty content, the
// sentinel id, and a fresh timestamp so it sorts after the user input.
func newPlaceholder() letta.MessageEvent {
	now := time.Now()
	return letta.MessageEvent{
		ID:          PlaceholderID,
		MessageType: letta.MessageTypeAssistant,
		Date:        &now,
	}
}

// Flatten builds the combined render sequence for a stored run list.
// Storage order is newest-fetched-batch first; rendering order is the
// reverse (oldest run first). The reversal happens here, once per pass,
// without mutating the stored slice. Group annotation runs over the whole
// combined sequence so spans survive run boundaries.
func Flatten(runs []letta.Run) []Item {
	var items []Item
	for i := len(runs) - 1; i >= 0; i-- {
		items = append(items, BuildRun(runs[i])...)
	}
	AnnotateGroups(items)
	return items
}
