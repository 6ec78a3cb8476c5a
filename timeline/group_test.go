package timeline_test

import (
	"testing"

	"github.com/letta-ai/letta-tui/letta"
	"github.com/letta-ai/letta-tui/timeline"
)

func classified(typ, id string) timeline.Item {
	ev := makeEvent(typ, id)
	return timeline.Item{Event: ev, Class: timeline.Classify(ev)}
}

func TestAnnotateGroups(t *testing.T) {
	items := []timeline.Item{
		classified(letta.MessageTypeUser, "u1"),
		classified(letta.MessageTypeReasoning, "t1"),
		classified(letta.MessageTypeToolCall, "c1"),
		classified(letta.MessageTypeAssistant, "a1"),
		classified(letta.MessageTypeUser, "u2"),
		classified(letta.MessageTypeAssistant, "a2"),
	}
	timeline.AnnotateGroups(items)

	want := []bool{true, true, false, false, true, true}
	for i, it := range items {
		if it.FirstOfGroup != want[i] {
			t.Errorf("items[%d] (%s) FirstOfGroup = %v, want %v",
				i, it.Event.ID, it.FirstOfGroup, want[i])
		}
	}
}

func TestAnnotateGroups_Empty(t *testing.T) {
	timeline.AnnotateGroups(nil) // must not panic
}
