package letta_test

import (
	"testing"

	"github.com/letta-ai/letta-tui/letta"
)

func msgEvent(runID, msgID, typ, content string) letta.StreamEvent {
	return letta.StreamEvent{
		Type:  letta.StreamEventMessage,
		RunID: runID,
		Message: &letta.MessageEvent{
			ID:          msgID,
			MessageType: typ,
			Content:     content,
		},
	}
}

func TestApplyStreamEvent_AppendsToNewestRun(t *testing.T) {
	runs := []letta.Run{
		{ID: "run-2", Status: letta.RunStatusRunning},
		{ID: "run-1", Status: letta.RunStatusCompleted},
	}

	runs, grew := letta.ApplyStreamEvent(runs,
		msgEvent("run-2", "a1", letta.MessageTypeAssistant, "hi"))
	if !grew {
		t.Error("grew = false, want true for newest-run append")
	}
	if len(runs[0].Messages) != 1 || runs[0].Messages[0].ID != "a1" {
		t.Errorf("run-2 messages = %+v", runs[0].Messages)
	}
	if len(runs[1].Messages) != 0 {
		t.Error("older run must not be touched")
	}
}

func TestApplyStreamEvent_DeduplicatesByID(t *testing.T) {
	// The optimistic local copy of a sent message arrives again on the stream.
	runs := []letta.Run{{
		ID:     "run-1",
		Status: letta.RunStatusRunning,
		Messages: []letta.MessageEvent{
			{ID: "u1", MessageType: letta.MessageTypeUser, Content: "hi"},
		},
	}}

	runs, grew := letta.ApplyStreamEvent(runs,
		msgEvent("run-1", "u1", letta.MessageTypeUser, "hi"))
	if grew {
		t.Error("grew = true for a duplicate append")
	}
	if len(runs[0].Messages) != 1 {
		t.Errorf("len(messages) = %d, want 1", len(runs[0].Messages))
	}
}

func TestApplyStreamEvent_UnknownRunCreatesNewest(t *testing.T) {
	runs := []letta.Run{{ID: "run-1", Status: letta.RunStatusCompleted}}

	runs, grew := letta.ApplyStreamEvent(runs,
		msgEvent("run-2", "u1", letta.MessageTypeUser, "next question"))
	if !grew {
		t.Error("grew = false, want true")
	}
	if runs[0].ID != "run-2" || runs[0].Status != letta.RunStatusRunning {
		t.Errorf("runs[0] = %+v, want new running run-2 at the front", runs[0])
	}
	if runs[1].ID != "run-1" {
		t.Error("existing run displaced")
	}
}

func TestApplyStreamEvent_StatusTransition(t *testing.T) {
	runs := []letta.Run{{ID: "run-1", Status: letta.RunStatusRunning}}

	runs, grew := letta.ApplyStreamEvent(runs, letta.StreamEvent{
		Type:   letta.StreamEventRunStatus,
		RunID:  "run-1",
		Status: letta.RunStatusCompleted,
	})
	if grew {
		t.Error("status transition must not report tail growth")
	}
	if runs[0].Status != letta.RunStatusCompleted {
		t.Errorf("status = %q, want completed", runs[0].Status)
	}
}

func TestApplyStreamEvent_IgnoresMalformed(t *testing.T) {
	runs := []letta.Run{{ID: "run-1", Status: letta.RunStatusRunning}}

	// Message frame without a payload.
	got, grew := letta.ApplyStreamEvent(runs, letta.StreamEvent{
		Type:  letta.StreamEventMessage,
		RunID: "run-1",
	})
	if grew || len(got[0].Messages) != 0 {
		t.Error("nil-payload message frame should be a no-op")
	}

	// Status frame for a run we never loaded.
	got, grew = letta.ApplyStreamEvent(runs, letta.StreamEvent{
		Type:   letta.StreamEventRunStatus,
		RunID:  "run-404",
		Status: letta.RunStatusCompleted,
	})
	if grew || len(got) != 1 {
		t.Error("status frame for unknown run should be a no-op")
	}
}
