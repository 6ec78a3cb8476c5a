package letta_test

import (
	"encoding/json"
	"testing"

	"github.com/letta-ai/letta-tui/letta"
)

func TestRunStatus_Terminal(t *testing.T) {
	tests := []struct {
		status letta.RunStatus
		want   bool
	}{
		{letta.RunStatusRunning, false},
		{letta.RunStatus(""), false},
		{letta.RunStatusCompleted, true},
		{letta.RunStatusFailed, true},
		{letta.RunStatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestMessageEvent_DecodeToolCall(t *testing.T) {
	raw := `{
		"id": "msg-1",
		"message_type": "tool_call_message",
		"date": "2026-03-01T12:00:00Z",
		"tool_call": {"name": "web_search", "arguments": {"query": "gophers"}, "tool_call_id": "x1"}
	}`
	var ev letta.MessageEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.ToolCall == nil || ev.ToolCall.Name != "web_search" {
		t.Fatalf("ToolCall = %+v, want web_search", ev.ToolCall)
	}
	if ev.CorrelationID() != "x1" {
		t.Errorf("CorrelationID = %q, want x1", ev.CorrelationID())
	}
	if ev.Timestamp().IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestMessageEvent_DecodeToolReturn(t *testing.T) {
	raw := `{
		"id": "msg-2",
		"message_type": "tool_return_message",
		"tool_call_id": "x1",
		"step_id": "s1",
		"status": "error",
		"tool_return": "boom",
		"stderr": "trace"
	}`
	var ev letta.MessageEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.CorrelationID() != "x1" {
		t.Errorf("CorrelationID = %q, want x1", ev.CorrelationID())
	}
	if ev.Status != letta.ToolReturnError {
		t.Errorf("Status = %q, want error", ev.Status)
	}
	if ev.StepID != "s1" {
		t.Errorf("StepID = %q, want s1", ev.StepID)
	}
}

func TestMessageEvent_UnknownTypeStillDecodes(t *testing.T) {
	raw := `{"id": "msg-3", "message_type": "hologram_message", "content": "??"}`
	var ev letta.MessageEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.MessageType != "hologram_message" {
		t.Errorf("MessageType = %q, want hologram_message", ev.MessageType)
	}
	// No date on the wire: represented, not an error.
	if !ev.Timestamp().IsZero() {
		t.Errorf("Timestamp = %v, want zero", ev.Timestamp())
	}
}
