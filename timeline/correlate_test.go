package timeline_test

import (
	"testing"

	"github.com/letta-ai/letta-tui/letta"
	"github.com/letta-ai/letta-tui/timeline"
)

func TestCorrelate_PairsCallWithReturn(t *testing.T) {
	msgs := []letta.MessageEvent{
		makeEvent(letta.MessageTypeToolCall, "c1", withToolCall("web_search", "x1")),
		makeEvent(letta.MessageTypeToolReturn, "r1",
			withToolReturn("x1", "s1", letta.ToolReturnSuccess, "results")),
	}

	corr := timeline.Correlate(msgs)
	ret, ok := corr.ReturnFor("x1")
	if !ok {
		t.Fatal("expected a return for x1")
	}
	if ret.ID != "r1" {
		t.Errorf("return ID = %q, want %q", ret.ID, "r1")
	}
	if ret.Status != letta.ToolReturnSuccess {
		t.Errorf("return Status = %q, want success", ret.Status)
	}
}

func TestCorrelate_MissIsPending(t *testing.T) {
	msgs := []letta.MessageEvent{
		makeEvent(letta.MessageTypeToolCall, "c1", withToolCall("web_search", "x1")),
	}
	corr := timeline.Correlate(msgs)
	if _, ok := corr.ReturnFor("x1"); ok {
		t.Error("expected no return while the call is pending")
	}
}

func TestCorrelate_DuplicateReturnLastWins(t *testing.T) {
	msgs := []letta.MessageEvent{
		makeEvent(letta.MessageTypeToolReturn, "r1",
			withToolReturn("x1", "s1", letta.ToolReturnError, "first")),
		makeEvent(letta.MessageTypeToolReturn, "r2",
			withToolReturn("x1", "s2", letta.ToolReturnSuccess, "second")),
	}
	corr := timeline.Correlate(msgs)
	ret, ok := corr.ReturnFor("x1")
	if !ok {
		t.Fatal("expected a return for x1")
	}
	if ret.ID != "r2" {
		t.Errorf("return ID = %q, want r2 (last one in the list)", ret.ID)
	}
}

func TestAnnotate_BackfillsStepID(t *testing.T) {
	call := makeEvent(letta.MessageTypeToolCall, "c1", withToolCall("web_search", "x1"))
	corr := timeline.Correlate([]letta.MessageEvent{
		call,
		makeEvent(letta.MessageTypeToolReturn, "r1",
			withToolReturn("x1", "s1", letta.ToolReturnSuccess, "ok")),
	})

	annotated := corr.Annotate(call)
	if annotated.StepID != "s1" {
		t.Errorf("annotated StepID = %q, want %q", annotated.StepID, "s1")
	}
	// Pure transform: the input event is untouched.
	if call.StepID != "" {
		t.Errorf("input StepID = %q, want empty (no mutation)", call.StepID)
	}
}

func TestAnnotate_ApprovalRequestParticipates(t *testing.T) {
	req := makeEvent(letta.MessageTypeApprovalRequest, "q1", withToolCall("run_code", "x2"))
	corr := timeline.Correlate([]letta.MessageEvent{
		makeEvent(letta.MessageTypeToolReturn, "r1",
			withToolReturn("x2", "s9", letta.ToolReturnSuccess, "ok")),
	})
	if got := corr.Annotate(req).StepID; got != "s9" {
		t.Errorf("approval_request StepID = %q, want %q", got, "s9")
	}
}

func TestAnnotate_NonToolEventsPassThrough(t *testing.T) {
	user := makeEvent(letta.MessageTypeUser, "u1", withContent("hi"))
	corr := timeline.Correlate(nil)
	if got := corr.Annotate(user); got.ID != user.ID || got.StepID != "" {
		t.Errorf("Annotate changed a non-tool event: %+v", got)
	}
}
