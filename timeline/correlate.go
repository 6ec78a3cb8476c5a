package timeline

import "github.com/letta-ai/letta-tui/letta"

// Correlation is the tool-return lookup for one run, keyed by tool_call_id.
// Build it once per run with Correlate, then resolve pairs and back-fill
// step IDs through ReturnFor and Annotate.
type Correlation struct {
	returns map[string]letta.MessageEvent
}

// Correlate scans a run's full message list and indexes its tool_return
// events by tool_call_id. When multiple returns share an id (not expected
// under correct backend behavior) the last one in the list wins; see
// DESIGN.md for why this stays an open question rather than an invariant.
func Correlate(msgs []letta.MessageEvent) Correlation {
	var returns map[string]letta.MessageEvent
	for _, m := range msgs {
		if m.MessageType != letta.MessageTypeToolReturn || m.ToolCallID == "" {
			continue
		}
		if returns == nil {
			returns = make(map[string]letta.MessageEvent)
		}
		returns[m.ToolCallID] = m
	}
	return Correlation{returns: returns}
}

// ReturnFor resolves the tool_return event for a call-correlation id.
// A miss means the return is still pending, not an error.
func (c Correlation) ReturnFor(toolCallID string) (letta.MessageEvent, bool) {
	ret, ok := c.returns[toolCallID]
	return ret, ok
}

// Annotate returns a copy of ev with StepID filled in from its correlated
// return, when ev is a tool_call or approval_request with a matched return
// that carries a step id. The input is never mutated, so the same run can
// be rendered from multiple call sites without aliasing.
func (c Correlation) Annotate(ev letta.MessageEvent) letta.MessageEvent {
	switch ev.MessageType {
	case letta.MessageTypeToolCall, letta.MessageTypeApprovalRequest:
	default:
		return ev
	}
	id := ev.CorrelationID()
	if id == "" {
		return ev
	}
	ret, ok := c.returns[id]
	if !ok || ret.StepID == "" {
		return ev
	}
	ev.StepID = ret.StepID
	return ev
}
