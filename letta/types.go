package letta

import (
	"encoding/json"
	"time"
)

// RunStatus is the lifecycle state of a run. A run mutates in place (its
// message list grows) while running and is immutable once terminal.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether the run has finished. The server sets a terminal
// status exactly once; anything that isn't "running" counts.
func (s RunStatus) Terminal() bool {
	return s != RunStatusRunning && s != ""
}

// Run is one agent conversation turn: an ordered batch of message events
// plus a status. Message order as delivered by the backend is authoritative.
type Run struct {
	ID       string         `json:"id"`
	AgentID  string         `json:"agent_id,omitempty"`
	Status   RunStatus      `json:"status"`
	Messages []MessageEvent `json:"messages"`
}

// Message types as they appear on the wire in the message_type field.
const (
	MessageTypeUser             = "user_message"
	MessageTypeAssistant        = "assistant_message"
	MessageTypeReasoning        = "reasoning_message"
	MessageTypeToolCall         = "tool_call_message"
	MessageTypeToolReturn       = "tool_return_message"
	MessageTypeRunError         = "run_error"
	MessageTypeSystem           = "system_message"
	MessageTypeApprovalRequest  = "approval_request_message"
	MessageTypeApprovalResponse = "approval_response_message"
	MessageTypeStopReason       = "stop_reason"
	MessageTypeUsageStatistics  = "usage_statistics"
	MessageTypePing             = "ping"
)

// ToolCall is the invocation payload carried by tool_call_message and
// approval_request_message events.
type ToolCall struct {
	Name       string          `json:"name"`
	Arguments  json.RawMessage `json:"arguments,omitempty"`
	ToolCallID string          `json:"tool_call_id"`
}

// ToolReturnStatus values for tool_return_message events.
const (
	ToolReturnSuccess = "success"
	ToolReturnError   = "error"
)

// MessageEvent is one typed unit within a run. The wire format is a tagged
// union over MessageType; fields beyond the common ones are populated per
// kind and zero otherwise. Unrecognized message types still decode (the
// common fields are enough to forward them to a fallback renderer).
type MessageEvent struct {
	ID          string     `json:"id"`
	MessageType string     `json:"message_type"`
	Date        *time.Time `json:"date,omitempty"`

	// user_message / assistant_message / system_message
	Content string `json:"content,omitempty"`

	// reasoning_message
	Reasoning string `json:"reasoning,omitempty"`

	// tool_call_message / approval_request_message
	ToolCall *ToolCall `json:"tool_call,omitempty"`

	// tool_call events receive StepID from their correlated return; on
	// tool_return events it is authoritative from the server.
	StepID string `json:"step_id,omitempty"`

	// tool_return_message
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolReturn string `json:"tool_return,omitempty"`
	Status     string `json:"status,omitempty"`
	Stderr     string `json:"stderr,omitempty"`

	// approval_response_message
	Approved bool `json:"approve,omitempty"`

	// run_error
	Error string `json:"error,omitempty"`

	// usage_statistics
	Usage *Usage `json:"usage,omitempty"`
}

// Usage holds per-run token counts from usage_statistics events.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CorrelationID returns the tool-call identifier linking a call to its
// return, regardless of which side of the pair this event is. Empty when
// the event carries none.
func (m MessageEvent) CorrelationID() string {
	if m.ToolCall != nil && m.ToolCall.ToolCallID != "" {
		return m.ToolCall.ToolCallID
	}
	return m.ToolCallID
}

// Timestamp returns the event date or the zero time when absent.
func (m MessageEvent) Timestamp() time.Time {
	if m.Date == nil {
		return time.Time{}
	}
	return *m.Date
}
