// Package timeline turns the paginated, partially-live sequence of runs
// delivered by the letta API into a stable render sequence: it classifies
// raw message events, correlates tool calls with their returns, builds the
// per-run item list (placeholder included), and annotates speaker groups.
package timeline

import (
	"time"

	"github.com/letta-ai/letta-tui/letta"
)

// Kind is the semantic category of a message event.
type Kind int

const (
	KindUnknown Kind = iota
	KindUser
	KindAssistant
	KindReasoning
	KindToolCall
	KindToolReturn
	KindRunError
	KindSystem
	KindApprovalRequest
	KindApprovalResponse
	KindStopReason
	KindUsageStatistics
	KindPing
)

// String returns the kind name for status lines and fallback rendering.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAssistant:
		return "assistant"
	case KindReasoning:
		return "reasoning"
	case KindToolCall:
		return "tool_call"
	case KindToolReturn:
		return "tool_return"
	case KindRunError:
		return "run_error"
	case KindSystem:
		return "system"
	case KindApprovalRequest:
		return "approval_request"
	case KindApprovalResponse:
		return "approval_response"
	case KindStopReason:
		return "stop_reason"
	case KindUsageStatistics:
		return "usage_statistics"
	case KindPing:
		return "ping"
	default:
		return "unknown"
	}
}

// Role is the binary speaker identity used for avatar grouping. Everything
// that is not literal user input (tool calls, returns, reasoning, errors)
// groups under the assistant.
type Role int

const (
	RoleAssistant Role = iota
	RoleUser
)

// Classification is the classifier output: the semantic kind plus the
// fields the rest of the pipeline needs without re-inspecting payloads.
type Classification struct {
	Kind          Kind
	Role          Role
	CorrelationID string    // tool_call_id when the event carries one
	Timestamp     time.Time // zero when the event has no date
}

// kindByType maps wire message types to kinds. Types missing from this
// table classify as KindUnknown and are forwarded, never dropped.
var kindByType = map[string]Kind{
	letta.MessageTypeUser:             KindUser,
	letta.MessageTypeAssistant:        KindAssistant,
	letta.MessageTypeReasoning:        KindReasoning,
	letta.MessageTypeToolCall:         KindToolCall,
	letta.MessageTypeToolReturn:       KindToolReturn,
	letta.MessageTypeRunError:         KindRunError,
	letta.MessageTypeSystem:           KindSystem,
	letta.MessageTypeApprovalRequest:  KindApprovalRequest,
	letta.MessageTypeApprovalResponse: KindApprovalResponse,
	letta.MessageTypeStopReason:       KindStopReason,
	letta.MessageTypeUsageStatistics:  KindUsageStatistics,
	letta.MessageTypePing:             KindPing,
}

// Classify maps a raw message event to its classification. Pure and total:
// no side effects, no errors, absent fields stay zero.
func Classify(ev letta.MessageEvent) Classification {
	kind := kindByType[ev.MessageType]

	role := RoleAssistant
	if kind == KindUser {
		role = RoleUser
	}

	return Classification{
		Kind:          kind,
		Role:          role,
		CorrelationID: ev.CorrelationID(),
		Timestamp:     ev.Timestamp(),
	}
}
