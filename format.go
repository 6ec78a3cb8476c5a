package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/letta-ai/letta-tui/timeline"
)

// formatTime renders a timestamp for the message header. Zero times
// (events that arrived without a date) render as empty rather than the
// epoch.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("3:04:05 PM")
}

// formatTokens formats a token count for display: 1234 -> "1.2k", 1234567 -> "1.2M"
func formatTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// truncateWord truncates s to max runes on a word boundary where one is
// close enough, appending an ellipsis.
func truncateWord(s string, max int) string {
	if max <= 1 {
		return "…"
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := max - 1
	if idx := strings.LastIndexByte(string(runes[:cut]), ' '); idx > max/2 {
		cut = idx
	}
	return strings.TrimRight(string(runes[:cut]), " ") + "…"
}

// firstLine returns the first line of s, collapsing the rest.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// indentBlock prefixes every line of s with prefix. Used for tool panels
// so expanded payloads read as nested under their call.
func indentBlock(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// kindLabel is the short speaker label shown in a group header.
func kindLabel(k timeline.Kind) string {
	switch k {
	case timeline.KindUser:
		return "You"
	case timeline.KindAssistant, timeline.KindReasoning, timeline.KindToolCall,
		timeline.KindApprovalRequest, timeline.KindApprovalResponse:
		return "Agent"
	case timeline.KindRunError:
		return "Error"
	case timeline.KindSystem:
		return "System"
	default:
		return "Event"
	}
}

// shortID abbreviates a UUID-shaped identifier to its first hex group.
func shortID(id string) string {
	if len(id) == 36 && id[8] == '-' && id[13] == '-' && id[18] == '-' && id[23] == '-' {
		return id[:8]
	}
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
