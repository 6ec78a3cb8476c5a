package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/letta-ai/letta-tui/letta"
	"github.com/letta-ai/letta-tui/timeline"
)

const gutterWidth = 2

// renderedItem pairs an item with its rendered text and measured height.
// The scroll coordinator and the view must agree on these heights, so
// both go through renderItem.
type renderedItem struct {
	item    timeline.Item
	content string
	lines   int
}

// renderItem renders one timeline item at the given width. selected marks
// the cursor row with a colored gutter bar; it never changes the height,
// only the gutter, so line offsets stay valid across cursor moves.
func (m *model) renderItem(it timeline.Item, width int, selected bool) renderedItem {
	textWidth := width - gutterWidth
	if textWidth < 10 {
		textWidth = 10
	}

	var b strings.Builder
	if it.FirstOfGroup {
		b.WriteString(m.renderGroupHeader(it))
		b.WriteString("\n")
	}
	b.WriteString(m.renderBody(it, textWidth))

	content := applyGutter(b.String(), selected)
	return renderedItem{
		item:    it,
		content: content,
		lines:   lipgloss.Height(content),
	}
}

// renderGroupHeader draws the one-line speaker header shown above each
// contiguous same-speaker span.
func (m *model) renderGroupHeader(it timeline.Item) string {
	label := kindLabel(it.Class.Kind)
	style := StyleAgentBold
	if it.Class.Role == timeline.RoleUser {
		style = StyleAccentBold
	}
	if it.Class.Kind == timeline.KindRunError {
		style = StyleErrorBold
	}

	header := style.Render("● " + label)
	if ts := formatTime(it.Class.Timestamp); ts != "" {
		header += StyleDim.Render("  " + ts)
	}
	return header
}

func (m *model) renderBody(it timeline.Item, textWidth int) string {
	ev := it.Event

	switch it.Class.Kind {
	case timeline.KindUser:
		return lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Width(textWidth).
			Render(ev.Content)

	case timeline.KindAssistant:
		if timeline.IsPlaceholder(ev) {
			return m.spin.View() + StyleSecondary.Render(" Agent is working…")
		}
		return m.md.render(ev.Content, textWidth)

	case timeline.KindReasoning:
		return lipgloss.NewStyle().
			Foreground(ColorReasoning).
			Italic(true).
			Width(textWidth).
			Render(ev.Reasoning)

	case timeline.KindToolCall:
		return m.renderToolCall(it, textWidth, "⚒")

	case timeline.KindApprovalRequest:
		return m.renderToolCall(it, textWidth, "?")

	case timeline.KindApprovalResponse:
		if ev.Approved {
			return lipgloss.NewStyle().Foreground(ColorSuccess).Render("✓ approved")
		}
		return StyleErrorBold.Render("✗ denied")

	case timeline.KindRunError:
		return lipgloss.NewStyle().
			Foreground(ColorError).
			Width(textWidth).
			Render("run failed: " + ev.Error)

	case timeline.KindSystem:
		return StyleMuted.Width(textWidth).Render(ev.Content)

	default:
		// Unknown message types still render, labeled by their wire type,
		// instead of disappearing.
		line := StyleMuted.Render("[" + ev.MessageType + "]")
		if body := firstLine(strings.TrimSpace(ev.Content)); body != "" {
			line += " " + StyleDim.Render(truncateWord(body, textWidth-len(ev.MessageType)-4))
		}
		return line
	}
}

// renderToolCall draws tool_call and approval_request items: a one-line
// summary with an outcome glyph, plus the argument and return payloads
// when the item is expanded.
func (m *model) renderToolCall(it timeline.Item, textWidth int, icon string) string {
	ev := it.Event
	name := "tool"
	args := ""
	if ev.ToolCall != nil {
		name = ev.ToolCall.Name
		args = string(ev.ToolCall.Arguments)
	}

	glyph, glyphStyle := toolOutcome(it)
	head := lipgloss.NewStyle().Foreground(ColorAccent).Render(icon+" "+name) +
		" " + glyphStyle.Render(glyph)
	if it.Class.Kind == timeline.KindApprovalRequest {
		head += StyleMuted.Render("  needs approval")
	}

	if !m.expanded[ev.ID] {
		preview := firstLine(strings.TrimSpace(args))
		if preview != "" && preview != "{}" {
			head += " " + StyleDim.Render(truncateWord(preview, textWidth-len(name)-6))
		}
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	if args != "" {
		b.WriteString("\n")
		b.WriteString(indentBlock(m.renderPayload(args, textWidth-2), "  "))
	}
	if ret := it.PairedToolReturn; ret != nil {
		b.WriteString("\n")
		label := "returned"
		style := lipgloss.NewStyle().Foreground(ColorSuccess)
		if ret.Status == "error" {
			label = "errored"
			style = lipgloss.NewStyle().Foreground(ColorError)
		}
		b.WriteString(indentBlock(style.Render("↳ "+label), "  "))
		if ret.ToolReturn != "" {
			b.WriteString("\n")
			b.WriteString(indentBlock(m.renderPayload(ret.ToolReturn, textWidth-4), "    "))
		}
		if ret.Stderr != "" {
			b.WriteString("\n")
			b.WriteString(indentBlock(StyleErrorBold.Render("stderr:")+"\n"+
				lipgloss.NewStyle().Foreground(ColorError).Width(textWidth-4).Render(ret.Stderr), "    "))
		}
	}
	return b.String()
}

// toolOutcome picks the status glyph for a tool call: the paired return's
// status when one arrived, pending while the run may still deliver one,
// and a muted dot when the run moved on without a captured return.
func toolOutcome(it timeline.Item) (string, lipgloss.Style) {
	if ret := it.PairedToolReturn; ret != nil {
		if ret.Status == "error" {
			return "✗", lipgloss.NewStyle().Foreground(ColorError)
		}
		return "✓", lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	if it.HasNextOrRunComplete {
		return "·", StyleMuted
	}
	return "…", lipgloss.NewStyle().Foreground(ColorPending)
}

// renderPayload renders a tool payload: syntax-highlighted when it is
// JSON, plain wrapped text otherwise.
func (m *model) renderPayload(s string, textWidth int) string {
	if out, ok := m.hl.highlight(s); ok {
		return strings.TrimRight(out, "\n")
	}
	return lipgloss.NewStyle().Foreground(ColorTextSecondary).Width(textWidth).Render(s)
}

// applyGutter prefixes every line with the 2-cell gutter: a cursor bar on
// the selected item, spaces otherwise. Same width either way.
func applyGutter(content string, selected bool) string {
	prefix := "  "
	if selected {
		prefix = StyleAccentBold.Render("▍") + " "
	}
	lines := strings.Split(content, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderTimeline assembles the full item stack into one string, with a
// blank separator line before each speaker group. Heights here must match
// computeLineOffsets exactly.
func (m *model) renderTimeline(width int) string {
	var b strings.Builder
	for i := range m.items {
		if i > 0 && m.items[i].FirstOfGroup {
			b.WriteString("\n")
		}
		r := m.renderItem(m.items[i], width, i == m.cursor)
		b.WriteString(r.content)
		if i < len(m.items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderStatusBar draws the bottom bar: stream state, fetch state, cursor
// position, and key hints or the latest error.
func (m *model) renderStatusBar(width int) string {
	bar := lipgloss.NewStyle().Background(ColorStatusBarBg).Width(width)

	var badge string
	switch {
	case m.pager.fetching:
		badge = lipgloss.NewStyle().
			Background(ColorFetchingBg).Foreground(ColorFetchingFg).
			Padding(0, 1).Render("FETCHING")
	case m.live:
		badge = lipgloss.NewStyle().
			Background(ColorLiveBg).Foreground(ColorLiveFg).
			Padding(0, 1).Render("LIVE")
	default:
		badge = lipgloss.NewStyle().
			Background(ColorStatusBarBg).Foreground(ColorTextMuted).
			Padding(0, 1).Render("REPLAY")
	}

	right := ""
	if m.statusErr != nil {
		right = lipgloss.NewStyle().
			Background(ColorStatusBarBg).Foreground(ColorError).
			Render(truncateWord(m.statusErr.Error(), width/2))
	} else {
		hints := "i send · e edit · tab expand · o older · q quit"
		if m.composing {
			hints = "enter send · esc cancel"
		}
		right = lipgloss.NewStyle().
			Background(ColorStatusBarBg).Foreground(ColorTextKeyHint).
			Render(hints)
	}

	pos := ""
	if len(m.items) > 0 {
		pos = lipgloss.NewStyle().
			Background(ColorStatusBarBg).Foreground(ColorTextDim).
			Render(fmt.Sprintf(" %d/%d ", m.cursor+1, len(m.items)))
	}

	gap := width - lipgloss.Width(badge) - lipgloss.Width(pos) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return bar.Render(badge + pos + strings.Repeat(" ", gap) + right)
}

// renderHeader draws the fixed one-line header above the timeline.
func (m *model) renderHeader(width int) string {
	title := StylePrimaryBold.Render("letta") +
		StyleDim.Render("  agent "+shortID(m.agentID))
	if u := m.latestUsage(); u != nil {
		title += StyleSecondary.Render("  " + formatTokens(u.TotalTokens) + " tok")
	}
	if m.pager.hasMore {
		title += StyleMuted.Render("  ↑ more history")
	}
	return lipgloss.NewStyle().Width(width).Render(title)
}

// latestUsage finds the newest run's usage_statistics payload. Usage
// events never render as items but still inform the header.
func (m *model) latestUsage() *letta.Usage {
	for _, run := range m.runs {
		for i := len(run.Messages) - 1; i >= 0; i-- {
			if run.Messages[i].Usage != nil {
				return run.Messages[i].Usage
			}
		}
	}
	return nil
}
