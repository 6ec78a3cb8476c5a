package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/letta-ai/letta-tui/letta"
	"github.com/letta-ai/letta-tui/timeline"
)

// updateList handles key events in the timeline view.
func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		m.computeLineOffsets()
		m.ensureCursorVisible()
		m.noteUserScroll(false)

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.computeLineOffsets()
		m.ensureCursorVisible()
		m.noteUserScroll(true)
		return m, m.autoFetchCmd()

	case "G":
		if len(m.items) > 0 {
			m.cursor = len(m.items) - 1
		}
		m.follow.mode = modeFollowing
		m.computeLineOffsets()
		m.scrollToBottom()

	case "g":
		m.cursor = 0
		m.scroll = 0
		m.follow.mode = modeHeld
		return m, m.autoFetchCmd()

	case "J", "ctrl+d":
		m.scroll += m.timelineViewHeight() / 2
		m.clampScroll()
		m.noteUserScroll(false)

	case "K", "ctrl+u":
		m.scroll -= m.timelineViewHeight() / 2
		if m.scroll < 0 {
			m.scroll = 0
		}
		m.noteUserScroll(true)
		return m, m.autoFetchCmd()

	case "tab":
		// Toggle the tool panel under the cursor. Keyed by message id so
		// the state survives index shifts from backfills.
		if m.cursor < len(m.items) {
			it := m.items[m.cursor]
			switch it.Class.Kind {
			case timeline.KindToolCall, timeline.KindApprovalRequest:
				m.expanded[it.Event.ID] = !m.expanded[it.Event.ID]
				m.computeLineOffsets()
				m.ensureCursorVisible()
			}
		}

	case "i", "enter":
		if m.client == nil {
			return m, nil
		}
		m.composing = true
		m.editingID = ""
		m.compose.Reset()
		return m, m.compose.Focus()

	case "e":
		// Edit the user message under the cursor. The placeholder never
		// qualifies: it is matched by id, not kind, and never leaves the
		// process.
		if m.client == nil || m.cursor >= len(m.items) {
			return m, nil
		}
		it := m.items[m.cursor]
		if it.Class.Kind != timeline.KindUser || timeline.IsPlaceholder(it.Event) {
			return m, nil
		}
		m.composing = true
		m.editingID = it.Event.ID
		m.compose.Reset()
		m.compose.SetValue(it.Event.Content)
		return m, m.compose.Focus()

	case "o":
		if m.client != nil && m.pager.requestOlder() {
			return m, fetchOlderRuns(m.client, m.agentID, m.pager.cursor)
		}
	}
	return m, nil
}

// updateCompose handles key events while the input box is open.
func (m model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.composing = false
		m.editingID = ""
		m.compose.Blur()
		m.computeLineOffsets()
		m.clampScroll()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.compose.Value())
		editingID := m.editingID
		m.composing = false
		m.editingID = ""
		m.compose.Blur()
		m.computeLineOffsets()
		if text == "" {
			m.clampScroll()
			return m, nil
		}

		if editingID != "" {
			ev, ok := m.findMessage(editingID)
			if !ok {
				m.clampScroll()
				return m, nil
			}
			ev.Content = text
			return m, editMessage(m.client, m.agentID, ev)
		}

		// Sending always snaps to the bottom, regardless of where the
		// user had scrolled.
		return m, tea.Batch(
			sendMessage(m.client, m.agentID, text),
			m.forceFollow(),
		)
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return m, cmd
}

// updateMouse handles wheel scrolling over the timeline.
func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll -= 3
		if m.scroll < 0 {
			m.scroll = 0
		}
		m.noteUserScroll(true)
		return m, m.autoFetchCmd()

	case tea.MouseButtonWheelDown:
		m.scroll += 3
		m.clampScroll()
		m.noteUserScroll(false)
	}
	return m, nil
}

// autoFetchCmd arms the near-top backfill after an upward user scroll.
func (m *model) autoFetchCmd() tea.Cmd {
	if m.client == nil {
		return nil
	}
	if !m.pager.maybeAutoFetch(m.scroll) {
		return nil
	}
	return fetchOlderRuns(m.client, m.agentID, m.pager.cursor)
}

// findMessage locates a stored message by id.
func (m model) findMessage(id string) (ev letta.MessageEvent, ok bool) {
	for i := range m.runs {
		for j := range m.runs[i].Messages {
			if m.runs[i].Messages[j].ID == id {
				return m.runs[i].Messages[j], true
			}
		}
	}
	return ev, false
}
