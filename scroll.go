package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/letta-ai/letta-tui/timeline"
)

const (
	// maxContentWidth caps the rendered timeline width on wide terminals.
	maxContentWidth = 120

	// headerHeight and statusBarHeight frame the scrollable region.
	headerHeight    = 1
	statusBarHeight = 1

	// bottomFollowThreshold is how close to the bottom (in lines) a user
	// scroll must land to re-engage follow mode.
	bottomFollowThreshold = 3

	// scrollSettleDelay re-issues a scroll-to-bottom once after rendering
	// settles. Markdown re-render can change item heights after the first
	// scroll, so each bottom scroll fires twice: immediately and again
	// after this delay. A tunable compensation, not a correctness
	// guarantee.
	scrollSettleDelay = 250 * time.Millisecond
)

// followMode is the viewport's auto-scroll intent.
type followMode int

const (
	modeFollowing followMode = iota // auto-scroll to bottom on new content
	modeHeld                        // user scrolled up; auto-scroll suspended
)

// followState is the scroll coordinator's persistent state. The backfill
// adjustment is transient (applied once per pagination completion) and is
// not stored here.
type followState struct {
	mode              followMode
	initialScrollDone bool // initial mount scrolls to bottom exactly once
}

// scrollSettleMsg triggers the delayed second half of a dual-fire bottom
// scroll.
type scrollSettleMsg struct{}

func settleCmd() tea.Cmd {
	return tea.Tick(scrollSettleDelay, func(time.Time) tea.Msg {
		return scrollSettleMsg{}
	})
}

// clampWidth returns m.width capped at maxContentWidth.
func (m model) clampWidth() int {
	if m.width > maxContentWidth {
		return maxContentWidth
	}
	return m.width
}

// timelineViewHeight is the scrollable region: everything minus the fixed
// header, the status bar, and the compose input when it is open.
func (m model) timelineViewHeight() int {
	h := m.height - headerHeight - statusBarHeight - m.composeHeight()
	if h < 1 {
		h = 1
	}
	return h
}

// separatorLines returns the blank lines inserted before an item: one
// before each speaker group, none between items sharing an avatar.
func separatorLines(next timeline.Item) int {
	if next.FirstOfGroup {
		return 1
	}
	return 0
}

// computeLineOffsets renders every item at the current width and records
// its starting line and height. Must mirror View()'s assembly exactly so
// scroll targets stay accurate. Reading live metrics here (rather than
// caching across updates) is what makes scroll operations idempotent.
func (m *model) computeLineOffsets() {
	if m.width == 0 || len(m.items) == 0 {
		m.lineOffsets = nil
		m.itemLines = nil
		m.totalRenderedLines = 0
		return
	}
	width := m.clampWidth()

	m.lineOffsets = make([]int, len(m.items))
	m.itemLines = make([]int, len(m.items))
	currentLine := 0
	for i := range m.items {
		m.lineOffsets[i] = currentLine
		r := m.renderItem(m.items[i], width, false)
		m.itemLines[i] = r.lines
		currentLine += r.lines
		if i < len(m.items)-1 {
			currentLine += separatorLines(m.items[i+1])
		}
	}
	m.totalRenderedLines = currentLine
}

// distanceFromBottom is how many lines of content sit below the viewport.
func (m model) distanceFromBottom() int {
	d := m.totalRenderedLines - (m.scroll + m.timelineViewHeight())
	if d < 0 {
		return 0
	}
	return d
}

// clampScroll caps the scroll offset to the content range.
func (m *model) clampScroll() {
	maxScroll := m.totalRenderedLines - m.timelineViewHeight()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// scrollToBottom pins the viewport to the end of the content. Guarded and
// idempotent: it recomputes the target from live metrics every call, so
// rapid repeated triggers converge on the same offset.
func (m *model) scrollToBottom() {
	if m.height == 0 {
		return
	}
	m.scroll = m.totalRenderedLines - m.timelineViewHeight()
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// ensureCursorVisible adjusts scroll so the cursor's item is within the
// visible viewport.
func (m *model) ensureCursorVisible() {
	if len(m.lineOffsets) == 0 || m.height == 0 || m.cursor >= len(m.lineOffsets) {
		return
	}
	viewHeight := m.timelineViewHeight()
	cursorStart := m.lineOffsets[m.cursor]
	cursorEnd := cursorStart + m.itemLines[m.cursor] - 1

	if cursorStart < m.scroll {
		m.scroll = cursorStart
	}
	if cursorEnd >= m.scroll+viewHeight {
		m.scroll = cursorEnd - viewHeight + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// noteUserScroll applies the follow-mode transitions for a user-initiated
// scroll (wheel or keys). Upward intent holds the viewport; landing near
// the bottom re-engages following.
func (m *model) noteUserScroll(upward bool) {
	if upward {
		m.follow.mode = modeHeld
	}
	if m.distanceFromBottom() <= bottomFollowThreshold {
		m.follow.mode = modeFollowing
	}
}

// forceFollow is the message-send transition: Following regardless of
// prior state, scroll to bottom now, settle scroll later.
func (m *model) forceFollow() tea.Cmd {
	m.follow.mode = modeFollowing
	m.scrollToBottom()
	return settleCmd()
}

// onTailAppended reacts to a new trailing message in the most recent run.
// Following scrolls (dual-fire); Held preserves the viewport position,
// which needs no adjustment since content was appended below it.
func (m *model) onTailAppended() tea.Cmd {
	if m.follow.mode != modeFollowing {
		return nil
	}
	m.scrollToBottom()
	return settleCmd()
}

// preserveAnchorAfterBackfill realigns the viewport after older runs were
// prepended to the rendered sequence: the run that was previously first
// rendered goes back to the top of the scrollable region, just below the
// fixed header, regardless of follow mode. Silently no-ops when the run
// is not found (nothing was loaded).
func (m *model) preserveAnchorAfterBackfill(prevOldestRunID string) {
	if prevOldestRunID == "" {
		return
	}
	for i := range m.items {
		if m.items[i].RunID == prevOldestRunID {
			m.scroll = m.lineOffsets[i]
			m.clampScroll()
			return
		}
	}
}

// maybeInitialScroll force-scrolls to the bottom once, on the first
// render pass that has both dimensions and content.
func (m *model) maybeInitialScroll() {
	if m.follow.initialScrollDone || m.height == 0 || len(m.items) == 0 {
		return
	}
	m.scrollToBottom()
	m.follow.initialScrollDone = true
}
