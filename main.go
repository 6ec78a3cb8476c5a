package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/letta-ai/letta-tui/letta"
	"github.com/letta-ai/letta-tui/timeline"
)

const composeInputHeight = 3

type model struct {
	client  *letta.Client
	agentID string

	// Event source: websocket when live, transcript tail when replaying.
	source eventSource
	live   bool

	// runs is the stored conversation, newest first. items is the derived
	// render sequence, oldest first, rebuilt from runs on every change.
	runs  []letta.Run
	items []timeline.Item

	// expanded tracks tool panel expansion, keyed by message id so state
	// survives rebuilds and backfills that shift item indices.
	expanded map[string]bool

	cursor int
	width  int
	height int
	scroll int

	// Rendered geometry, recomputed by computeLineOffsets.
	lineOffsets        []int
	itemLines          []int
	totalRenderedLines int

	follow followState
	pager  paginator

	// Compose state. editingID is set while editing an existing message.
	compose   textarea.Model
	composing bool
	editingID string

	spin      spinner.Model
	statusErr error

	md *mdRenderer
	hl *jsonHL
}

func initialModel(client *letta.Client, agentID string, runs []letta.Run, cursor string) model {
	ta := textarea.New()
	ta.Placeholder = "Message the agent…"
	ta.SetHeight(composeInputHeight)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(ColorAgent)

	return model{
		client:   client,
		agentID:  agentID,
		runs:     runs,
		items:    timeline.Flatten(runs),
		expanded: make(map[string]bool),
		pager:    newPaginator(cursor),
		compose:  ta,
		spin:     sp,
		md:       &mdRenderer{},
		hl:       newJSONHL(lipgloss.HasDarkBackground()),
	}
}

func (m model) composeHeight() int {
	if !m.composing {
		return 0
	}
	return composeInputHeight
}

// rebuild regenerates the render sequence and geometry after any change
// to the stored runs.
func (m *model) rebuild() {
	m.items = timeline.Flatten(m.runs)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.computeLineOffsets()
	m.clampScroll()
}

// mergeRun folds a whole run (from a send response) into storage. Unknown
// runs become the newest entry; known runs absorb any messages the stream
// has not already delivered.
func (m *model) mergeRun(run letta.Run) {
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			for _, msg := range run.Messages {
				known := false
				for _, existing := range m.runs[i].Messages {
					if existing.ID == msg.ID {
						known = true
						break
					}
				}
				if !known {
					m.runs[i].Messages = append(m.runs[i].Messages, msg)
				}
			}
			if run.Status.Terminal() {
				m.runs[i].Status = run.Status
			}
			return
		}
	}
	m.runs = append([]letta.Run{run}, m.runs...)
}

// applyEdit rewrites an edited message's content in local storage after
// the server accepted the change.
func (m *model) applyEdit(id, content string) {
	for i := range m.runs {
		for j := range m.runs[i].Messages {
			if m.runs[i].Messages[j].ID == id {
				m.runs[i].Messages[j].Content = content
				return
			}
		}
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.source != nil {
		cmds = append(cmds, waitForEvent(m.source))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.compose.SetWidth(m.clampWidth() - gutterWidth)
		m.computeLineOffsets()
		m.clampScroll()
		m.maybeInitialScroll()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case scrollSettleMsg:
		// Second half of the dual-fire bottom scroll, after heights
		// settled. Only when still following; a user hold in the gap wins.
		if m.follow.mode == modeFollowing {
			m.computeLineOffsets()
			m.scrollToBottom()
		}
		return m, nil

	case streamEventMsg:
		var grew bool
		m.runs, grew = letta.ApplyStreamEvent(m.runs, msg.event)
		m.rebuild()
		var cmds []tea.Cmd
		if m.source != nil {
			cmds = append(cmds, waitForEvent(m.source))
		}
		if grew {
			if cmd := m.onTailAppended(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case streamErrMsg:
		m.statusErr = msg.err
		if msg.err == letta.ErrStreamClosed || m.source == nil {
			m.live = false
			return m, nil
		}
		return m, waitForEvent(m.source)

	case olderRunsMsg:
		if msg.err != nil {
			m.pager.complete("", false)
			m.statusErr = msg.err
			return m, nil
		}
		prevOldest := ""
		if len(m.runs) > 0 {
			prevOldest = m.runs[len(m.runs)-1].ID
		}
		m.runs = append(m.runs, msg.page.Runs...)
		m.pager.complete(msg.page.Before, true)
		m.rebuild()
		m.preserveAnchorAfterBackfill(prevOldest)
		return m, nil

	case sendResultMsg:
		if msg.err != nil {
			m.statusErr = msg.err
			return m, nil
		}
		m.statusErr = nil
		m.mergeRun(msg.run)
		m.rebuild()
		return m, m.onTailAppended()

	case editResultMsg:
		if msg.err != nil {
			m.statusErr = msg.err
			return m, nil
		}
		m.statusErr = nil
		m.applyEdit(msg.id, msg.content)
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			return m.updateCompose(msg)
		}
		return m.updateList(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading…"
	}
	width := m.clampWidth()

	content := m.renderTimeline(width)
	lines := strings.Split(content, "\n")
	if m.scroll > 0 && m.scroll < len(lines) {
		lines = lines[m.scroll:]
	}
	viewHeight := m.timelineViewHeight()
	if len(lines) > viewHeight {
		lines = lines[:viewHeight]
	}
	// Pad so the compose box and status bar stay pinned to the bottom.
	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	if m.composing {
		b.WriteString(m.compose.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar(m.width))
	return b.String()
}

// loadInitial fetches the newest page of runs over HTTP and opens the
// live stream.
func loadInitial(client *letta.Client, baseURL, token, agentID string) ([]letta.Run, string, eventSource, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := client.ListRuns(ctx, agentID, "", runPageSize)
	if err != nil {
		return nil, "", nil, fmt.Errorf("loading runs: %w", err)
	}

	stream, err := letta.DialStream(ctx, baseURL, token, agentID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening stream: %w", err)
	}
	return page.Runs, page.Before, stream, nil
}

func main() {
	var (
		server     = flag.String("server", "http://localhost:8283", "Letta server base URL")
		agentID    = flag.String("agent", "", "agent id to attach to")
		token      = flag.String("token", os.Getenv("LETTA_API_KEY"), "API token (defaults to LETTA_API_KEY)")
		replayPath = flag.String("replay", "", "replay a recorded transcript instead of connecting")
		dumpMode   = flag.Bool("dump", false, "render the conversation to stdout and exit")
		expandAll  = flag.Bool("expand", false, "expand all tool panels (with -dump)")
	)
	flag.Parse()

	var (
		m   model
		err error
	)
	switch {
	case *replayPath != "":
		m, err = replayModel(*replayPath, *agentID)
	case *agentID != "":
		client := letta.NewClient(*server, *token)
		var runs []letta.Run
		var cursor string
		var source eventSource
		runs, cursor, source, err = loadInitial(client, *server, *token, *agentID)
		if err == nil {
			m = initialModel(client, *agentID, runs, cursor)
			m.source = source
			m.live = true
		}
	default:
		err = fmt.Errorf("either -agent or -replay is required")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *dumpMode {
		if m.source != nil {
			m.source.Close()
		}
		m.width = maxContentWidth
		m.height = 1_000_000
		if *expandAll {
			for _, it := range m.items {
				m.expanded[it.Event.ID] = true
			}
		}
		m.computeLineOffsets()
		fmt.Println(m.renderTimeline(m.clampWidth()))
		return
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if m.source != nil {
		m.source.Close()
	}
}

// replayModel bootstraps from a recorded transcript: load what is already
// on disk, then tail the file for appended events.
func replayModel(path, agentID string) (model, error) {
	runs, offset, err := letta.LoadTranscriptRuns(path)
	if err != nil {
		return model{}, fmt.Errorf("reading transcript %s: %w", path, err)
	}
	if agentID == "" {
		for _, r := range runs {
			if r.AgentID != "" {
				agentID = r.AgentID
				break
			}
		}
	}

	m := initialModel(nil, agentID, runs, "")
	m.source = letta.TailTranscript(path, offset)
	return m, nil
}
