package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/letta-ai/letta-tui/letta"
)

// eventSource is the live-or-replay abstraction the model consumes.
// letta.Stream (websocket) and letta.Replay (transcript tail) both
// satisfy it.
type eventSource interface {
	Events() <-chan letta.StreamEvent
	Errs() <-chan error
	Close() error
}

type streamEventMsg struct {
	event letta.StreamEvent
}

type streamErrMsg struct {
	err error
}

type olderRunsMsg struct {
	page letta.RunPage
	err  error
}

type sendResultMsg struct {
	run letta.Run
	err error
}

type editResultMsg struct {
	id      string
	content string
	err     error
}

// waitForEvent blocks on the source until an event or error arrives.
// Re-issued after every delivery so the source stays drained.
func waitForEvent(src eventSource) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				return streamErrMsg{err: letta.ErrStreamClosed}
			}
			return streamEventMsg{event: ev}
		case err, ok := <-src.Errs():
			if !ok {
				return streamErrMsg{err: letta.ErrStreamClosed}
			}
			return streamErrMsg{err: err}
		}
	}
}

// fetchOlderRuns requests the page of runs before the cursor.
func fetchOlderRuns(client *letta.Client, agentID, cursor string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		page, err := client.ListRuns(ctx, agentID, cursor, runPageSize)
		return olderRunsMsg{page: page, err: err}
	}
}

// sendMessage posts a user message and reports the run it started.
func sendMessage(client *letta.Client, agentID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		run, err := client.SendMessage(ctx, agentID, content)
		return sendResultMsg{run: run, err: err}
	}
}

// editMessage updates a previously sent user message in place.
func editMessage(client *letta.Client, agentID string, msg letta.MessageEvent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := client.EditMessage(ctx, agentID, msg)
		return editResultMsg{id: msg.ID, content: msg.Content, err: err}
	}
}
