package letta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ErrStreamClosed reports that the event channel ended without a more
// specific error.
var ErrStreamClosed = errors.New("letta: stream closed")

// Stream event types on the wire.
const (
	StreamEventMessage   = "message"
	StreamEventRunStatus = "run_status"
)

// StreamEvent is one frame from the live channel: either a message
// appended to a running run or a run status transition. The server sets a
// terminal status exactly once per run.
type StreamEvent struct {
	Type    string        `json:"type"`
	RunID   string        `json:"run_id"`
	Status  RunStatus     `json:"status,omitempty"`
	Message *MessageEvent `json:"message,omitempty"`
}

const (
	streamWriteTimeout = 10 * time.Second
	streamPongTimeout  = 60 * time.Second
	streamPingInterval = 30 * time.Second
)

// Stream is the live-append channel for one agent. A single reader
// goroutine owns the connection; consumers receive ordered events on
// Events and a terminal error (if any) on Errs. Both channels close when
// the stream ends.
type Stream struct {
	conn   *websocket.Conn
	events chan StreamEvent
	errs   chan error
	done   chan struct{}
}

// DialStream connects the websocket live channel for an agent. baseURL is
// the same HTTP base the Client uses; the scheme is rewritten to ws/wss.
func DialStream(ctx context.Context, baseURL, token, agentID string) (*Stream, error) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) +
		fmt.Sprintf("/v1/agents/%s/stream", url.PathEscape(agentID))

	var header http.Header
	if token != "" {
		header = http.Header{"Authorization": {"Bearer " + token}}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial stream: %w", err)
	}

	s := &Stream{
		conn:   conn,
		events: make(chan StreamEvent, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	go s.pingLoop()
	return s, nil
}

// Events returns the ordered event channel. Closed when the stream ends.
func (s *Stream) Events() <-chan StreamEvent { return s.events }

// Errs reports the error that ended the stream, if any. Closed on exit.
func (s *Stream) Errs() <-chan error { return s.errs }

// Close shuts the stream down. Subsequent events are discarded.
func (s *Stream) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	// Best effort: tell the server we're going away before tearing down.
	deadline := time.Now().Add(streamWriteTimeout)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}

// readLoop is the sole reader of the connection. Malformed frames are
// skipped rather than fatal; unknown event types pass through so the UI
// can decide what to do with them.
func (s *Stream) readLoop() {
	defer close(s.events)
	defer close(s.errs)

	s.conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// Deliberate shutdown, not an error.
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					s.errs <- err
				}
			}
			return
		}

		var ev StreamEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// pingLoop keeps the connection alive until done closes.
func (s *Stream) pingLoop() {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(streamWriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// ApplyStreamEvent folds one stream event into a stored run list (newest
// first), returning the updated slice and whether the newest run's tail
// grew. Message events append to the matching running run; status events
// flip its status. Events for unknown runs create a new newest run, which
// covers the send-message race where the stream delivers the first frame
// before the POST response arrives.
func ApplyStreamEvent(runs []Run, ev StreamEvent) ([]Run, bool) {
	idx := -1
	for i := range runs {
		if runs[i].ID == ev.RunID {
			idx = i
			break
		}
	}

	switch ev.Type {
	case StreamEventMessage:
		if ev.Message == nil {
			return runs, false
		}
		if idx == -1 {
			runs = append([]Run{{ID: ev.RunID, Status: RunStatusRunning}}, runs...)
			idx = 0
		}
		// Reconcile the optimistic local copy of a sent message.
		for _, existing := range runs[idx].Messages {
			if existing.ID == ev.Message.ID {
				return runs, false
			}
		}
		runs[idx].Messages = append(runs[idx].Messages, *ev.Message)
		return runs, idx == 0

	case StreamEventRunStatus:
		if idx == -1 {
			return runs, false
		}
		runs[idx].Status = ev.Status
		return runs, false
	}
	return runs, false
}
