// Package letta is the boundary to the agent-chat service: the run/message
// data model, the HTTP API client, the websocket live stream, and a local
// JSONL transcript replay source. The timeline engine consumes these types
// and never performs IO of its own.
package letta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// ErrPlaceholderEdit is returned when a caller tries to edit the synthetic
// placeholder item. The placeholder has no server-side identity and must
// never reach the backend.
var ErrPlaceholderEdit = errors.New("letta: cannot edit the placeholder message")

// placeholderMessageID mirrors timeline.PlaceholderID. Duplicated here so
// the client can refuse the sentinel without importing the engine.
const placeholderMessageID = "placeholder-assistant-message"

const defaultRequestTimeout = 30 * time.Second

// Client is the HTTP API client. Safe for use from multiple goroutines;
// in practice the TUI issues at most one pagination fetch at a time.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL (e.g.
// "http://localhost:8283"). An empty token disables the auth header.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

// RunPage is one page of run history. Runs are ordered newest first;
// Before is the opaque cursor for the next older page, empty when the
// history is exhausted.
type RunPage struct {
	Runs   []Run  `json:"runs"`
	Before string `json:"before"`
}

// ListRuns fetches a page of runs for an agent, newest first. Pass an
// empty cursor for the newest page; pass the previous page's Before
// cursor to continue backward.
func (c *Client) ListRuns(ctx context.Context, agentID, before string, limit int) (RunPage, error) {
	q := url.Values{}
	if before != "" {
		q.Set("before", before)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := fmt.Sprintf("/v1/agents/%s/runs", url.PathEscape(agentID))
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var page RunPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return RunPage{}, fmt.Errorf("list runs: %w", err)
	}
	return page, nil
}

// sendMessageRequest is the body for creating a new run from user input.
type sendMessageRequest struct {
	Messages []MessageEvent `json:"messages"`
}

// SendMessage posts user input, creating a new run that the live stream
// will start populating. The message gets a client-generated id so the
// optimistic local append and the streamed copy can be reconciled.
func (c *Client) SendMessage(ctx context.Context, agentID, text string) (Run, error) {
	now := time.Now().UTC()
	body := sendMessageRequest{
		Messages: []MessageEvent{{
			ID:          uuid.NewString(),
			MessageType: MessageTypeUser,
			Date:        &now,
			Content:     text,
		}},
	}

	var run Run
	path := fmt.Sprintf("/v1/agents/%s/messages", url.PathEscape(agentID))
	if err := c.do(ctx, http.MethodPost, path, body, &run); err != nil {
		return Run{}, fmt.Errorf("send message: %w", err)
	}
	return run, nil
}

// EditMessage updates an existing message's content in place. Refuses the
// placeholder sentinel before any bytes leave the process.
func (c *Client) EditMessage(ctx context.Context, agentID string, msg MessageEvent) error {
	if msg.ID == placeholderMessageID {
		return ErrPlaceholderEdit
	}
	path := fmt.Sprintf("/v1/agents/%s/messages/%s",
		url.PathEscape(agentID), url.PathEscape(msg.ID))
	if err := c.do(ctx, http.MethodPatch, path, msg, nil); err != nil {
		return fmt.Errorf("edit message %s: %w", msg.ID, err)
	}
	return nil
}

// apiError is the service's error envelope.
type apiError struct {
	Message string `json:"message"`
}

// do performs one JSON request/response round trip. out may be nil for
// responses whose body the caller does not need.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
