package answer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"catalog-console-be/pkg/store"
)

// ErrUnauthorized signals an authentication-expired rejection from the
// engine. Callers may refresh credentials and replay the request once.
var ErrUnauthorized = errors.New("answer engine: unauthorized")

// ErrIdleTimeout signals that the stream produced no data within the idle
// interval and was torn down locally.
var ErrIdleTimeout = errors.New("answer engine: stream idle timeout")

// TokenSource supplies the bearer token attached to every engine call.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the upstream cognitive QA engine. Plain JSON calls for
// session creation and feedback, server-sent events for answers.
type Client struct {
	BaseURL     string
	DataVersion string

	httpClient  *http.Client // no Timeout: streams are long-lived
	tokens      TokenSource
	idleTimeout time.Duration
}

func NewClient(baseURL, dataVersion string, idleTimeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		DataVersion: dataVersion,
		httpClient:  &http.Client{},
		tokens:      tokens,
		idleTimeout: idleTimeout,
	}
}

// --- Wire shapes (internal to this package) ---

type wireEnvelope struct {
	Result *wireResult `json:"result"`
}

type wireResult struct {
	Status   string    `json:"status"`
	AnswerID string    `json:"answer_id"`
	QaID     string    `json:"qa_id"`
	Logs     []string  `json:"logs"`
	Failure  string    `json:"failure"`
	Res      *wireBody `json:"res"`
}

type wireBody struct {
	Text    []string               `json:"text"`
	Cites   []store.Citation       `json:"cites"`
	Table   []string               `json:"table"`
	Explain string                 `json:"explain"`
	Chart   map[string]interface{} `json:"chart"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type feedbackResponse struct {
	Status string `json:"status"`
}

// QuickAnswerParams opens a single-shot stream (no session id).
type QuickAnswerParams struct {
	Query     string
	AssetType string
}

// ChatParams opens a multi-turn stream bound to a session id.
type ChatParams struct {
	SessionID string
	Query     string
	AssetType string
	ChatType  string
}

// CreateSession obtains a chat session id from the engine.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/qa/session", bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(req); err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("session creation failed: status %d", resp.StatusCode)
	}

	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("session creation returned empty session_id")
	}
	return out.SessionID, nil
}

// SubmitFeedback records like/dislike against a completed turn.
func (c *Client) SubmitFeedback(ctx context.Context, qaID, action, sessionID string) error {
	body, _ := json.Marshal(map[string]string{
		"qa_id":      qaID,
		"action":     action,
		"session_id": sessionID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/qa/feedback", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feedback failed: status %d", resp.StatusCode)
	}

	var out feedbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Status != "success" {
		return fmt.Errorf("feedback rejected: %s", out.Status)
	}
	return nil
}

// OpenQuickAnswer opens a single-shot answer stream.
func (c *Client) OpenQuickAnswer(ctx context.Context, p QuickAnswerParams) (*Stream, error) {
	params := url.Values{}
	params.Set("query", p.Query)
	params.Set("asset_type", p.AssetType)
	params.Set("data_version", c.DataVersion)
	return c.open(ctx, "/qa/quick-answer", params)
}

// OpenChat opens a multi-turn answer stream for an existing session.
func (c *Client) OpenChat(ctx context.Context, p ChatParams) (*Stream, error) {
	params := url.Values{}
	params.Set("session_id", p.SessionID)
	params.Set("query", p.Query)
	params.Set("asset_type", p.AssetType)
	params.Set("data_version", c.DataVersion)
	params.Set("chat_type", p.ChatType)
	return c.open(ctx, "/qa/chat", params)
}

func (c *Client) open(parent context.Context, path string, params url.Values) (*Stream, error) {
	ctx, cancel := context.WithCancel(parent)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if err := c.authorize(req); err != nil {
		cancel()
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		cancel()
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("stream open failed: status %d", resp.StatusCode)
	}

	s := &Stream{
		events: make(chan store.QaEvent, 8),
		cancel: cancel,
	}
	go s.readLoop(resp.Body, c.idleTimeout)
	return s, nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Stream is one open server-sent-events connection. Events are delivered in
// arrival order on Events(); the channel closes when the stream ends, after
// which Err() reports how.
type Stream struct {
	events chan store.QaEvent
	cancel context.CancelFunc

	mu        sync.Mutex
	err       error
	idleFired bool
	closeOnce sync.Once
}

func (s *Stream) Events() <-chan store.QaEvent {
	return s.events
}

// Err returns nil for a server-completed stream, ErrIdleTimeout, or the
// underlying transport error.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the connection down immediately. Safe to call multiple times.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
	})
}

func (s *Stream) readLoop(body io.ReadCloser, idle time.Duration) {
	defer close(s.events)
	defer body.Close()

	// Idle watchdog: no data within the interval is a transport error.
	var watchdog *time.Timer
	if idle > 0 {
		watchdog = time.AfterFunc(idle, func() {
			s.mu.Lock()
			s.idleFired = true
			s.mu.Unlock()
			s.cancel()
		})
		defer watchdog.Stop()
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data []byte
	for scanner.Scan() {
		if watchdog != nil {
			watchdog.Reset(idle)
		}
		line := scanner.Bytes()

		switch {
		case len(line) == 0:
			// Blank line terminates one event.
			if len(data) > 0 {
				if ev, ok := parseEvent(data); ok {
					s.events <- ev
				}
				data = nil
			}
		case bytes.HasPrefix(line, []byte(":")):
			// SSE comment / keep-alive, ignored.
		case bytes.HasPrefix(line, []byte("data:")):
			data = append(data, bytes.TrimSpace(line[5:])...)
		}
	}

	// A final frame may end at EOF without the terminating blank line.
	if len(data) > 0 {
		if ev, ok := parseEvent(data); ok {
			s.events <- ev
		}
	}

	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		if s.idleFired {
			s.err = ErrIdleTimeout
		} else {
			s.err = err
		}
		s.mu.Unlock()
	}
}

func parseEvent(data []byte) (store.QaEvent, bool) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Result == nil {
		return store.QaEvent{}, false
	}

	r := env.Result
	ev := store.QaEvent{
		Status:   store.QaStatus(strings.ToLower(r.Status)),
		AnswerID: r.AnswerID,
		QaID:     r.QaID,
		Logs:     r.Logs,
		Failure:  r.Failure,
	}
	if r.Res != nil {
		ev.Text = r.Res.Text
		ev.Cites = r.Res.Cites
		ev.Table = r.Res.Table
		ev.Explain = r.Res.Explain
		ev.Chart = r.Res.Chart
	}
	return ev, true
}
