package qastream

import (
	"context"
	"errors"
	"sync"

	"catalog-console-be/internal/pkg/logger"
	"catalog-console-be/pkg/answer"
	"catalog-console-be/pkg/store"
)

// ErrReauthRequired is returned when the one-shot token refresh after an
// auth-expired stream open also failed; the user must re-authenticate.
var ErrReauthRequired = errors.New("qa stream: re-authentication required")

// ErrNoSession is returned by Feedback when no chat session exists yet.
var ErrNoSession = errors.New("qa stream: no active session")

// EventStream is one open answer stream. Implemented by answer.Stream.
type EventStream interface {
	Events() <-chan store.QaEvent
	Err() error
	Close()
}

// Engine abstracts the upstream QA engine transport.
type Engine interface {
	CreateSession(ctx context.Context) (string, error)
	OpenQuickAnswer(ctx context.Context, query, assetType string) (EventStream, error)
	OpenChat(ctx context.Context, sessionID, query, assetType string) (EventStream, error)
	SubmitFeedback(ctx context.Context, qaID, action, sessionID string) error
}

// TokenRefresher performs a one-shot credential refresh after an
// auth-expired stream rejection.
type TokenRefresher interface {
	Refresh(ctx context.Context) error
}

// Update is one observable state change pushed to the subscriber. The
// channel closing signals the end of the turn.
type Update struct {
	Event   store.QaEvent   `json:"event"`
	Session store.QaSession `json:"session"`
}

// Controller manages exactly one open answer stream at a time, for either
// quick-answer or chat mode, and translates incoming events into monotonic
// session-state updates. Opening a new stream always closes the previous
// one first.
type Controller struct {
	mu sync.Mutex

	engine    Engine
	refresher TokenRefresher
	log       logger.ILogger

	sessionID  string
	session    store.QaSession
	turns      []store.QaTurn
	generation uint64
	chatTurn   bool
	stream     EventStream
}

func NewController(engine Engine, refresher TokenRefresher, log logger.ILogger) *Controller {
	return &Controller{
		engine:    engine,
		refresher: refresher,
		log:       log,
		session:   store.QaSession{Status: store.StatusBlock},
	}
}

// AskQuickAnswer opens a single-shot stream for the keyword. Stateless: no
// session id is created or used.
func (c *Controller) AskQuickAnswer(ctx context.Context, keyword, assetType string) (<-chan Update, error) {
	gen := c.beginTurn(keyword, false)

	stream, err := c.engine.OpenQuickAnswer(ctx, keyword, assetType)
	if err != nil {
		c.failTurn(gen, err)
		return nil, err
	}

	return c.attach(gen, stream), nil
}

// AskChat opens a multi-turn stream. A session id is created lazily on the
// first question; if creation fails the turn is abandoned as Error and the
// chat session reset. An auth-expired open triggers one token refresh and a
// replay of the same question.
func (c *Controller) AskChat(ctx context.Context, query, assetType string) (<-chan Update, error) {
	return c.askChat(ctx, query, assetType, false)
}

func (c *Controller) askChat(ctx context.Context, query, assetType string, replayed bool) (<-chan Update, error) {
	gen := c.beginTurn(query, true)

	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	if sessionID == "" {
		id, err := c.engine.CreateSession(ctx)
		if err != nil {
			c.failTurn(gen, err)
			c.ResetSession()
			return nil, err
		}
		c.mu.Lock()
		c.sessionID = id
		c.session.SessionID = id
		sessionID = id
		c.mu.Unlock()
	}

	stream, err := c.engine.OpenChat(ctx, sessionID, query, assetType)
	if err != nil {
		if errors.Is(err, answer.ErrUnauthorized) && !replayed && c.refresher != nil {
			if refreshErr := c.refresher.Refresh(ctx); refreshErr == nil {
				c.log.Info("QaStream", "Token refreshed, replaying chat question", map[string]interface{}{
					"session_id": sessionID,
				})
				return c.askChat(ctx, query, assetType, true)
			}
			c.failTurn(gen, ErrReauthRequired)
			return nil, ErrReauthRequired
		}
		c.failTurn(gen, err)
		return nil, err
	}

	return c.attach(gen, stream), nil
}

// Stop closes the active stream and marks the in-flight turn stopped. Events
// still buffered by the transport are dropped.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	c.generation++

	c.session.StopRequested = true
	c.session.Status = store.StatusEnding
	if n := len(c.turns); c.chatTurn && n > 0 && !c.turns[n-1].Status.Terminal() {
		c.turns[n-1].Stopped = true
		c.turns[n-1].Status = store.StatusEnding
	}
}

// Feedback records like/dislike against a completed turn by qa_id. Requires
// an existing session. Returns true when the feedback-detail capture flow
// should be surfaced (dislike).
func (c *Controller) Feedback(ctx context.Context, qaID, action string) (bool, error) {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	if sessionID == "" {
		return false, ErrNoSession
	}

	if err := c.engine.SubmitFeedback(ctx, qaID, action, sessionID); err != nil {
		return false, err
	}

	c.mu.Lock()
	for i := range c.turns {
		if c.turns[i].QaID == qaID {
			c.turns[i].Like = action
			break
		}
	}
	c.mu.Unlock()

	return action == store.FeedbackDislike, nil
}

// ResetSession destroys the chat session state. Called on tab switch, new
// top-level search, or explicit reset.
func (c *Controller) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	c.generation++
	c.sessionID = ""
	c.session = store.QaSession{Status: store.StatusBlock}
	c.turns = nil
	c.chatTurn = false
}

// SessionID returns the current chat session id, empty before the first turn.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Snapshot returns copies of the session and turn list.
func (c *Controller) Snapshot() (store.QaSession, []store.QaTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	turns := make([]store.QaTurn, len(c.turns))
	copy(turns, c.turns)
	return c.session, turns
}

// beginTurn supersedes any open stream and resets the active-question state.
// Returns the generation guarding the new turn.
func (c *Controller) beginTurn(query string, chat bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	// At most one open stream per controller: close-before-open.
	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	c.generation++

	c.session = store.QaSession{
		SessionID: c.sessionID,
		Status:    store.StatusLoading,
	}
	c.chatTurn = chat
	if chat {
		turn := store.QaTurn{
			Query:  query,
			Status: store.StatusLoading,
			Like:   store.FeedbackNeutrality,
		}
		// A superseded turn that never received a qa_id is replaced
		// wholesale, never duplicated. This also keeps the auth-replay of
		// the same question in a single turn.
		if n := len(c.turns); n > 0 && c.turns[n-1].QaID == "" && !c.turns[n-1].Status.Terminal() {
			c.turns[n-1] = turn
		} else {
			c.turns = append(c.turns, turn)
		}
	}

	return c.generation
}

func (c *Controller) failTurn(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.session.Status = store.StatusError
	if n := len(c.turns); c.chatTurn && n > 0 {
		c.turns[n-1].Status = store.StatusError
	}
	c.log.Error("QaStream", "Turn failed before stream open", map[string]interface{}{"error": err.Error()})
}

// attach starts the pump goroutine translating stream events into state
// updates. A generation mismatch (superseded or stopped turn) drops events
// without mutating state.
func (c *Controller) attach(gen uint64, stream EventStream) <-chan Update {
	c.mu.Lock()
	if gen != c.generation {
		// Superseded between open and attach.
		c.mu.Unlock()
		stream.Close()
		ch := make(chan Update)
		close(ch)
		return ch
	}
	c.stream = stream
	c.mu.Unlock()

	out := make(chan Update, 8)

	go func() {
		defer close(out)

		for ev := range stream.Events() {
			c.mu.Lock()
			if gen != c.generation || c.session.StopRequested {
				c.mu.Unlock()
				continue
			}

			c.session = Reduce(c.session, ev)
			// Quick-answer streams own no turn; only chat events fold into
			// the turn list.
			if n := len(c.turns); c.chatTurn && n > 0 {
				c.turns[n-1] = ReduceTurn(c.turns[n-1], ev)
			}
			snapshot := c.session
			terminal := c.session.Status.Terminal()
			c.mu.Unlock()

			out <- Update{Event: ev, Session: snapshot}

			if terminal {
				stream.Close()
				break
			}
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		if c.stream == stream {
			c.stream = nil
		}
		if c.session.Status.Terminal() || c.session.StopRequested {
			return
		}

		// Stream ended without a terminal status. A disconnect without an
		// application-level failure payload is treated as benign completion,
		// not failure. This mirrors the observed console behavior and can
		// mask genuine transport errors; log it so operators can tell.
		if err := stream.Err(); err != nil {
			c.log.Warn("QaStream", "Stream disconnected without terminal status, ending turn", map[string]interface{}{
				"error": err.Error(),
			})
		}
		c.session.Status = store.StatusEnding
		if n := len(c.turns); c.chatTurn && n > 0 && !c.turns[n-1].Status.Terminal() {
			c.turns[n-1].Status = store.StatusEnding
		}
	}()

	return out
}
