package qastream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"catalog-console-be/pkg/answer"
	"catalog-console-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeStream struct {
	mu     sync.Mutex
	ch     chan store.QaEvent
	err    error
	closed bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{ch: make(chan store.QaEvent, 16)}
}

func (f *fakeStream) Events() <-chan store.QaEvent { return f.ch }

func (f *fakeStream) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeStream) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

func (f *fakeStream) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeStream) emit(ev store.QaEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.ch <- ev
	}
}

type fakeEngine struct {
	mu            sync.Mutex
	streams       []*fakeStream
	sessionID     string
	createErr     error
	openErrs      []error // consumed in order by OpenChat
	feedback      []string
	createCalls   int
	openChatCalls int
}

func (e *fakeEngine) CreateSession(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.createCalls++
	if e.createErr != nil {
		return "", e.createErr
	}
	if e.sessionID == "" {
		e.sessionID = "sess-1"
	}
	return e.sessionID, nil
}

func (e *fakeEngine) OpenQuickAnswer(ctx context.Context, query, assetType string) (EventStream, error) {
	return e.nextStream()
}

func (e *fakeEngine) OpenChat(ctx context.Context, sessionID, query, assetType string) (EventStream, error) {
	e.mu.Lock()
	e.openChatCalls++
	if len(e.openErrs) > 0 {
		err := e.openErrs[0]
		e.openErrs = e.openErrs[1:]
		e.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return e.nextStream()
	}
	e.mu.Unlock()
	return e.nextStream()
}

func (e *fakeEngine) SubmitFeedback(ctx context.Context, qaID, action, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feedback = append(e.feedback, qaID+":"+action)
	return nil
}

func (e *fakeEngine) nextStream() (*fakeStream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := newFakeStream()
	e.streams = append(e.streams, s)
	return s, nil
}

func collect(t *testing.T, ch <-chan Update) []Update {
	t.Helper()
	var out []Update
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-timeout:
			t.Fatal("timed out waiting for updates channel to close")
		}
	}
}

func TestQuickAnswerLifecycle(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	ch, err := c.AskQuickAnswer(context.Background(), "monthly revenue", "all")
	assert.NoError(t, err)

	stream := engine.streams[0]
	stream.emit(store.QaEvent{Status: store.StatusSearch})
	stream.emit(store.QaEvent{Status: store.StatusAnswer, Text: []string{"It grew."}})
	stream.emit(store.QaEvent{Status: store.StatusEnding})

	updates := collect(t, ch)
	assert.Len(t, updates, 3)
	assert.Equal(t, store.StatusEnding, updates[2].Session.Status)
	assert.Equal(t, []string{"It grew."}, updates[2].Session.Text)
	assert.True(t, stream.Closed(), "terminal status closes the stream")
}

func TestCloseBeforeOpen(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	first, err := c.AskQuickAnswer(context.Background(), "one", "all")
	assert.NoError(t, err)

	second, err := c.AskQuickAnswer(context.Background(), "two", "all")
	assert.NoError(t, err)

	assert.True(t, engine.streams[0].Closed(), "opening a new stream closes the previous one")

	// The superseded channel drains without delivering state mutations.
	collect(t, first)

	engine.streams[1].emit(store.QaEvent{Status: store.StatusEnding})
	updates := collect(t, second)
	assert.Equal(t, store.StatusEnding, updates[len(updates)-1].Session.Status)
}

func TestStopDropsBufferedEvents(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	ch, err := c.AskChat(context.Background(), "orders today", "all")
	assert.NoError(t, err)

	stream := engine.streams[0]
	stream.emit(store.QaEvent{Status: store.StatusAnswer, QaID: "qa-1", Text: []string{"first"}})

	// Let the pump deliver before stopping.
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no update before stop")
	}

	c.Stop()
	collect(t, ch)

	session, turns := c.Snapshot()
	assert.True(t, session.StopRequested)
	assert.Equal(t, store.StatusEnding, session.Status)
	assert.True(t, turns[0].Stopped)
	assert.Equal(t, []string{"first"}, turns[0].Text, "text delivered before stop is kept")
}

func TestQuickAnswerLeavesChatTurnUntouched(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	chatCh, err := c.AskChat(context.Background(), "chat question", "all")
	assert.NoError(t, err)

	quickCh, err := c.AskQuickAnswer(context.Background(), "quick question", "all")
	assert.NoError(t, err)
	collect(t, chatCh)

	engine.streams[1].emit(store.QaEvent{Status: store.StatusAnswer, Text: []string{"quick text"}})
	engine.streams[1].emit(store.QaEvent{Status: store.StatusEnding})
	updates := collect(t, quickCh)

	assert.Equal(t, []string{"quick text"}, updates[len(updates)-1].Session.Text)

	_, turns := c.Snapshot()
	assert.Len(t, turns, 1)
	assert.Empty(t, turns[0].Text, "quick-answer events never fold into a chat turn")
	assert.Equal(t, "chat question", turns[0].Query)
	assert.Equal(t, store.StatusLoading, turns[0].Status)
}

func TestStopDuringQuickAnswerLeavesChatTurnUntouched(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	chatCh, err := c.AskChat(context.Background(), "chat question", "all")
	assert.NoError(t, err)

	_, err = c.AskQuickAnswer(context.Background(), "quick question", "all")
	assert.NoError(t, err)
	collect(t, chatCh)

	c.Stop()

	_, turns := c.Snapshot()
	assert.Len(t, turns, 1)
	assert.False(t, turns[0].Stopped, "stopping a quick answer does not stop the chat turn")
	assert.Equal(t, store.StatusLoading, turns[0].Status)
}

func TestNewChatQuestionReplacesUnansweredTurn(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	first, err := c.AskChat(context.Background(), "first", "all")
	assert.NoError(t, err)

	second, err := c.AskChat(context.Background(), "second", "all")
	assert.NoError(t, err)
	collect(t, first)

	_, turns := c.Snapshot()
	assert.Len(t, turns, 1, "an in-flight turn without a qa_id is replaced, not kept")
	assert.Equal(t, "second", turns[0].Query)

	engine.streams[1].emit(store.QaEvent{Status: store.StatusAnswer, QaID: "qa-2"})
	engine.streams[1].emit(store.QaEvent{Status: store.StatusEnding})
	collect(t, second)

	third, err := c.AskChat(context.Background(), "third", "all")
	assert.NoError(t, err)

	_, turns = c.Snapshot()
	assert.Len(t, turns, 2, "completed turns with a qa_id are kept")
	assert.Equal(t, "second", turns[0].Query)
	assert.Equal(t, "third", turns[1].Query)

	engine.streams[2].emit(store.QaEvent{Status: store.StatusEnding})
	collect(t, third)
}

func TestChatRefreshAndReplayOnce(t *testing.T) {
	engine := &fakeEngine{openErrs: []error{answer.ErrUnauthorized, nil}}
	refresher := &countingRefresher{}
	c := NewController(engine, refresher, nopLogger{})

	ch, err := c.AskChat(context.Background(), "top assets", "all")
	assert.NoError(t, err)
	assert.Equal(t, 1, refresher.calls, "one refresh then replay")
	assert.Equal(t, 2, engine.openChatCalls)

	engine.streams[0].emit(store.QaEvent{Status: store.StatusAnswer, Text: []string{"ok"}})
	engine.streams[0].emit(store.QaEvent{Status: store.StatusEnding})
	collect(t, ch)

	_, turns := c.Snapshot()
	assert.Len(t, turns, 1, "the replayed question occupies a single turn")
	assert.Equal(t, "top assets", turns[0].Query)
	assert.Equal(t, store.StatusEnding, turns[0].Status)
	assert.Equal(t, []string{"ok"}, turns[0].Text)
}

func TestChatRefreshFailureSurfacesReauth(t *testing.T) {
	engine := &fakeEngine{openErrs: []error{answer.ErrUnauthorized}}
	refresher := &countingRefresher{err: errors.New("idp down")}
	c := NewController(engine, refresher, nopLogger{})

	_, err := c.AskChat(context.Background(), "top assets", "all")
	assert.ErrorIs(t, err, ErrReauthRequired)

	session, _ := c.Snapshot()
	assert.Equal(t, store.StatusError, session.Status)
}

func TestChatReplayIsNotRetriedTwice(t *testing.T) {
	engine := &fakeEngine{openErrs: []error{answer.ErrUnauthorized, answer.ErrUnauthorized}}
	refresher := &countingRefresher{}
	c := NewController(engine, refresher, nopLogger{})

	_, err := c.AskChat(context.Background(), "top assets", "all")
	assert.ErrorIs(t, err, answer.ErrUnauthorized)
	assert.Equal(t, 1, refresher.calls)
}

func TestCreateSessionFailureResetsChat(t *testing.T) {
	engine := &fakeEngine{createErr: errors.New("engine unavailable")}
	c := NewController(engine, nil, nopLogger{})

	_, err := c.AskChat(context.Background(), "anything", "all")
	assert.Error(t, err)
	assert.Empty(t, c.SessionID())

	_, turns := c.Snapshot()
	assert.Empty(t, turns, "failed session creation abandons the turn")
}

func TestBenignDisconnectEndsTurn(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	ch, err := c.AskChat(context.Background(), "weekly actives", "all")
	assert.NoError(t, err)

	stream := engine.streams[0]
	stream.emit(store.QaEvent{Status: store.StatusAnswer, Text: []string{"1200"}})
	stream.mu.Lock()
	stream.err = errors.New("unexpected EOF")
	stream.mu.Unlock()
	stream.Close()

	collect(t, ch)

	session, turns := c.Snapshot()
	assert.Equal(t, store.StatusEnding, session.Status, "disconnect without failure payload ends, not errors")
	assert.Equal(t, store.StatusEnding, turns[0].Status)
	assert.Equal(t, []string{"1200"}, turns[0].Text)
}

func TestFeedbackRequiresSessionAndMarksTurn(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	_, err := c.Feedback(context.Background(), "qa-1", store.FeedbackLike)
	assert.ErrorIs(t, err, ErrNoSession)

	ch, err := c.AskChat(context.Background(), "orders", "all")
	assert.NoError(t, err)
	engine.streams[0].emit(store.QaEvent{Status: store.StatusAnswer, QaID: "qa-1"})
	engine.streams[0].emit(store.QaEvent{Status: store.StatusEnding})
	collect(t, ch)

	detail, err := c.Feedback(context.Background(), "qa-1", store.FeedbackDislike)
	assert.NoError(t, err)
	assert.True(t, detail, "dislike opens the detail capture flow")

	_, turns := c.Snapshot()
	assert.Equal(t, store.FeedbackDislike, turns[0].Like)

	detail, err = c.Feedback(context.Background(), "qa-1", store.FeedbackLike)
	assert.NoError(t, err)
	assert.False(t, detail)
}

func TestResetSessionClearsEverything(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, nil, nopLogger{})

	ch, err := c.AskChat(context.Background(), "orders", "all")
	assert.NoError(t, err)
	engine.streams[0].emit(store.QaEvent{Status: store.StatusEnding})
	collect(t, ch)

	c.ResetSession()

	assert.Empty(t, c.SessionID())
	session, turns := c.Snapshot()
	assert.Equal(t, store.StatusBlock, session.Status)
	assert.Empty(t, turns)
}

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls++
	return r.err
}
