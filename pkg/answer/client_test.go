package answer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-console-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token() (string, error) { return string(t), nil }

func sseHandler(frames []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, f := range frames {
			_, _ = w.Write([]byte("data: " + f + "\n\n"))
			flusher.Flush()
		}
	}
}

func drain(t *testing.T, s *Stream) []store.QaEvent {
	t.Helper()
	var out []store.QaEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out draining stream")
		}
	}
}

func TestOpenQuickAnswerParsesEvents(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		sseHandler([]string{
			`{"result":{"status":"SEARCH","answer_id":"ans-1"}}`,
			`{"result":{"status":"ANSWER","qa_id":"qa-1","res":{"text":["Revenue grew "],"cites":[{"asset_id":"a1","title":"Revenue Mart"}]}}}`,
			`{"result":{"status":"ANSWER","res":{"text":["4% in Q2."],"explain":"select sum(amount)"}}}`,
			`{"result":{"status":"ENDING"}}`,
		})(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "v1", 0, staticToken("tok-1"))
	s, err := c.OpenQuickAnswer(context.Background(), QuickAnswerParams{Query: "revenue", AssetType: "all"})
	require.NoError(t, err)

	events := drain(t, s)
	require.Len(t, events, 4)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "revenue", gotQuery)

	assert.Equal(t, store.StatusSearch, events[0].Status)
	assert.Equal(t, "ans-1", events[0].AnswerID)
	assert.Equal(t, "qa-1", events[1].QaID)
	assert.Equal(t, []string{"Revenue grew "}, events[1].Text)
	assert.Equal(t, "Revenue Mart", events[1].Cites[0].Title)
	assert.Equal(t, "select sum(amount)", events[2].Explain)
	assert.Equal(t, store.StatusEnding, events[3].Status)

	assert.NoError(t, s.Err(), "server-completed stream reports no error")
}

func TestOpenStreamUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "v1", 0, staticToken("expired"))
	_, err := c.OpenChat(context.Background(), ChatParams{SessionID: "s1", Query: "q"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStreamIgnoresCommentsAndMalformedFrames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte(": keep-alive\n\n"))
		_, _ = w.Write([]byte("data: not json\n\n"))
		_, _ = w.Write([]byte("data: {\"no_result\":true}\n\n"))
		_, _ = w.Write([]byte("data: {\"result\":{\"status\":\"ENDING\"}}\n\n"))
		flusher.Flush()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "v1", 0, nil)
	s, err := c.OpenQuickAnswer(context.Background(), QuickAnswerParams{Query: "q"})
	require.NoError(t, err)

	events := drain(t, s)
	require.Len(t, events, 1)
	assert.Equal(t, store.StatusEnding, events[0].Status)
}

func TestStreamDeliversFinalFrameAtEOF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("data: {\"result\":{\"status\":\"ANSWER\",\"text\":[\"partial\"]}}\n\n"))
		// Last frame ends at EOF without the terminating blank line.
		_, _ = w.Write([]byte("data: {\"result\":{\"status\":\"ENDING\"}}\n"))
		flusher.Flush()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "v1", 0, nil)
	s, err := c.OpenQuickAnswer(context.Background(), QuickAnswerParams{Query: "q"})
	require.NoError(t, err)

	events := drain(t, s)
	require.Len(t, events, 2)
	assert.Equal(t, store.StatusEnding, events[1].Status)
}

func TestStreamIdleTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "v1", 50*time.Millisecond, nil)
	s, err := c.OpenQuickAnswer(context.Background(), QuickAnswerParams{Query: "q"})
	require.NoError(t, err)

	drain(t, s)
	assert.ErrorIs(t, s.Err(), ErrIdleTimeout)
}

func TestCloseStopsStream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"result\":{\"status\":\"SEARCH\"}}\n\n"))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "v1", 0, nil)
	s, err := c.OpenQuickAnswer(context.Background(), QuickAnswerParams{Query: "q"})
	require.NoError(t, err)

	select {
	case <-s.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("no event before close")
	}

	s.Close()
	drain(t, s)
}

func TestCreateSessionAndFeedback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/qa/session", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"session_id":"sess-9"}`))
	})
	mux.HandleFunc("/qa/feedback", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "v1", 0, nil)

	id, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-9", id)

	err = c.SubmitFeedback(context.Background(), "qa-1", "like", id)
	assert.NoError(t, err)
}

func TestRenewableTokenRefresh(t *testing.T) {
	calls := 0
	tok := NewRenewableToken("initial", func(ctx context.Context) (string, error) {
		calls++
		return "renewed", nil
	})

	v, err := tok.Token()
	require.NoError(t, err)
	assert.Equal(t, "initial", v)

	require.NoError(t, tok.Refresh(context.Background()))
	assert.Equal(t, 1, calls)

	v, err = tok.Token()
	require.NoError(t, err)
	assert.Equal(t, "renewed", v)
}
