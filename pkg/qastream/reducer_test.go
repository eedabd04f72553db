package qastream

import (
	"testing"

	"catalog-console-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestReduceSparseMerge(t *testing.T) {
	s := store.QaSession{Status: store.StatusLoading}

	s = Reduce(s, store.QaEvent{Status: store.StatusSearch, AnswerID: "ans-1"})
	assert.Equal(t, store.StatusSearch, s.Status)
	assert.Equal(t, "ans-1", s.AnswerID)

	// Text chunk without a status keeps the prior status.
	s = Reduce(s, store.QaEvent{Text: []string{"Revenue "}})
	assert.Equal(t, store.StatusSearch, s.Status)
	assert.Equal(t, []string{"Revenue "}, s.Text)

	// Later chunks accumulate instead of replacing.
	s = Reduce(s, store.QaEvent{Status: store.StatusAnswer, Text: []string{"grew 4%."}})
	assert.Equal(t, []string{"Revenue ", "grew 4%."}, s.Text)

	s = Reduce(s, store.QaEvent{
		Cites:   []store.Citation{{AssetID: "a1", Title: "Revenue Mart"}},
		Explain: "select sum(amount)",
		Chart:   map[string]interface{}{"type": "bar"},
	})
	assert.Len(t, s.Citations, 1)
	assert.Equal(t, "select sum(amount)", s.Explain)
	assert.Equal(t, "bar", s.Chart["type"])
}

func TestReduceFailureWinsAndSticks(t *testing.T) {
	s := store.QaSession{Status: store.StatusAnswer, Text: []string{"partial"}}

	s = Reduce(s, store.QaEvent{Status: store.StatusAnswer, Failure: "engine overloaded"})
	assert.Equal(t, store.StatusError, s.Status)
	assert.Equal(t, []string{"partial"}, s.Text, "failure keeps accumulated text")

	// Events after a terminal status are ignored.
	s = Reduce(s, store.QaEvent{Status: store.StatusAnswer, Text: []string{"late"}})
	assert.Equal(t, store.StatusError, s.Status)
	assert.Equal(t, []string{"partial"}, s.Text)
}

func TestReduceStopRequestedFreezesState(t *testing.T) {
	s := store.QaSession{Status: store.StatusAnswer, StopRequested: true, Text: []string{"kept"}}

	s = Reduce(s, store.QaEvent{Text: []string{"dropped"}})
	assert.Equal(t, []string{"kept"}, s.Text)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	in := store.QaSession{Status: store.StatusAnswer, Text: []string{"a"}}
	out := Reduce(in, store.QaEvent{Text: []string{"b"}})

	assert.Equal(t, []string{"a"}, in.Text)
	assert.Equal(t, []string{"a", "b"}, out.Text)
}

func TestReduceTurnAdoptsQaId(t *testing.T) {
	tr := store.QaTurn{Query: "total orders", Status: store.StatusLoading, Like: store.FeedbackNeutrality}

	tr = ReduceTurn(tr, store.QaEvent{Status: store.StatusInvoke, QaID: "qa-42"})
	assert.Equal(t, "qa-42", tr.QaID)

	// A later event without a qa_id leaves the adopted one alone.
	tr = ReduceTurn(tr, store.QaEvent{Status: store.StatusAnswer, Text: []string{"42 orders"}})
	assert.Equal(t, "qa-42", tr.QaID)
	assert.Equal(t, store.StatusAnswer, tr.Status)
}

func TestReduceTurnStoppedIgnoresEvents(t *testing.T) {
	tr := store.QaTurn{Status: store.StatusAnswer, Stopped: true, Text: []string{"kept"}}

	tr = ReduceTurn(tr, store.QaEvent{Text: []string{"dropped"}})
	assert.Equal(t, []string{"kept"}, tr.Text)
}
