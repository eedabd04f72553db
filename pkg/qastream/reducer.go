package qastream

import "catalog-console-be/pkg/store"

// Reduce folds one stream event into the session. Pure: the input session is
// not mutated. Answer payload fields accumulate; fields absent from the event
// leave prior values untouched. Events after a terminal status or a local
// stop are ignored.
func Reduce(s store.QaSession, ev store.QaEvent) store.QaSession {
	if s.Status.Terminal() || s.StopRequested {
		return s
	}

	out := s
	out.Citations = append([]store.Citation(nil), s.Citations...)
	out.Text = append([]string(nil), s.Text...)
	out.Table = append([]string(nil), s.Table...)

	if ev.Failure != "" {
		out.Status = store.StatusError
		return out
	}

	if ev.Status != "" {
		out.Status = ev.Status
	}
	if ev.AnswerID != "" {
		out.AnswerID = ev.AnswerID
	}

	out.Text = append(out.Text, ev.Text...)
	out.Citations = append(out.Citations, ev.Cites...)
	out.Table = append(out.Table, ev.Table...)
	if ev.Explain != "" {
		out.Explain = ev.Explain
	}
	if ev.Chart != nil {
		out.Chart = ev.Chart
	}

	return out
}

// ReduceTurn folds one stream event into the in-flight chat turn. Same
// sparse-merge rules as Reduce; additionally adopts the qa_id once the
// server assigns one.
func ReduceTurn(t store.QaTurn, ev store.QaEvent) store.QaTurn {
	if t.Status.Terminal() || t.Stopped {
		return t
	}

	out := t
	out.Cites = append([]store.Citation(nil), t.Cites...)
	out.Text = append([]string(nil), t.Text...)
	out.Table = append([]string(nil), t.Table...)

	if ev.Failure != "" {
		out.Status = store.StatusError
		return out
	}

	if ev.Status != "" {
		out.Status = ev.Status
	}
	if ev.QaID != "" {
		out.QaID = ev.QaID
	}

	out.Text = append(out.Text, ev.Text...)
	out.Cites = append(out.Cites, ev.Cites...)
	out.Table = append(out.Table, ev.Table...)
	if ev.Explain != "" {
		out.Explain = ev.Explain
	}
	if ev.Chart != nil {
		out.Chart = ev.Chart
	}

	return out
}
