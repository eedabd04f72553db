package store

// QaStatus is the state of an active question. Transitions are driven by
// incoming stream events only, except the forced Ending/Error on local
// stop and error conditions.
type QaStatus string

const (
	StatusBlock   QaStatus = "block" // idle, no active request
	StatusLoading QaStatus = "loading"
	StatusSearch  QaStatus = "search"
	StatusInvoke  QaStatus = "invoke"
	StatusAnswer  QaStatus = "answer"
	StatusEnding  QaStatus = "ending"
	StatusError   QaStatus = "error"
)

// Terminal reports whether no further events may mutate the session.
func (s QaStatus) Terminal() bool {
	return s == StatusEnding || s == StatusError
}

// Citation references a catalog asset backing part of an answer.
type Citation struct {
	AssetID string `json:"asset_id"`
	Title   string `json:"title"`
}

// QaEvent is one discrete event from the answer stream, already parsed into
// a tagged form. Nil/empty fields were absent from the wire payload and must
// leave prior session state untouched (sparse update).
type QaEvent struct {
	Status   QaStatus               `json:"status"`
	AnswerID string                 `json:"answer_id,omitempty"`
	QaID     string                 `json:"qa_id,omitempty"`
	Text     []string               `json:"text,omitempty"`
	Cites    []Citation             `json:"cites,omitempty"`
	Table    []string               `json:"table,omitempty"`
	Explain  string                 `json:"explain,omitempty"`
	Chart    map[string]interface{} `json:"chart,omitempty"`
	Logs     []string               `json:"logs,omitempty"`

	// Failure carries an application-level failure message. A stream error
	// without one is treated as benign completion, not failure.
	Failure string `json:"failure,omitempty"`
}

// Feedback values recorded against a completed turn.
const (
	FeedbackLike       = "like"
	FeedbackDislike    = "dislike"
	FeedbackNeutrality = "neutrality"
)

// QaSession is the accumulated answer state for the active question.
type QaSession struct {
	SessionID     string                 `json:"session_id,omitempty"`
	Status        QaStatus               `json:"status"`
	AnswerID      string                 `json:"answer_id,omitempty"`
	Citations     []Citation             `json:"citations"`
	Text          []string               `json:"text"`
	Table         []string               `json:"table"`
	Explain       string                 `json:"explain,omitempty"`
	Chart         map[string]interface{} `json:"chart,omitempty"`
	StopRequested bool                   `json:"stop_requested"`
}

// QaTurn is one question/answer exchange in a multi-turn chat. A turn without
// a QaID is still in flight and is matched by identity, not id.
type QaTurn struct {
	Query   string                 `json:"query"`
	QaID    string                 `json:"qa_id,omitempty"`
	Status  QaStatus               `json:"status"`
	Like    string                 `json:"like"` // like | dislike | neutrality
	Stopped bool                   `json:"stopped,omitempty"`
	Text    []string               `json:"text"`
	Cites   []Citation             `json:"cites"`
	Table   []string               `json:"table"`
	Explain string                 `json:"explain,omitempty"`
	Chart   map[string]interface{} `json:"chart,omitempty"`
}
