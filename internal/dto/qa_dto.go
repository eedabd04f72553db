package dto

import (
	"time"

	"github.com/google/uuid"
)

type QaSessionResponse struct {
	SessionId       uuid.UUID `json:"session_id"`
	EngineSessionId string    `json:"engine_session_id"`
	Title           string    `json:"title,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type QaAskRequest struct {
	Query     string `json:"query" validate:"required,min=1"`
	AssetType string `json:"asset_type" validate:"omitempty,oneof=all catalog logical_view interface_service indicator"`
}

type QaFeedbackRequest struct {
	QaId string `json:"qa_id" validate:"required"`
	Like int    `json:"like" validate:"oneof=-1 0 1"`
}

type QaFeedbackResponse struct {
	QaId         string `json:"qa_id"`
	Like         int    `json:"like"`
	DetailPrompt bool   `json:"detail_prompt"`
}

type QaCitationResponse struct {
	AssetId string `json:"asset_id"`
	Title   string `json:"title"`
}

// QaStreamEventResponse is one SSE frame pushed to the console while a
// turn is streaming. Sparse: only fields present in the merged snapshot
// are emitted.
type QaStreamEventResponse struct {
	Status    string               `json:"status"`
	AnswerId  string               `json:"answer_id,omitempty"`
	QaId      string               `json:"qa_id,omitempty"`
	Text      string               `json:"text,omitempty"`
	Citations []QaCitationResponse `json:"citations,omitempty"`
	Table     []string             `json:"table,omitempty"`
	Explain   string               `json:"explain,omitempty"`
	Chart     string               `json:"chart,omitempty"`
	Failure   string               `json:"failure,omitempty"`
}

type QaTurnResponse struct {
	Id        uuid.UUID            `json:"id"`
	QaId      string               `json:"qa_id,omitempty"`
	Query     string               `json:"query"`
	Answer    string               `json:"answer,omitempty"`
	Explain   string               `json:"explain,omitempty"`
	Chart     string               `json:"chart,omitempty"`
	Status    string               `json:"status"`
	Like      int                  `json:"like"`
	Stopped   bool                 `json:"stopped"`
	Citations []QaCitationResponse `json:"citations,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type QaHistoryResponse struct {
	SessionId uuid.UUID        `json:"session_id"`
	Turns     []QaTurnResponse `json:"turns"`
}
