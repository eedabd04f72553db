package entity

import (
	"time"

	"github.com/google/uuid"
)

// QaChatSession is the persisted shell around an answer-engine session.
// EngineSessionId is the identifier issued by the downstream engine and
// is what gets replayed on subsequent turns.
type QaChatSession struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	EngineSessionId string
	Title           string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type QaChatTurn struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	QaId       string
	Query      string
	AnswerText string
	Explain    string
	Chart      string
	Status     string
	Like       int
	Stopped    bool
	CreatedAt  time.Time
}

type QaCitation struct {
	Id      uuid.UUID
	TurnId  uuid.UUID
	AssetId string
	Title   string
}
