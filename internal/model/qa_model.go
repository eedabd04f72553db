package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QaChatSession struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	EngineSessionId string         `gorm:"type:varchar(255);not null;index"`
	Title           string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (QaChatSession) TableName() string {
	return "qa_chat_sessions"
}

type QaChatTurn struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID `gorm:"type:uuid;not null;index"`
	QaId       string    `gorm:"type:varchar(255);index"`
	Query      string    `gorm:"type:text;not null"`
	AnswerText string    `gorm:"type:text"`
	Explain    string    `gorm:"type:text"`
	Chart      string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(50);not null"`
	Like       int       `gorm:"default:0"`
	Stopped    bool      `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (QaChatTurn) TableName() string {
	return "qa_chat_turns"
}

type QaCitation struct {
	Id      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnId  uuid.UUID `gorm:"type:uuid;not null;index"`
	AssetId string    `gorm:"type:varchar(255)"`
	Title   string    `gorm:"type:text"`
}

func (QaCitation) TableName() string {
	return "qa_citations"
}
