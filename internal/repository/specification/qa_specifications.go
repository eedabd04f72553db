package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionId filters turns or citations by their owning chat session.
type BySessionId struct {
	SessionId uuid.UUID
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ByUserId scopes rows to their owning user.
type ByUserId struct {
	UserId uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByQaId filters a turn by the answer engine's qa identifier.
type ByQaId struct {
	QaId string
}

func (s ByQaId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("qa_id = ?", s.QaId)
}

// ByTurnId filters citations by their owning turn.
type ByTurnId struct {
	TurnId uuid.UUID
}

func (s ByTurnId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("turn_id = ?", s.TurnId)
}
