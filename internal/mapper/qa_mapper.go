package mapper

import (
	"time"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/model"
)

type QaMapper struct{}

func NewQaMapper() *QaMapper {
	return &QaMapper{}
}

func (m *QaMapper) SessionToEntity(s *model.QaChatSession) *entity.QaChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.QaChatSession{
		Id:              s.Id,
		UserId:          s.UserId,
		EngineSessionId: s.EngineSessionId,
		Title:           s.Title,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *QaMapper) SessionToModel(s *entity.QaChatSession) *model.QaChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.QaChatSession{
		Id:              s.Id,
		UserId:          s.UserId,
		EngineSessionId: s.EngineSessionId,
		Title:           s.Title,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *QaMapper) TurnToEntity(t *model.QaChatTurn) *entity.QaChatTurn {
	if t == nil {
		return nil
	}

	return &entity.QaChatTurn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		QaId:       t.QaId,
		Query:      t.Query,
		AnswerText: t.AnswerText,
		Explain:    t.Explain,
		Chart:      t.Chart,
		Status:     t.Status,
		Like:       t.Like,
		Stopped:    t.Stopped,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *QaMapper) TurnToModel(t *entity.QaChatTurn) *model.QaChatTurn {
	if t == nil {
		return nil
	}

	return &model.QaChatTurn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		QaId:       t.QaId,
		Query:      t.Query,
		AnswerText: t.AnswerText,
		Explain:    t.Explain,
		Chart:      t.Chart,
		Status:     t.Status,
		Like:       t.Like,
		Stopped:    t.Stopped,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *QaMapper) TurnsToEntities(models []*model.QaChatTurn) []*entity.QaChatTurn {
	entities := make([]*entity.QaChatTurn, 0, len(models))
	for _, t := range models {
		entities = append(entities, m.TurnToEntity(t))
	}
	return entities
}

func (m *QaMapper) CitationToEntity(c *model.QaCitation) *entity.QaCitation {
	if c == nil {
		return nil
	}

	return &entity.QaCitation{
		Id:      c.Id,
		TurnId:  c.TurnId,
		AssetId: c.AssetId,
		Title:   c.Title,
	}
}

func (m *QaMapper) CitationToModel(c *entity.QaCitation) *model.QaCitation {
	if c == nil {
		return nil
	}

	return &model.QaCitation{
		Id:      c.Id,
		TurnId:  c.TurnId,
		AssetId: c.AssetId,
		Title:   c.Title,
	}
}
