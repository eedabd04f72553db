package contract

import (
	"context"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/specification"

	"github.com/google/uuid"
)

type QaSessionRepository interface {
	Create(ctx context.Context, session *entity.QaChatSession) error
	Update(ctx context.Context, session *entity.QaChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QaChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QaChatSession, error)
}

type QaTurnRepository interface {
	Create(ctx context.Context, turn *entity.QaChatTurn) error
	Update(ctx context.Context, turn *entity.QaChatTurn) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QaChatTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QaChatTurn, error)
}

type QaCitationRepository interface {
	CreateBatch(ctx context.Context, citations []*entity.QaCitation) error
	FindByTurnIds(ctx context.Context, turnIds []uuid.UUID) ([]*entity.QaCitation, error)
}
