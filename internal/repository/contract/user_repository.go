package contract

import (
	"context"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.UserRefreshToken) error
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error)
}
