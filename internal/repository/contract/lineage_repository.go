package contract

import (
	"context"

	"catalog-console-be/internal/entity"

	"github.com/google/uuid"
)

type LineageRepository interface {
	Create(ctx context.Context, edge *entity.LineageEdge) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindBySource(ctx context.Context, sourceId uuid.UUID) ([]*entity.LineageEdge, error)
	FindByTarget(ctx context.Context, targetId uuid.UUID) ([]*entity.LineageEdge, error)
	// FindTouching returns every edge where the asset is source or target.
	FindTouching(ctx context.Context, assetId uuid.UUID) ([]*entity.LineageEdge, error)
}
