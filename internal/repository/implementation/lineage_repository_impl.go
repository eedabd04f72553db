package implementation

import (
	"context"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/mapper"
	"catalog-console-be/internal/model"
	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LineageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewLineageRepository(db *gorm.DB) contract.LineageRepository {
	return &LineageRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *LineageRepositoryImpl) Create(ctx context.Context, edge *entity.LineageEdge) error {
	m := r.mapper.LineageEdgeToModel(edge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*edge = *r.mapper.LineageEdgeToEntity(m)
	return nil
}

func (r *LineageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LineageEdge{}, id).Error
}

func (r *LineageRepositoryImpl) FindBySource(ctx context.Context, sourceId uuid.UUID) ([]*entity.LineageEdge, error) {
	return r.findWhere(ctx, "source_asset_id = ?", sourceId)
}

func (r *LineageRepositoryImpl) FindByTarget(ctx context.Context, targetId uuid.UUID) ([]*entity.LineageEdge, error) {
	return r.findWhere(ctx, "target_asset_id = ?", targetId)
}

func (r *LineageRepositoryImpl) FindTouching(ctx context.Context, assetId uuid.UUID) ([]*entity.LineageEdge, error) {
	return r.findWhere(ctx, "source_asset_id = ? OR target_asset_id = ?", assetId, assetId)
}

func (r *LineageRepositoryImpl) findWhere(ctx context.Context, query string, args ...interface{}) ([]*entity.LineageEdge, error) {
	var models []*model.LineageEdge
	if err := r.db.WithContext(ctx).Scopes(scope.OrderByCreatedAsc).Where(query, args...).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LineageEdge, len(models))
	for i, m := range models {
		entities[i] = r.mapper.LineageEdgeToEntity(m)
	}
	return entities, nil
}
