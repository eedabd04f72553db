package implementation

import (
	"context"
	"errors"
	"fmt"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/mapper"
	"catalog-console-be/internal/model"
	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewAssetRepository(db *gorm.DB) contract.AssetRepository {
	return &AssetRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *AssetRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AssetRepositoryImpl) Create(ctx context.Context, asset *entity.Asset) error {
	m := r.mapper.AssetToModel(asset)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*asset = *r.mapper.AssetToEntity(m)
	return nil
}

func (r *AssetRepositoryImpl) Update(ctx context.Context, asset *entity.Asset) error {
	m := r.mapper.AssetToModel(asset)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*asset = *r.mapper.AssetToEntity(m)
	return nil
}

func (r *AssetRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Asset{}, id).Error
}

func (r *AssetRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error) {
	var m model.Asset
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AssetToEntity(&m), nil
}

func (r *AssetRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error) {
	var models []*model.Asset
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AssetsToEntities(models), nil
}

func (r *AssetRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Asset{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AssetRepositoryImpl) CountGroupedBy(ctx context.Context, column string, specs ...specification.Specification) (map[string]int64, error) {
	type row struct {
		Key   string
		Total int64
	}
	var rows []row

	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Asset{}), specs...)
	err := query.
		Select(fmt.Sprintf("%s as key, COUNT(*) as total", column)).
		Where(column + " <> ''").
		Group(column).
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Key] = rw.Total
	}
	return counts, nil
}
