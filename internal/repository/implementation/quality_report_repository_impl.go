package implementation

import (
	"context"
	"errors"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/mapper"
	"catalog-console-be/internal/model"
	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QualityReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QualityMapper
}

func NewQualityReportRepository(db *gorm.DB) contract.QualityReportRepository {
	return &QualityReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewQualityMapper(),
	}
}

func (r *QualityReportRepositoryImpl) Create(ctx context.Context, report *entity.QualityReport) error {
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ReportToEntity(m)
	return nil
}

func (r *QualityReportRepositoryImpl) FindLatestByAssetId(ctx context.Context, assetId uuid.UUID) (*entity.QualityReport, error) {
	var m model.QualityReport
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetId).
		Order("generated_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReportToEntity(&m), nil
}

func (r *QualityReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QualityReport, error) {
	var models []*model.QualityReport
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.QualityReport, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ReportToEntity(m)
	}
	return entities, nil
}
