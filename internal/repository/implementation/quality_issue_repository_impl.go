package implementation

import (
	"context"
	"errors"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/mapper"
	"catalog-console-be/internal/model"
	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/specification"

	"gorm.io/gorm"
)

type QualityIssueRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QualityMapper
}

func NewQualityIssueRepository(db *gorm.DB) contract.QualityIssueRepository {
	return &QualityIssueRepositoryImpl{
		db:     db,
		mapper: mapper.NewQualityMapper(),
	}
}

func (r *QualityIssueRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QualityIssueRepositoryImpl) Create(ctx context.Context, issue *entity.QualityIssue) error {
	m := r.mapper.IssueToModel(issue)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*issue = *r.mapper.IssueToEntity(m)
	return nil
}

func (r *QualityIssueRepositoryImpl) Update(ctx context.Context, issue *entity.QualityIssue) error {
	m := r.mapper.IssueToModel(issue)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*issue = *r.mapper.IssueToEntity(m)
	return nil
}

func (r *QualityIssueRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QualityIssue, error) {
	var m model.QualityIssue
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.IssueToEntity(&m), nil
}

func (r *QualityIssueRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QualityIssue, error) {
	var models []*model.QualityIssue
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.IssuesToEntities(models), nil
}

func (r *QualityIssueRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.QualityIssue{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
