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

type QaSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QaMapper
}

func NewQaSessionRepository(db *gorm.DB) contract.QaSessionRepository {
	return &QaSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQaMapper(),
	}
}

func (r *QaSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QaSessionRepositoryImpl) Create(ctx context.Context, session *entity.QaChatSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *QaSessionRepositoryImpl) Update(ctx context.Context, session *entity.QaChatSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *QaSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.QaChatSession{}, id).Error
}

func (r *QaSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QaChatSession, error) {
	var m model.QaChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *QaSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QaChatSession, error) {
	var models []*model.QaChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.QaChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}
