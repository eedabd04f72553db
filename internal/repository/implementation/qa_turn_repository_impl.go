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

type QaTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QaMapper
}

func NewQaTurnRepository(db *gorm.DB) contract.QaTurnRepository {
	return &QaTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewQaMapper(),
	}
}

func (r *QaTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QaTurnRepositoryImpl) Create(ctx context.Context, turn *entity.QaChatTurn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *QaTurnRepositoryImpl) Update(ctx context.Context, turn *entity.QaChatTurn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *QaTurnRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QaChatTurn, error) {
	var m model.QaChatTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TurnToEntity(&m), nil
}

func (r *QaTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QaChatTurn, error) {
	var models []*model.QaChatTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TurnsToEntities(models), nil
}
