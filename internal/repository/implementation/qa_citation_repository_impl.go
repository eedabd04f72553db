package implementation

import (
	"context"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/mapper"
	"catalog-console-be/internal/model"
	"catalog-console-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QaCitationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QaMapper
}

func NewQaCitationRepository(db *gorm.DB) contract.QaCitationRepository {
	return &QaCitationRepositoryImpl{
		db:     db,
		mapper: mapper.NewQaMapper(),
	}
}

func (r *QaCitationRepositoryImpl) CreateBatch(ctx context.Context, citations []*entity.QaCitation) error {
	if len(citations) == 0 {
		return nil
	}
	models := make([]*model.QaCitation, len(citations))
	for i, c := range citations {
		models[i] = r.mapper.CitationToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*citations[i] = *r.mapper.CitationToEntity(m)
	}
	return nil
}

func (r *QaCitationRepositoryImpl) FindByTurnIds(ctx context.Context, turnIds []uuid.UUID) ([]*entity.QaCitation, error) {
	if len(turnIds) == 0 {
		return nil, nil
	}
	var models []*model.QaCitation
	if err := r.db.WithContext(ctx).Where("turn_id IN ?", turnIds).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.QaCitation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CitationToEntity(m)
	}
	return entities, nil
}
