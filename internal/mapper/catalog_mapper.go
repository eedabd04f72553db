package mapper

import (
	"time"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

// Asset Mappers

func (m *CatalogMapper) AssetToEntity(a *model.Asset) *entity.Asset {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		t := a.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Asset{
		Id:          a.Id,
		Name:        a.Name,
		AssetType:   a.AssetType,
		Description: a.Description,
		Owner:       a.Owner,
		Department:  a.Department,
		DataVersion: a.DataVersion,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   a.DeletedAt.Valid,
	}
}

func (m *CatalogMapper) AssetToModel(a *entity.Asset) *model.Asset {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.Asset{
		Id:          a.Id,
		Name:        a.Name,
		AssetType:   a.AssetType,
		Description: a.Description,
		Owner:       a.Owner,
		Department:  a.Department,
		DataVersion: a.DataVersion,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *CatalogMapper) AssetsToEntities(models []*model.Asset) []*entity.Asset {
	entities := make([]*entity.Asset, 0, len(models))
	for _, a := range models {
		entities = append(entities, m.AssetToEntity(a))
	}
	return entities
}

// Embedding Mappers

func (m *CatalogMapper) AssetEmbeddingToEntity(e *model.AssetEmbedding) *entity.AssetEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.AssetEmbedding{
		Id:        e.Id,
		AssetId:   e.AssetId,
		Document:  e.Document,
		Values:    e.EmbeddingValue.Slice(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *CatalogMapper) AssetEmbeddingToModel(e *entity.AssetEmbedding) *model.AssetEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.AssetEmbedding{
		Id:             e.Id,
		AssetId:        e.AssetId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Values),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

// Lineage Mappers

func (m *CatalogMapper) LineageEdgeToEntity(l *model.LineageEdge) *entity.LineageEdge {
	if l == nil {
		return nil
	}

	return &entity.LineageEdge{
		Id:            l.Id,
		SourceAssetId: l.SourceAssetId,
		TargetAssetId: l.TargetAssetId,
		Relation:      l.Relation,
		CreatedAt:     l.CreatedAt,
	}
}

func (m *CatalogMapper) LineageEdgeToModel(l *entity.LineageEdge) *model.LineageEdge {
	if l == nil {
		return nil
	}

	return &model.LineageEdge{
		Id:            l.Id,
		SourceAssetId: l.SourceAssetId,
		TargetAssetId: l.TargetAssetId,
		Relation:      l.Relation,
		CreatedAt:     l.CreatedAt,
	}
}
