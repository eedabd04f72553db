package implementation

import (
	"context"
	"errors"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/mapper"
	"catalog-console-be/internal/model"
	"catalog-console-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewAssetEmbeddingRepository(db *gorm.DB) contract.AssetEmbeddingRepository {
	return &AssetEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *AssetEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.AssetEmbedding) error {
	m := r.mapper.AssetEmbeddingToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.AssetEmbeddingToEntity(m)
	return nil
}

func (r *AssetEmbeddingRepositoryImpl) DeleteByAssetId(ctx context.Context, assetId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("asset_id = ?", assetId).Delete(&model.AssetEmbedding{}).Error
}

func (r *AssetEmbeddingRepositoryImpl) FindByAssetId(ctx context.Context, assetId uuid.UUID) (*entity.AssetEmbedding, error) {
	var m model.AssetEmbedding
	err := r.db.WithContext(ctx).Where("asset_id = ?", assetId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AssetEmbeddingToEntity(&m), nil
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered by threshold.
// Cosine distance in pgvector is 1 - cosine_similarity, so the select inverts it.
func (r *AssetEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredAssetEmbedding, error) {
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.AssetEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("asset_embeddings").
		Select("asset_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN assets ON assets.id = asset_embeddings.asset_id").
		Where("assets.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredAssetEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredAssetEmbedding{
			Embedding:  r.mapper.AssetEmbeddingToEntity(&res.AssetEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
