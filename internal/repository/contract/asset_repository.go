package contract

import (
	"context"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	Update(ctx context.Context, asset *entity.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountGroupedBy aggregates matching rows by a column, for facet panels.
	CountGroupedBy(ctx context.Context, column string, specs ...specification.Specification) (map[string]int64, error)
}

// ScoredAssetEmbedding pairs an embedding row with its cosine similarity
// against the query vector.
type ScoredAssetEmbedding struct {
	Embedding  *entity.AssetEmbedding
	Similarity float64
}

type AssetEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *entity.AssetEmbedding) error
	DeleteByAssetId(ctx context.Context, assetId uuid.UUID) error
	FindByAssetId(ctx context.Context, assetId uuid.UUID) (*entity.AssetEmbedding, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredAssetEmbedding, error)
}
