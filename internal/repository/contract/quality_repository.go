package contract

import (
	"context"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/specification"

	"github.com/google/uuid"
)

type QualityReportRepository interface {
	Create(ctx context.Context, report *entity.QualityReport) error
	FindLatestByAssetId(ctx context.Context, assetId uuid.UUID) (*entity.QualityReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QualityReport, error)
}

type QualityIssueRepository interface {
	Create(ctx context.Context, issue *entity.QualityIssue) error
	Update(ctx context.Context, issue *entity.QualityIssue) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QualityIssue, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QualityIssue, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
