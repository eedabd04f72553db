package unitofwork

import (
	"context"

	"catalog-console-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	RefreshTokenRepository() contract.RefreshTokenRepository

	AssetRepository() contract.AssetRepository
	AssetEmbeddingRepository() contract.AssetEmbeddingRepository
	LineageRepository() contract.LineageRepository

	QaSessionRepository() contract.QaSessionRepository
	QaTurnRepository() contract.QaTurnRepository
	QaCitationRepository() contract.QaCitationRepository

	QualityReportRepository() contract.QualityReportRepository
	QualityIssueRepository() contract.QualityIssueRepository
}
