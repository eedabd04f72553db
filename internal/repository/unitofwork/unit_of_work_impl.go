package unitofwork

import (
	"context"
	"fmt"

	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RefreshTokenRepository() contract.RefreshTokenRepository {
	return implementation.NewRefreshTokenRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AssetRepository() contract.AssetRepository {
	return implementation.NewAssetRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AssetEmbeddingRepository() contract.AssetEmbeddingRepository {
	return implementation.NewAssetEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LineageRepository() contract.LineageRepository {
	return implementation.NewLineageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QaSessionRepository() contract.QaSessionRepository {
	return implementation.NewQaSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QaTurnRepository() contract.QaTurnRepository {
	return implementation.NewQaTurnRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QaCitationRepository() contract.QaCitationRepository {
	return implementation.NewQaCitationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QualityReportRepository() contract.QualityReportRepository {
	return implementation.NewQualityReportRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QualityIssueRepository() contract.QualityIssueRepository {
	return implementation.NewQualityIssueRepository(u.getDB())
}
