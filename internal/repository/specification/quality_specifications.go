package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByAssetId filters quality rows by asset.
type ByAssetId struct {
	AssetId uuid.UUID
}

func (s ByAssetId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("asset_id = ?", s.AssetId)
}

// ByIssueStatus filters issues by workflow state.
type ByIssueStatus struct {
	Status string
}

func (s ByIssueStatus) Apply(db *gorm.DB) *gorm.DB {
	if s.Status == "" {
		return db
	}
	return db.Where("status = ?", s.Status)
}

// ByReportId filters issues belonging to one report.
type ByReportId struct {
	ReportId uuid.UUID
}

func (s ByReportId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("report_id = ?", s.ReportId)
}
