package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QualityReport struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssetId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Score       float64        `gorm:"not null"`
	Dimensions  datatypes.JSON `gorm:"type:jsonb"`
	GeneratedAt time.Time      `gorm:"autoCreateTime"`
}

func (QualityReport) TableName() string {
	return "quality_reports"
}

type QualityIssue struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssetId       uuid.UUID `gorm:"type:uuid;not null;index"`
	ReportId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Dimension     string    `gorm:"type:varchar(50);not null"`
	Severity      string    `gorm:"type:varchar(20);not null"`
	Description   string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;default:'open'"`
	AssigneeEmail string    `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	ResolvedAt    *time.Time
}

func (QualityIssue) TableName() string {
	return "quality_issues"
}
