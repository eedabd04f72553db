package entity

import (
	"time"

	"github.com/google/uuid"
)

type QualityReport struct {
	Id          uuid.UUID
	AssetId     uuid.UUID
	Score       float64
	Dimensions  map[string]float64
	GeneratedAt time.Time
}

type QualityIssue struct {
	Id            uuid.UUID
	AssetId       uuid.UUID
	ReportId      uuid.UUID
	Dimension     string
	Severity      string
	Description   string
	Status        string
	AssigneeEmail string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}
