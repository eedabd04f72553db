package entity

import (
	"time"

	"github.com/google/uuid"
)

// LineageEdge records a directed data-flow relation between two assets.
type LineageEdge struct {
	Id            uuid.UUID
	SourceAssetId uuid.UUID
	TargetAssetId uuid.UUID
	Relation      string
	CreatedAt     time.Time
}
