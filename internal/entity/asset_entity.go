package entity

import (
	"time"

	"github.com/google/uuid"
)

type Asset struct {
	Id          uuid.UUID
	Name        string
	AssetType   string
	Description string
	Owner       string
	Department  string
	DataVersion string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type AssetEmbedding struct {
	Id        uuid.UUID
	AssetId   uuid.UUID
	Document  string
	Values    []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
