package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Asset struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(255);not null;index"`
	AssetType   string         `gorm:"type:varchar(50);not null;index"`
	Description string         `gorm:"type:text"`
	Owner       string         `gorm:"type:varchar(255)"`
	Department  string         `gorm:"type:varchar(255)"`
	DataVersion string         `gorm:"type:varchar(50);index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Asset) TableName() string {
	return "assets"
}

type AssetEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssetId        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (AssetEmbedding) TableName() string {
	return "asset_embeddings"
}

type LineageEdge struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceAssetId uuid.UUID `gorm:"type:uuid;not null;index"`
	TargetAssetId uuid.UUID `gorm:"type:uuid;not null;index"`
	Relation      string    `gorm:"type:varchar(50);not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (LineageEdge) TableName() string {
	return "lineage_edges"
}
