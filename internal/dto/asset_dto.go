package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAssetRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	AssetType   string `json:"asset_type" validate:"required,oneof=catalog logical_view interface_service indicator"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Department  string `json:"department"`
	DataVersion string `json:"data_version"`
}

type UpdateAssetRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Department  string `json:"department"`
}

type AssetResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	AssetType   string     `json:"asset_type"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	Department  string     `json:"department,omitempty"`
	DataVersion string     `json:"data_version,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// PublishEmbedAssetMessage is the queue payload that triggers re-embedding
// of one asset's search document.
type PublishEmbedAssetMessage struct {
	AssetId uuid.UUID `json:"asset_id"`
}

type LineageNodeResponse struct {
	AssetId   uuid.UUID `json:"asset_id"`
	Name      string    `json:"name"`
	AssetType string    `json:"asset_type"`
	Depth     int       `json:"depth"`
}

type LineageEdgeResponse struct {
	SourceAssetId uuid.UUID `json:"source_asset_id"`
	TargetAssetId uuid.UUID `json:"target_asset_id"`
	Relation      string    `json:"relation"`
}

type LineageGraphResponse struct {
	RootAssetId uuid.UUID             `json:"root_asset_id"`
	Nodes       []LineageNodeResponse `json:"nodes"`
	Edges       []LineageEdgeResponse `json:"edges"`
}
