package specification

import (
	"catalog-console-be/internal/constant"

	"gorm.io/gorm"
)

// KeywordSearch matches assets whose name or description contains every
// given word (case-insensitive). Words already dropped by the stop list
// must be filtered out before building this spec.
type KeywordSearch struct {
	Words []string
}

func (s KeywordSearch) Apply(db *gorm.DB) *gorm.DB {
	for _, w := range s.Words {
		pattern := "%" + w + "%"
		db = db.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return db
}

// ByAssetType filters to a single asset type. The "all" tab applies no filter.
type ByAssetType struct {
	AssetType string
}

func (s ByAssetType) Apply(db *gorm.DB) *gorm.DB {
	if s.AssetType == "" || s.AssetType == constant.AssetTypeAll {
		return db
	}
	return db.Where("asset_type = ?", s.AssetType)
}

// ByDataVersion pins results to one catalog snapshot version.
type ByDataVersion struct {
	DataVersion string
}

func (s ByDataVersion) Apply(db *gorm.DB) *gorm.DB {
	if s.DataVersion == "" {
		return db
	}
	return db.Where("data_version = ?", s.DataVersion)
}

// ByField filters on an arbitrary structured facet column (owner, department).
type ByField struct {
	Field string
	Value string
}

func (s ByField) Apply(db *gorm.DB) *gorm.DB {
	if s.Value == "" {
		return db
	}
	return db.Where(s.Field+" = ?", s.Value)
}
