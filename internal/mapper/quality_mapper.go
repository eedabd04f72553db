package mapper

import (
	"encoding/json"

	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/model"

	"gorm.io/datatypes"
)

type QualityMapper struct{}

func NewQualityMapper() *QualityMapper {
	return &QualityMapper{}
}

func (m *QualityMapper) ReportToEntity(r *model.QualityReport) *entity.QualityReport {
	if r == nil {
		return nil
	}

	dims := map[string]float64{}
	if len(r.Dimensions) > 0 {
		// Malformed rows degrade to an empty dimension map rather than failing the read.
		_ = json.Unmarshal(r.Dimensions, &dims)
	}

	return &entity.QualityReport{
		Id:          r.Id,
		AssetId:     r.AssetId,
		Score:       r.Score,
		Dimensions:  dims,
		GeneratedAt: r.GeneratedAt,
	}
}

func (m *QualityMapper) ReportToModel(r *entity.QualityReport) *model.QualityReport {
	if r == nil {
		return nil
	}

	var dims datatypes.JSON
	if r.Dimensions != nil {
		raw, err := json.Marshal(r.Dimensions)
		if err == nil {
			dims = datatypes.JSON(raw)
		}
	}

	return &model.QualityReport{
		Id:          r.Id,
		AssetId:     r.AssetId,
		Score:       r.Score,
		Dimensions:  dims,
		GeneratedAt: r.GeneratedAt,
	}
}

func (m *QualityMapper) IssueToEntity(i *model.QualityIssue) *entity.QualityIssue {
	if i == nil {
		return nil
	}

	return &entity.QualityIssue{
		Id:            i.Id,
		AssetId:       i.AssetId,
		ReportId:      i.ReportId,
		Dimension:     i.Dimension,
		Severity:      i.Severity,
		Description:   i.Description,
		Status:        i.Status,
		AssigneeEmail: i.AssigneeEmail,
		CreatedAt:     i.CreatedAt,
		ResolvedAt:    i.ResolvedAt,
	}
}

func (m *QualityMapper) IssueToModel(i *entity.QualityIssue) *model.QualityIssue {
	if i == nil {
		return nil
	}

	return &model.QualityIssue{
		Id:            i.Id,
		AssetId:       i.AssetId,
		ReportId:      i.ReportId,
		Dimension:     i.Dimension,
		Severity:      i.Severity,
		Description:   i.Description,
		Status:        i.Status,
		AssigneeEmail: i.AssigneeEmail,
		CreatedAt:     i.CreatedAt,
		ResolvedAt:    i.ResolvedAt,
	}
}

func (m *QualityMapper) IssuesToEntities(models []*model.QualityIssue) []*entity.QualityIssue {
	entities := make([]*entity.QualityIssue, 0, len(models))
	for _, i := range models {
		entities = append(entities, m.IssueToEntity(i))
	}
	return entities
}
