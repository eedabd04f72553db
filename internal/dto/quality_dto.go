package dto

import (
	"time"

	"github.com/google/uuid"
)

type QualityReportResponse struct {
	Id          uuid.UUID          `json:"id"`
	AssetId     uuid.UUID          `json:"asset_id"`
	Score       float64            `json:"score"`
	Dimensions  map[string]float64 `json:"dimensions"`
	GeneratedAt time.Time          `json:"generated_at"`
}

type QualityIssueResponse struct {
	Id            uuid.UUID  `json:"id"`
	AssetId       uuid.UUID  `json:"asset_id"`
	ReportId      uuid.UUID  `json:"report_id"`
	Dimension     string     `json:"dimension"`
	Severity      string     `json:"severity"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	AssigneeEmail string     `json:"assignee_email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

type RemediateIssueRequest struct {
	AssigneeEmail string `json:"assignee_email" validate:"required,email"`
	Note          string `json:"note"`
}

type RemediationNotification struct {
	IssueId       uuid.UUID `json:"issue_id"`
	AssetId       uuid.UUID `json:"asset_id"`
	AssetName     string    `json:"asset_name"`
	Dimension     string    `json:"dimension"`
	AssigneeEmail string    `json:"assignee_email"`
	Note          string    `json:"note,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
