package service

import (
	"context"
	"errors"
	"time"

	"catalog-console-be/internal/constant"
	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/pkg/logger"
	"catalog-console-be/internal/pkg/mailer"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/events"
	pktNats "catalog-console-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrIssueNotFound = errors.New("quality issue not found")

type IQualityService interface {
	LatestReport(ctx context.Context, assetId uuid.UUID) (*dto.QualityReportResponse, error)
	ListIssues(ctx context.Context, status string) ([]*dto.QualityIssueResponse, error)
	Remediate(ctx context.Context, issueId uuid.UUID, req *dto.RemediateIssueRequest) (*dto.QualityIssueResponse, error)
	Resolve(ctx context.Context, issueId uuid.UUID) (*dto.QualityIssueResponse, error)
}

type qualityService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewQualityService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IQualityService {
	return &qualityService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *qualityService) LatestReport(ctx context.Context, assetId uuid.UUID) (*dto.QualityReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	report, err := uow.QualityReportRepository().FindLatestByAssetId(ctx, assetId)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, nil
	}
	return &dto.QualityReportResponse{
		Id:          report.Id,
		AssetId:     report.AssetId,
		Score:       report.Score,
		Dimensions:  report.Dimensions,
		GeneratedAt: report.GeneratedAt,
	}, nil
}

func (s *qualityService) ListIssues(ctx context.Context, status string) ([]*dto.QualityIssueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issues, err := uow.QualityIssueRepository().FindAll(ctx,
		specification.ByIssueStatus{Status: status},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.QualityIssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issueToDto(issue))
	}
	return out, nil
}

// Remediate assigns an open issue to a steward: status moves to
// acknowledged, the assignee is emailed, and a remediation event goes out
// on the governance bus for the live notification feed.
func (s *qualityService) Remediate(ctx context.Context, issueId uuid.UUID, req *dto.RemediateIssueRequest) (*dto.QualityIssueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issue, err := uow.QualityIssueRepository().FindOne(ctx, specification.ByID{ID: issueId})
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}

	asset, err := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: issue.AssetId})
	if err != nil {
		return nil, err
	}
	assetName := issue.AssetId.String()
	if asset != nil {
		assetName = asset.Name
	}

	issue.Status = constant.IssueStatusAcknowledged
	issue.AssigneeEmail = req.AssigneeEmail
	if err := uow.QualityIssueRepository().Update(ctx, issue); err != nil {
		return nil, err
	}

	// Email delivery is best effort; the assignment already stands.
	if s.emailService != nil {
		if err := s.emailService.SendRemediationAssignment(req.AssigneeEmail, assetName, issue.Dimension, req.Note); err != nil {
			s.logger.Warn("QualityService", "Assignment email failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeQualityRemediation,
			Data: map[string]interface{}{
				"issue_id":       issue.Id,
				"asset_id":       issue.AssetId,
				"asset_name":     assetName,
				"dimension":      issue.Dimension,
				"assignee_email": req.AssigneeEmail,
				"note":           req.Note,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("QualityService", "Failed to publish remediation event", map[string]interface{}{"error": err.Error()})
		}
	}

	return issueToDto(issue), nil
}

func (s *qualityService) Resolve(ctx context.Context, issueId uuid.UUID) (*dto.QualityIssueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issue, err := uow.QualityIssueRepository().FindOne(ctx, specification.ByID{ID: issueId})
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}

	now := time.Now()
	issue.Status = constant.IssueStatusResolved
	issue.ResolvedAt = &now
	if err := uow.QualityIssueRepository().Update(ctx, issue); err != nil {
		return nil, err
	}

	if s.emailService != nil && issue.AssigneeEmail != "" {
		asset, _ := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: issue.AssetId})
		assetName := issue.AssetId.String()
		if asset != nil {
			assetName = asset.Name
		}
		if err := s.emailService.SendIssueResolved(issue.AssigneeEmail, assetName, issue.Dimension); err != nil {
			s.logger.Warn("QualityService", "Resolution email failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return issueToDto(issue), nil
}

func issueToDto(i *entity.QualityIssue) *dto.QualityIssueResponse {
	return &dto.QualityIssueResponse{
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
