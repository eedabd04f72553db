package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/pkg/logger"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/events"
	pktNats "catalog-console-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrAssetNotFound = errors.New("asset not found")

// Lineage traversal stops after this many hops from the root.
const lineageMaxDepth = 5

type IAssetService interface {
	Create(ctx context.Context, req *dto.CreateAssetRequest) (*dto.AssetResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetById(ctx context.Context, id uuid.UUID) (*dto.AssetResponse, error)
	Lineage(ctx context.Context, id uuid.UUID) (*dto.LineageGraphResponse, error)
}

type assetService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewAssetService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAssetService {
	return &assetService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *assetService) Create(ctx context.Context, req *dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	asset := &entity.Asset{
		Id:          uuid.New(),
		Name:        req.Name,
		AssetType:   req.AssetType,
		Description: req.Description,
		Owner:       req.Owner,
		Department:  req.Department,
		DataVersion: req.DataVersion,
		CreatedAt:   time.Now(),
	}
	if err := uow.AssetRepository().Create(ctx, asset); err != nil {
		return nil, err
	}

	if err := s.queueEmbedding(ctx, asset.Id); err != nil {
		return nil, err
	}

	return assetToDto(asset), nil
}

func (s *assetService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	asset, err := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}

	if req.Name != "" {
		asset.Name = req.Name
	}
	if req.Description != "" {
		asset.Description = req.Description
	}
	if req.Owner != "" {
		asset.Owner = req.Owner
	}
	if req.Department != "" {
		asset.Department = req.Department
	}

	if err := uow.AssetRepository().Update(ctx, asset); err != nil {
		return nil, err
	}

	if err := s.queueEmbedding(ctx, asset.Id); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeAssetUpdated,
			Data: map[string]interface{}{
				"asset_id":   asset.Id,
				"asset_name": asset.Name,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("AssetService", "Failed to publish asset update event", map[string]interface{}{"error": err.Error()})
		}
	}

	return assetToDto(asset), nil
}

func (s *assetService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	asset, err := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if asset == nil {
		return ErrAssetNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.AssetRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.AssetEmbeddingRepository().DeleteByAssetId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *assetService) GetById(ctx context.Context, id uuid.UUID) (*dto.AssetResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	asset, err := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}
	return assetToDto(asset), nil
}

// Lineage walks the edge graph breadth-first in both directions from the
// root, bounded by lineageMaxDepth.
func (s *assetService) Lineage(ctx context.Context, id uuid.UUID) (*dto.LineageGraphResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	root, err := uow.AssetRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrAssetNotFound
	}

	visited := map[uuid.UUID]int{id: 0}
	frontier := []uuid.UUID{id}
	var allEdges []*entity.LineageEdge
	seenEdges := map[uuid.UUID]bool{}

	for depth := 1; depth <= lineageMaxDepth && len(frontier) > 0; depth++ {
		var next []uuid.UUID
		for _, nodeId := range frontier {
			edges, err := uow.LineageRepository().FindTouching(ctx, nodeId)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				if !seenEdges[e.Id] {
					seenEdges[e.Id] = true
					allEdges = append(allEdges, e)
				}
				for _, neighbor := range []uuid.UUID{e.SourceAssetId, e.TargetAssetId} {
					if _, ok := visited[neighbor]; !ok {
						visited[neighbor] = depth
						next = append(next, neighbor)
					}
				}
			}
		}
		frontier = next
	}

	ids := make([]uuid.UUID, 0, len(visited))
	for nodeId := range visited {
		ids = append(ids, nodeId)
	}
	assets, err := uow.AssetRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	resp := &dto.LineageGraphResponse{
		RootAssetId: id,
		Nodes:       make([]dto.LineageNodeResponse, 0, len(assets)),
		Edges:       make([]dto.LineageEdgeResponse, 0, len(allEdges)),
	}
	for _, a := range assets {
		resp.Nodes = append(resp.Nodes, dto.LineageNodeResponse{
			AssetId:   a.Id,
			Name:      a.Name,
			AssetType: a.AssetType,
			Depth:     visited[a.Id],
		})
	}
	for _, e := range allEdges {
		resp.Edges = append(resp.Edges, dto.LineageEdgeResponse{
			SourceAssetId: e.SourceAssetId,
			TargetAssetId: e.TargetAssetId,
			Relation:      e.Relation,
		})
	}
	return resp, nil
}

func (s *assetService) queueEmbedding(ctx context.Context, assetId uuid.UUID) error {
	payload := dto.PublishEmbedAssetMessage{AssetId: assetId}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payloadJson)
}

func assetToDto(a *entity.Asset) *dto.AssetResponse {
	return &dto.AssetResponse{
		Id:          a.Id,
		Name:        a.Name,
		AssetType:   a.AssetType,
		Description: a.Description,
		Owner:       a.Owner,
		Department:  a.Department,
		DataVersion: a.DataVersion,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
