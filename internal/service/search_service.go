package service

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/pkg/logger"
	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/memory"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/embedding"
	"catalog-console-be/pkg/participle"
	"catalog-console-be/pkg/searchsession"

	"github.com/google/uuid"
)

// ErrSuperseded signals that a newer query was issued while this one was
// executing; its response must not reach the client as current state.
var ErrSuperseded = errors.New("search request superseded by a newer query")

// Facet columns the console may filter on via extra_filters.
var allowedFilterColumns = map[string]string{
	"owner":      "owner",
	"department": "department",
}

type ISearchService interface {
	Query(ctx context.Context, userId uuid.UUID, req *dto.SearchQueryRequest) (*dto.SearchQueryResponse, error)
	LoadMore(ctx context.Context, userId uuid.UUID, req *dto.SearchMoreRequest) (*dto.SearchMoreResponse, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	stateRepo         *memory.SearchStateRepository
	cutter            *participle.Cutter
	embeddingProvider embedding.EmbeddingProvider
	pageSize          int
	logger            logger.ILogger
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	stateRepo *memory.SearchStateRepository,
	cutter *participle.Cutter,
	embeddingProvider embedding.EmbeddingProvider,
	pageSize int,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		uowFactory:        uowFactory,
		stateRepo:         stateRepo,
		cutter:            cutter,
		embeddingProvider: embeddingProvider,
		pageSize:          pageSize,
		logger:            log,
	}
}

func (s *searchService) controllerFor(userId uuid.UUID, assetType string) *searchsession.Controller {
	key := userId.String()
	if ctrl, found := s.stateRepo.Get(key); found {
		return ctrl
	}
	ctrl := searchsession.NewController(assetType, s.pageSize)
	s.stateRepo.Save(key, ctrl)
	return ctrl
}

func (s *searchService) Query(ctx context.Context, userId uuid.UUID, req *dto.SearchQueryRequest) (*dto.SearchQueryResponse, error) {
	ctrl := s.controllerFor(userId, req.AssetType)
	snapshot := ctrl.Snapshot()

	// 1. Fold the request into the session. Each setter derives a new
	// canonical query; only the last issued plan survives.
	resetQa := false
	var plan *searchsession.Plan

	if req.AssetType != "" && req.AssetType != snapshot.AssetType {
		if p := ctrl.SetAssetTypeTab(req.AssetType); p != nil {
			plan = p
			resetQa = resetQa || p.ResetQa
		}
	}
	if req.StopEntityInfos != nil {
		words := make([]searchsession.DimFilter, 0, len(req.StopEntityInfos))
		for _, w := range req.StopEntityInfos {
			words = append(words, searchsession.DimFilter{Word: w})
		}
		if p := ctrl.SetStopWords(words); p != nil {
			plan = p
		}
	}
	if req.ExtraFilters != nil {
		filters := make(map[string]interface{}, len(req.ExtraFilters))
		for k, v := range req.ExtraFilters {
			filters[k] = v
		}
		if p := ctrl.SetStructuredFilters(filters); p != nil {
			plan = p
		}
	}
	if p := ctrl.SetKeyword(req.Keyword); p != nil {
		plan = p
		resetQa = resetQa || p.ResetQa
	}

	if plan == nil {
		// Empty keyword cleared the session back to idle.
		return &dto.SearchQueryResponse{
			Entries: []dto.SearchEntryResponse{},
			Facets:  dto.SearchFacetsResponse{Objects: []dto.FacetItemResponse{}, Dimensions: []dto.FacetItemResponse{}},
			ResetQa: resetQa,
		}, nil
	}

	// 2. Execute against the catalog.
	page, err := s.executePlan(ctx, ctrl, plan)
	if err != nil {
		ctrl.Fail(plan)
		return nil, err
	}

	// 3. Merge; a stale response never reaches the client as current state.
	if !ctrl.Apply(plan, *page) {
		return nil, ErrSuperseded
	}

	resp := &dto.SearchQueryResponse{
		Entries:       entriesToDto(page.Entries),
		TotalCount:    int64(page.TotalCount),
		NextPageToken: page.NextPageToken,
		HasMore:       page.NextPageToken != "",
		QueryCuts:     cutsToDto(page.QueryCuts),
		Facets:        facetsToDto(page.Facets),
		ResetQa:       resetQa || plan.ResetQa,
	}
	return resp, nil
}

func (s *searchService) LoadMore(ctx context.Context, userId uuid.UUID, req *dto.SearchMoreRequest) (*dto.SearchMoreResponse, error) {
	key := userId.String()
	ctrl, found := s.stateRepo.Get(key)
	if !found {
		return nil, errors.New("no active search session")
	}

	plan := ctrl.LoadMore()
	if plan == nil {
		// Nothing to continue: already complete, idle, or a request is
		// still in flight. Report current reach without issuing a query.
		snapshot := ctrl.Snapshot()
		return &dto.SearchMoreResponse{
			Entries:       []dto.SearchEntryResponse{},
			TotalCount:    int64(snapshot.TotalCount),
			NextPageToken: snapshot.NextPageToken,
			HasMore:       snapshot.NextPageToken != "",
		}, nil
	}

	page, err := s.executePlan(ctx, ctrl, plan)
	if err != nil {
		ctrl.Fail(plan)
		return nil, err
	}

	if !ctrl.Apply(plan, *page) {
		return nil, ErrSuperseded
	}

	return &dto.SearchMoreResponse{
		Entries:       entriesToDto(page.Entries),
		TotalCount:    int64(page.TotalCount),
		NextPageToken: page.NextPageToken,
		HasMore:       page.NextPageToken != "",
	}, nil
}

// executePlan runs one derived query against the catalog: keyword match for
// recall, vector similarity for ranking, grouped counts for the facet panel.
func (s *searchService) executePlan(parent context.Context, ctrl *searchsession.Controller, plan *searchsession.Plan) (*searchsession.Result, error) {
	ctx := ctrl.Begin(parent, plan)

	q := plan.Query
	tokens := s.cutter.Cut(q.Keyword)
	stopWords := make([]string, 0, len(q.StopEntityInfos))
	for _, sw := range q.StopEntityInfos {
		stopWords = append(stopWords, sw.Word)
	}
	remaining := participle.Remaining(tokens, stopWords)

	words := []string{}
	if remaining != "" {
		for _, t := range s.cutter.Cut(remaining) {
			words = append(words, t.Word)
		}
	}

	specs := []specification.Specification{
		specification.KeywordSearch{Words: words},
		specification.ByAssetType{AssetType: q.AssetType},
	}
	for key, val := range q.ExtraFilters {
		col, ok := allowedFilterColumns[key]
		if !ok {
			continue
		}
		if sv, ok := val.(string); ok {
			specs = append(specs, specification.ByField{Field: col, Value: sv})
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	assetRepo := uow.AssetRepository()

	total, err := assetRepo.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	offset := 0
	if plan.LoadType == searchsession.LoadMore && q.NextPageToken != "" {
		offset, err = strconv.Atoi(q.NextPageToken)
		if err != nil {
			return nil, errors.New("malformed page token")
		}
	}

	pageSpecs := append(append([]specification.Specification{}, specs...),
		specification.OrderBy{Field: "name"},
		specification.Pagination{Limit: q.PageSize, Offset: offset},
	)
	assets, err := assetRepo.FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	// Vector ranking is best effort: a missing embedding provider or an
	// engine hiccup degrades to lexical order, it never fails the search.
	scores := s.similarityScores(ctx, uow, remaining)

	entries := make([]searchsession.Entry, 0, len(assets))
	for _, a := range assets {
		entries = append(entries, searchsession.Entry{
			ID:          a.Id.String(),
			Name:        a.Name,
			AssetType:   a.AssetType,
			Description: a.Description,
			Score:       scores[a.Id.String()],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	nextToken := ""
	if offset+len(entries) < int(total) {
		nextToken = strconv.Itoa(offset + len(entries))
	}

	result := &searchsession.Result{
		Entries:       entries,
		TotalCount:    int(total),
		NextPageToken: nextToken,
		QueryCuts:     tokens,
	}

	if plan.Fresh {
		facets, err := s.buildFacets(ctx, assetRepo, words, q.AssetType)
		if err != nil {
			s.logger.Warn("SearchService", "Facet aggregation failed", map[string]interface{}{"error": err.Error()})
		} else {
			result.Facets = facets
		}
	}

	return result, nil
}

func (s *searchService) similarityScores(ctx context.Context, uow unitofwork.UnitOfWork, query string) map[string]float32 {
	scores := map[string]float32{}
	if s.embeddingProvider == nil || query == "" {
		return scores
	}

	res, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		s.logger.Warn("SearchService", "Query embedding failed", map[string]interface{}{"error": err.Error()})
		return scores
	}

	scored, err := uow.AssetEmbeddingRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, 100, 0.3)
	if err != nil {
		s.logger.Warn("SearchService", "Similarity search failed", map[string]interface{}{"error": err.Error()})
		return scores
	}

	for _, sc := range scored {
		scores[sc.Embedding.AssetId.String()] = float32(sc.Similarity)
	}
	return scores
}

// buildFacets aggregates the matching rows by asset type (objects panel) and
// department (dimensions panel). Asset type counts ignore the active tab so
// the panel shows where else the keyword hits.
func (s *searchService) buildFacets(ctx context.Context, repo contract.AssetRepository, words []string, assetType string) (searchsession.Facets, error) {
	objectCounts, err := repo.CountGroupedBy(ctx, "asset_type", specification.KeywordSearch{Words: words})
	if err != nil {
		return searchsession.Facets{}, err
	}
	dimensionCounts, err := repo.CountGroupedBy(ctx, "department",
		specification.KeywordSearch{Words: words},
		specification.ByAssetType{AssetType: assetType},
	)
	if err != nil {
		return searchsession.Facets{}, err
	}

	return searchsession.Facets{
		Objects:    countsToFacetItems(objectCounts),
		Dimensions: countsToFacetItems(dimensionCounts),
	}, nil
}

func countsToFacetItems(counts map[string]int64) []searchsession.FacetItem {
	items := make([]searchsession.FacetItem, 0, len(counts))
	for name, count := range counts {
		items = append(items, searchsession.FacetItem{Name: name, Count: int(count)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	return items
}

func entriesToDto(entries []searchsession.Entry) []dto.SearchEntryResponse {
	out := make([]dto.SearchEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.SearchEntryResponse{
			Id:          e.ID,
			Name:        e.Name,
			AssetType:   e.AssetType,
			Description: e.Description,
			Score:       float64(e.Score),
		})
	}
	return out
}

func cutsToDto(tokens []participle.Token) []dto.QueryCutResponse {
	out := make([]dto.QueryCutResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, dto.QueryCutResponse{Word: t.Word, Kind: string(t.Kind)})
	}
	return out
}

func facetsToDto(f searchsession.Facets) dto.SearchFacetsResponse {
	resp := dto.SearchFacetsResponse{
		Objects:    make([]dto.FacetItemResponse, 0, len(f.Objects)),
		Dimensions: make([]dto.FacetItemResponse, 0, len(f.Dimensions)),
	}
	for _, item := range f.Objects {
		resp.Objects = append(resp.Objects, dto.FacetItemResponse{Name: item.Name, Count: item.Count})
	}
	for _, item := range f.Dimensions {
		resp.Dimensions = append(resp.Dimensions, dto.FacetItemResponse{Name: item.Name, Count: item.Count})
	}
	return resp
}
