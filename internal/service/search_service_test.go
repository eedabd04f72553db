package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/contract"
	"catalog-console-be/internal/repository/memory"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/participle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeAssetRepo filters an in-memory asset list by interpreting the same
// specifications the real repository would translate to SQL.
type fakeAssetRepo struct {
	assets []*entity.Asset
	calls  int
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *entity.Asset) error { return nil }
func (f *fakeAssetRepo) Update(ctx context.Context, asset *entity.Asset) error { return nil }
func (f *fakeAssetRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *fakeAssetRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error) {
	return nil, nil
}

func (f *fakeAssetRepo) matches(a *entity.Asset, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.KeywordSearch:
			for _, w := range sp.Words {
				lw := strings.ToLower(w)
				if !strings.Contains(strings.ToLower(a.Name), lw) &&
					!strings.Contains(strings.ToLower(a.Description), lw) {
					return false
				}
			}
		case specification.ByAssetType:
			if sp.AssetType != "" && sp.AssetType != "all" && a.AssetType != sp.AssetType {
				return false
			}
		case specification.ByField:
			switch sp.Field {
			case "owner":
				if a.Owner != sp.Value {
					return false
				}
			case "department":
				if a.Department != sp.Value {
					return false
				}
			}
		}
	}
	return true
}

func (f *fakeAssetRepo) filtered(specs []specification.Specification) []*entity.Asset {
	var out []*entity.Asset
	for _, a := range f.assets {
		if f.matches(a, specs) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeAssetRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error) {
	f.calls++
	out := f.filtered(specs)

	limit, offset := 0, 0
	for _, s := range specs {
		if p, ok := s.(specification.Pagination); ok {
			limit, offset = p.Limit, p.Offset
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAssetRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.filtered(specs))), nil
}

func (f *fakeAssetRepo) CountGroupedBy(ctx context.Context, column string, specs ...specification.Specification) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, a := range f.filtered(specs) {
		switch column {
		case "asset_type":
			counts[a.AssetType]++
		case "department":
			if a.Department != "" {
				counts[a.Department]++
			}
		}
	}
	return counts, nil
}

type fakeEmbeddingRepo struct{}

func (fakeEmbeddingRepo) Upsert(ctx context.Context, e *entity.AssetEmbedding) error { return nil }
func (fakeEmbeddingRepo) DeleteByAssetId(ctx context.Context, id uuid.UUID) error    { return nil }
func (fakeEmbeddingRepo) FindByAssetId(ctx context.Context, id uuid.UUID) (*entity.AssetEmbedding, error) {
	return nil, nil
}
func (fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredAssetEmbedding, error) {
	return nil, nil
}

type fakeUow struct {
	assets *fakeAssetRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }

func (f *fakeUow) UserRepository() contract.UserRepository                 { return nil }
func (f *fakeUow) RefreshTokenRepository() contract.RefreshTokenRepository { return nil }
func (f *fakeUow) AssetRepository() contract.AssetRepository               { return f.assets }
func (f *fakeUow) AssetEmbeddingRepository() contract.AssetEmbeddingRepository {
	return fakeEmbeddingRepo{}
}
func (f *fakeUow) LineageRepository() contract.LineageRepository             { return nil }
func (f *fakeUow) QaSessionRepository() contract.QaSessionRepository         { return nil }
func (f *fakeUow) QaTurnRepository() contract.QaTurnRepository               { return nil }
func (f *fakeUow) QaCitationRepository() contract.QaCitationRepository       { return nil }
func (f *fakeUow) QualityReportRepository() contract.QualityReportRepository { return nil }
func (f *fakeUow) QualityIssueRepository() contract.QualityIssueRepository   { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func seedAsset(name, assetType, department, description string) *entity.Asset {
	return &entity.Asset{
		Id:          uuid.New(),
		Name:        name,
		AssetType:   assetType,
		Department:  department,
		Description: description,
	}
}

func newSearchFixture(assets ...*entity.Asset) (ISearchService, *fakeAssetRepo) {
	repo := &fakeAssetRepo{assets: assets}
	factory := &fakeUowFactory{uow: &fakeUow{assets: repo}}
	cutter := participle.NewCutter(
		[]string{"catalog", "indicator"},
		[]string{"department"},
	)
	svc := NewSearchService(factory, memory.NewSearchStateRepository(), cutter, nil, 2, nopLogger{})
	return svc, repo
}

func TestSearchQueryReturnsPageAndFacets(t *testing.T) {
	svc, _ := newSearchFixture(
		seedAsset("order_facts", "catalog", "sales", "order line items"),
		seedAsset("order_summary", "catalog", "sales", "aggregated orders"),
		seedAsset("order_api", "interface_service", "platform", "order lookup service"),
	)
	userId := uuid.New()

	res, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: "order"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.TotalCount)
	assert.Len(t, res.Entries, 2, "page size caps the first page")
	assert.True(t, res.HasMore)
	assert.Equal(t, "2", res.NextPageToken)

	require.Len(t, res.QueryCuts, 1)
	assert.Equal(t, "order", res.QueryCuts[0].Word)

	// Fresh search carries facet aggregations.
	require.Len(t, res.Facets.Objects, 2)
	assert.Equal(t, "catalog", res.Facets.Objects[0].Name)
	assert.Equal(t, 2, res.Facets.Objects[0].Count)
	require.NotEmpty(t, res.Facets.Dimensions)
}

func TestSearchEmptyKeywordIdles(t *testing.T) {
	svc, repo := newSearchFixture(seedAsset("order_facts", "catalog", "sales", ""))
	userId := uuid.New()

	res, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: ""})
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.TotalCount)
	assert.Zero(t, repo.calls, "idle submit issues no catalog query")
}

func TestSearchLoadMoreContinues(t *testing.T) {
	svc, _ := newSearchFixture(
		seedAsset("a_orders", "catalog", "sales", ""),
		seedAsset("b_orders", "catalog", "sales", ""),
		seedAsset("c_orders", "catalog", "sales", ""),
	)
	userId := uuid.New()

	first, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: "orders"})
	require.NoError(t, err)
	require.True(t, first.HasMore)

	more, err := svc.LoadMore(context.Background(), userId, &dto.SearchMoreRequest{NextPageToken: first.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, more.Entries, 1)
	assert.False(t, more.HasMore)

	// Fully loaded: another continuation is a no-op, not an error.
	again, err := svc.LoadMore(context.Background(), userId, &dto.SearchMoreRequest{NextPageToken: "2"})
	require.NoError(t, err)
	assert.Empty(t, again.Entries)
	assert.False(t, again.HasMore)
}

func TestSearchLoadMoreWithoutSession(t *testing.T) {
	svc, _ := newSearchFixture()

	_, err := svc.LoadMore(context.Background(), uuid.New(), &dto.SearchMoreRequest{NextPageToken: "2"})
	assert.Error(t, err)
}

func TestSearchStopWordsNarrowQuery(t *testing.T) {
	svc, _ := newSearchFixture(
		seedAsset("customer_orders", "catalog", "sales", ""),
		seedAsset("customer_profile", "catalog", "crm", ""),
	)
	userId := uuid.New()

	first, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: "customer orders"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalCount, "both words must match")

	// Excluding "orders" re-runs the derived query with the remaining words.
	second, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{
		Keyword:         "customer orders",
		StopEntityInfos: []string{"orders"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.TotalCount)
}

func TestSearchTabSwitchFiltersAndFlagsQaReset(t *testing.T) {
	svc, _ := newSearchFixture(
		seedAsset("revenue_mart", "catalog", "finance", ""),
		seedAsset("revenue_kpi", "indicator", "finance", ""),
	)
	userId := uuid.New()

	first, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: "revenue", AssetType: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.TotalCount)
	assert.False(t, first.ResetQa)

	second, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: "revenue", AssetType: "indicator"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.TotalCount)
	assert.True(t, second.ResetQa, "tab switch tears down the QA session")
	assert.Equal(t, "revenue_kpi", second.Entries[0].Name)
}

func TestSearchStructuredFiltersRefine(t *testing.T) {
	svc, _ := newSearchFixture(
		seedAsset("orders_sales", "catalog", "sales", "orders"),
		seedAsset("orders_crm", "catalog", "crm", "orders"),
	)
	userId := uuid.New()

	_, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{Keyword: "orders"})
	require.NoError(t, err)

	res, err := svc.Query(context.Background(), userId, &dto.SearchQueryRequest{
		Keyword:      "orders",
		ExtraFilters: map[string]string{"department": "crm", "drop_table": "users"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount, "unknown filter columns are ignored")
	assert.Equal(t, "orders_crm", res.Entries[0].Name)
}
