package searchsession

import (
	"context"
	"strings"
	"sync"

	"catalog-console-be/pkg/participle"
)

// LoadType distinguishes a fresh page request from a continuation.
type LoadType string

const (
	LoadInit LoadType = "init"
	LoadMore LoadType = "more"
)

// DimFilter is one excluded token (object-type or dimension-type) from the
// left-hand stop-word/entity filter.
type DimFilter struct {
	Word string `json:"word"`
	Kind string `json:"kind"`
}

// Entry is one search hit as held by the session.
type Entry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AssetType   string  `json:"asset_type"`
	Description string  `json:"description"`
	Score       float32 `json:"score"`
}

// FacetItem is a structured filter value derived from the current result set.
type FacetItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Facets struct {
	Objects    []FacetItem `json:"objects"`
	Dimensions []FacetItem `json:"dimensions"`
}

// Query is the canonical search query derived from the session inputs.
// It is recomputed whenever any constituent changes; it is never mutated
// after being handed out in a Plan.
type Query struct {
	Keyword         string
	StopEntityInfos []DimFilter
	AssetType       string
	PageSize        int
	ExtraFilters    map[string]interface{}
	NextPageToken   string
}

// Plan is one executable search request. Signature is monotonically
// increasing; a response is only applied while its plan is still the
// controller's newest issued plan (last-issued-wins).
type Plan struct {
	Query     Query
	Signature uint64
	LoadType  LoadType

	// Fresh marks a meaningful new search: queryCuts and facets in the
	// response overwrite session state.
	Fresh bool

	// ResetQa tells the caller to tear down any active QA session.
	ResetQa bool
}

// Result is one page returned by the search backend.
type Result struct {
	Entries       []Entry
	TotalCount    int
	NextPageToken string
	QueryCuts     []participle.Token
	Facets        Facets
}

// State is a read-only snapshot of the session for the view layer.
type State struct {
	Idle          bool
	Keyword       string
	AssetType     string
	Entries       []Entry
	TotalCount    int
	NextPageToken string
	QueryCuts     []participle.Token
	Facets        Facets
	StopWords     []DimFilter
}

// Controller owns the canonical query derived from keyword, asset-type tab,
// structured filters and stop words, and reconciles paginated responses.
// All mutation goes through its operations; it is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	pageSize     int
	keyword      string // last submitted keyword
	assetType    string
	extraFilters map[string]interface{}
	stopWords    []DimFilter

	nextSig    uint64 // last issued plan signature
	currentSig uint64 // authoritative plan signature

	inflightSig    uint64
	inflightCancel context.CancelFunc

	idle          bool
	entries       []Entry
	totalCount    int
	nextPageToken string
	queryCuts     []participle.Token
	facets        Facets
}

func NewController(assetType string, pageSize int) *Controller {
	return &Controller{
		pageSize:     pageSize,
		assetType:    assetType,
		extraFilters: map[string]interface{}{},
		idle:         true,
	}
}

// SetKeyword submits a keyword. An empty keyword clears results and returns
// to the idle display state without issuing a request (nil plan). A keyword
// different from the previously submitted one is a fresh search: pagination
// token, stop words and facet selections reset. An identical keyword is a
// refinement and keeps them.
func (c *Controller) SetKeyword(k string) *Plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	k = strings.TrimSpace(k)
	if k == "" {
		c.cancelInflightLocked()
		c.keyword = ""
		c.idle = true
		c.entries = nil
		c.totalCount = 0
		c.nextPageToken = ""
		c.queryCuts = nil
		c.facets = Facets{}
		return nil
	}

	fresh := k != c.keyword
	c.keyword = k
	c.idle = false
	if fresh {
		c.nextPageToken = ""
		c.stopWords = nil
		c.extraFilters = map[string]interface{}{}
	}

	return c.issueLocked(LoadInit, fresh, false)
}

// SetAssetTypeTab switches the asset-type tab. Always a fresh search: filters,
// facets, stop words and any active QA session reset.
func (c *Controller) SetAssetTypeTab(assetType string) *Plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.assetType = assetType
	c.extraFilters = map[string]interface{}{}
	c.stopWords = nil
	c.nextPageToken = ""
	c.facets = Facets{}

	if c.idle {
		// No active search; nothing to re-issue but QA still resets.
		c.cancelInflightLocked()
		return &Plan{ResetQa: true}
	}

	plan := c.issueLocked(LoadInit, true, true)
	return plan
}

// SetStructuredFilters applies right-hand facet filters. Refinement: only the
// pagination token resets.
func (c *Controller) SetStructuredFilters(filters map[string]interface{}) *Plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	if filters == nil {
		filters = map[string]interface{}{}
	}
	c.extraFilters = filters
	c.nextPageToken = ""

	if c.idle {
		return nil
	}
	return c.issueLocked(LoadInit, false, false)
}

// SetStopWords applies the excluded-token set. Refinement semantics, same as
// structured filters.
func (c *Controller) SetStopWords(words []DimFilter) *Plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopWords = words
	c.nextPageToken = ""

	if c.idle {
		return nil
	}
	return c.issueLocked(LoadInit, false, false)
}

// LoadMore continues pagination. No-op (nil) when idle, when no continuation
// token is present, when all entries are already loaded, or while a request
// for the current query is still in flight.
func (c *Controller) LoadMore() *Plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idle || c.nextPageToken == "" {
		return nil
	}
	if len(c.entries) >= c.totalCount {
		return nil
	}
	if c.inflightCancel != nil {
		return nil
	}

	return c.issueLocked(LoadMore, false, false)
}

// issueLocked mints the next plan and supersedes any in-flight request.
func (c *Controller) issueLocked(loadType LoadType, fresh, resetQa bool) *Plan {
	c.cancelInflightLocked()

	c.nextSig++
	c.currentSig = c.nextSig

	q := Query{
		Keyword:         c.keyword,
		StopEntityInfos: append([]DimFilter(nil), c.stopWords...),
		AssetType:       c.assetType,
		PageSize:        c.pageSize,
		ExtraFilters:    copyFilters(c.extraFilters),
	}
	if loadType == LoadMore {
		q.NextPageToken = c.nextPageToken
	}

	return &Plan{
		Query:     q,
		Signature: c.nextSig,
		LoadType:  loadType,
		Fresh:     fresh,
		ResetQa:   resetQa,
	}
}

// Begin registers the plan as in flight and returns a request context.
// Starting a newer plan cancels this one (superseding cancellation).
func (c *Controller) Begin(parent context.Context, plan *Plan) context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	c.inflightSig = plan.Signature
	c.inflightCancel = cancel
	return ctx
}

// Apply merges a page response. Returns false and leaves state untouched when
// the plan has been superseded; the signature check is the second line of
// defense behind transport-level cancellation.
func (c *Controller) Apply(plan *Plan, page Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.finishLocked(plan)

	if plan.Signature != c.currentSig {
		return false
	}

	switch plan.LoadType {
	case LoadMore:
		c.entries = append(c.entries, page.Entries...)
		c.totalCount = page.TotalCount
	default:
		c.entries = page.Entries
		c.totalCount = page.TotalCount
		if plan.Fresh {
			c.queryCuts = page.QueryCuts
			c.facets = page.Facets
		}
	}
	c.nextPageToken = page.NextPageToken
	return true
}

// Fail records a failed request. Prior results stay in place; only the
// in-flight handle is released.
func (c *Controller) Fail(plan *Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked(plan)
}

func (c *Controller) finishLocked(plan *Plan) {
	if c.inflightSig == plan.Signature && c.inflightCancel != nil {
		c.inflightCancel()
		c.inflightCancel = nil
		c.inflightSig = 0
	}
}

func (c *Controller) cancelInflightLocked() {
	if c.inflightCancel != nil {
		c.inflightCancel()
		c.inflightCancel = nil
		c.inflightSig = 0
	}
}

// Snapshot returns a copy of the observable session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Idle:          c.idle,
		Keyword:       c.keyword,
		AssetType:     c.assetType,
		Entries:       append([]Entry(nil), c.entries...),
		TotalCount:    c.totalCount,
		NextPageToken: c.nextPageToken,
		QueryCuts:     append([]participle.Token(nil), c.queryCuts...),
		Facets:        c.facets,
		StopWords:     append([]DimFilter(nil), c.stopWords...),
	}
}

func copyFilters(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
