package dto

type SearchQueryRequest struct {
	Keyword         string            `json:"keyword"`
	AssetType       string            `json:"asset_type" validate:"omitempty,oneof=all catalog logical_view interface_service indicator"`
	StopEntityInfos []string          `json:"stop_entity_infos"`
	ExtraFilters    map[string]string `json:"extra_filters"`
}

type SearchMoreRequest struct {
	Keyword         string            `json:"keyword" validate:"required"`
	AssetType       string            `json:"asset_type" validate:"omitempty,oneof=all catalog logical_view interface_service indicator"`
	StopEntityInfos []string          `json:"stop_entity_infos"`
	ExtraFilters    map[string]string `json:"extra_filters"`
	NextPageToken   string            `json:"next_page_token" validate:"required"`
}

type SearchEntryResponse struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	AssetType   string  `json:"asset_type"`
	Description string  `json:"description,omitempty"`
	Score       float64 `json:"score"`
}

type QueryCutResponse struct {
	Word string `json:"word"`
	Kind string `json:"kind"`
}

type FacetItemResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SearchFacetsResponse struct {
	Objects    []FacetItemResponse `json:"objects"`
	Dimensions []FacetItemResponse `json:"dimensions"`
}

type SearchQueryResponse struct {
	Entries       []SearchEntryResponse `json:"entries"`
	TotalCount    int64                 `json:"total_count"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	HasMore       bool                  `json:"has_more"`
	QueryCuts     []QueryCutResponse    `json:"query_cuts"`
	Facets        SearchFacetsResponse  `json:"facets"`
	ResetQa       bool                  `json:"reset_qa"`
}

type SearchMoreResponse struct {
	Entries       []SearchEntryResponse `json:"entries"`
	TotalCount    int64                 `json:"total_count"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	HasMore       bool                  `json:"has_more"`
}
