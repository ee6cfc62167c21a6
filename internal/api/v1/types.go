package v1

import (
	"time"

	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/service"
	"github.com/popguide/catalog-server/internal/status"
)

// ItemResponse is a catalog item with its display badges
type ItemResponse struct {
	Item   *catalog.Item    `json:"item"`
	Badges []classify.Badge `json:"badges"`
}

// ItemListResponse is one page of a filtered item listing
type ItemListResponse struct {
	Items      []ItemResponse `json:"items"`
	Count      int            `json:"count"`
	Total      int            `json:"total"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Generation uint64         `json:"generation"`
}

// FacetsResponse lists every facet with whole-catalog counts
type FacetsResponse struct {
	Generation uint64                         `json:"generation"`
	Facets     map[facets.Key][]facets.Option `json:"facets"`
}

// FacetOptionsResponse is one facet's options narrowed by a query
type FacetOptionsResponse struct {
	Facet   string          `json:"facet"`
	Query   string          `json:"query"`
	Options []facets.Option `json:"options"`
}

// QuickSearchResponse is the result of a quick search
type QuickSearchResponse struct {
	Query string         `json:"query"`
	Count int            `json:"count"`
	Items []ItemResponse `json:"items"`
}

// StatsResponse summarizes the catalog
type StatsResponse struct {
	facets.Stats
	Generation uint64         `json:"generation"`
	Latest     []ItemResponse `json:"latest"`
}

// InfoResponse describes the catalog and its load status
type InfoResponse struct {
	CatalogName  string           `json:"catalog_name"`
	Source       string           `json:"source"`
	Generation   uint64           `json:"generation"`
	Phase        status.LoadPhase `json:"phase"`
	Message      string           `json:"message,omitempty"`
	ItemCount    int              `json:"item_count"`
	Rejected     int              `json:"rejected"`
	LastLoadTime *time.Time       `json:"last_load_time,omitempty"`
	LastAttempt  *time.Time       `json:"last_attempt,omitempty"`
}

// SessionResponse is the view of a browsing session
type SessionResponse struct {
	ID            string           `json:"id"`
	Generation    uint64           `json:"generation"`
	FilteredCount int              `json:"filtered_count"`
	VisibleCount  int              `json:"visible_count"`
	HasMore       bool             `json:"has_more"`
	State         *filtering.State `json:"state"`
	Items         []ItemResponse   `json:"items"`
}

// SessionFacetsResponse lists a session's facet options
type SessionFacetsResponse struct {
	ID     string                         `json:"id"`
	Facets map[facets.Key][]facets.Option `json:"facets"`
}

// SearchRequest sets a session's search term
type SearchRequest struct {
	Term string `json:"term"`
}

// ToggleRequest toggles one facet value
type ToggleRequest struct {
	Value string `json:"value"`
}

// VaultedRequest sets the vaulted mode
type VaultedRequest struct {
	Mode string `json:"mode"`
}

// YearRequest sets or clears the year constraint
type YearRequest struct {
	Year string `json:"year"`
}

// ScrollRequest reports a scroll position in pixels
type ScrollRequest struct {
	ScrollTop      float64 `json:"scroll_top"`
	ViewportHeight float64 `json:"viewport_height"`
	ContentHeight  float64 `json:"content_height"`
}

func itemResponses(entries []service.Entry) []ItemResponse {
	out := make([]ItemResponse, len(entries))
	for i, e := range entries {
		out[i] = itemResponse(e)
	}
	return out
}

func itemResponse(e service.Entry) ItemResponse {
	badges := e.Badges
	if badges == nil {
		badges = []classify.Badge{}
	}
	return ItemResponse{Item: e.Item, Badges: badges}
}

func sessionResponse(v browse.View, rules classify.Rules) SessionResponse {
	items := make([]ItemResponse, len(v.Items))
	for i, item := range v.Items {
		items[i] = itemResponse(service.Entry{Item: item, Badges: rules.Badges(item)})
	}
	return SessionResponse{
		ID:            v.ID,
		Generation:    v.Generation,
		FilteredCount: v.FilteredCount,
		VisibleCount:  v.VisibleCount,
		HasMore:       v.HasMore,
		State:         v.State,
		Items:         items,
	}
}
