// Package v1 provides the catalog and browsing session endpoints.
package v1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/popguide/catalog-server/internal/api/common"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/service"
)

// Routes handles the stateless catalog endpoints
type Routes struct {
	service service.CatalogService
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc service.CatalogService) *Routes {
	return &Routes{service: svc}
}

// Router creates the router for the catalog endpoints
func Router(svc service.CatalogService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()
	r.Get("/items", routes.listItems)
	r.Get("/items/{id}", routes.getItem)
	r.Get("/facets", routes.listFacets)
	r.Get("/facets/{facet}", routes.searchFacet)
	r.Get("/quick-search", routes.quickSearch)
	r.Get("/stats", routes.getStats)
	r.Get("/info", routes.getInfo)

	return r
}

// listItems handles GET /v1/items
//
// Query: search, category, fandom, genre, edition, status (repeatable),
// vaulted, year, cursor, limit
func (routes *Routes) listItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	opts := []service.Option{}
	if cursor := query.Get("cursor"); cursor != "" {
		opts = append(opts, service.WithCursor(cursor))
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			common.WriteErrorResponse(w, "Invalid limit parameter: must be an integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, service.WithLimit(limit))
	}
	if search := query.Get("search"); search != "" {
		opts = append(opts, service.WithSearch(search))
	}
	for _, f := range filtering.Facets {
		if values, ok := query[string(f)]; ok {
			opts = append(opts, service.WithFacetValues(string(f), values...))
		}
	}
	if vaulted := query.Get("vaulted"); vaulted != "" {
		opts = append(opts, service.WithVaultedMode(vaulted))
	}
	if year := query.Get("year"); year != "" {
		opts = append(opts, service.WithYear(year))
	}

	page, err := routes.service.ListItems(r.Context(), opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, ItemListResponse{
		Items:      itemResponses(page.Items),
		Count:      len(page.Items),
		Total:      page.Total,
		NextCursor: page.NextCursor,
		Generation: page.Generation,
	}, http.StatusOK)
}

// getItem handles GET /v1/items/{id}
func (routes *Routes) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := routes.service.GetItem(r.Context(), id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, itemResponse(*entry), http.StatusOK)
}

// listFacets handles GET /v1/facets
func (routes *Routes) listFacets(w http.ResponseWriter, r *http.Request) {
	set, err := routes.service.ListFacets(r.Context())
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, FacetsResponse{Generation: set.Generation, Facets: set.Facets}, http.StatusOK)
}

// searchFacet handles GET /v1/facets/{facet}?q=
func (routes *Routes) searchFacet(w http.ResponseWriter, r *http.Request) {
	facet, err := common.PathParam(r, "facet")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.URL.Query().Get("q")

	options, err := routes.service.SearchFacet(r.Context(), facet, q)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, FacetOptionsResponse{Facet: facet, Query: q, Options: options}, http.StatusOK)
}

// quickSearch handles GET /v1/quick-search?q=&limit=
func (routes *Routes) quickSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("q")

	opts := []service.Option{}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			common.WriteErrorResponse(w, "Invalid limit parameter: must be an integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, service.WithLimit(limit))
	}

	found, err := routes.service.QuickSearch(r.Context(), q, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, QuickSearchResponse{
		Query: q,
		Count: len(found),
		Items: itemResponses(found),
	}, http.StatusOK)
}

// getStats handles GET /v1/stats?series=&limit=
func (routes *Routes) getStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	opts := []service.Option{}
	if series := query.Get("series"); series != "" {
		opts = append(opts, service.WithSeries(series))
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			common.WriteErrorResponse(w, "Invalid limit parameter: must be an integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, service.WithLimit(limit))
	}

	stats, err := routes.service.GetStats(r.Context(), opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, StatsResponse{
		Stats:      stats.Stats,
		Generation: stats.Generation,
		Latest:     itemResponses(stats.Latest),
	}, http.StatusOK)
}

// getInfo handles GET /v1/info
func (routes *Routes) getInfo(w http.ResponseWriter, r *http.Request) {
	info, err := routes.service.GetInfo(r.Context())
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, InfoResponse{
		CatalogName:  info.CatalogName,
		Source:       info.SourceType,
		Generation:   info.Generation,
		Phase:        info.Phase,
		Message:      info.Message,
		ItemCount:    info.ItemCount,
		Rejected:     info.Rejected,
		LastLoadTime: info.LastLoadTime,
		LastAttempt:  info.LastAttempt,
	}, http.StatusOK)
}
