package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/popguide/catalog-server/internal/api/common"
	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/paging"
)

// SessionRoutes handles the stateful browsing session endpoints
type SessionRoutes struct {
	sessions   *browse.Manager
	classifier *classify.Classifier
}

// NewSessionRoutes creates session routes over a session manager. The
// classifier derives item badges and should be the one the manager filters with.
func NewSessionRoutes(sessions *browse.Manager, classifier *classify.Classifier) *SessionRoutes {
	if classifier == nil {
		classifier = classify.New()
	}
	return &SessionRoutes{sessions: sessions, classifier: classifier}
}

// SessionRouter creates the router for the session endpoints
func SessionRouter(sessions *browse.Manager, classifier *classify.Classifier) http.Handler {
	routes := NewSessionRoutes(sessions, classifier)

	r := chi.NewRouter()
	r.Post("/", routes.createSession)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", routes.getSession)
		r.Delete("/", routes.closeSession)
		r.Put("/search", routes.setSearch)
		r.Post("/facets/{facet}/toggle", routes.toggleFacet)
		r.Get("/facets", routes.listFacets)
		r.Put("/vaulted", routes.setVaulted)
		r.Put("/year", routes.setYear)
		r.Post("/scroll", routes.scroll)
		r.Delete("/filters", routes.clearFilters)
	})

	return r
}

// createSession handles POST /v1/sessions
func (routes *SessionRoutes) createSession(w http.ResponseWriter, r *http.Request) {
	s, err := routes.sessions.Create(r.Context())
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	routes.writeView(w, s.View(), http.StatusCreated)
}

// getSession handles GET /v1/sessions/{id}
func (routes *SessionRoutes) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := routes.lookup(w, r)
	if !ok {
		return
	}
	routes.writeView(w, s.View(), http.StatusOK)
}

// closeSession handles DELETE /v1/sessions/{id}
func (routes *SessionRoutes) closeSession(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := routes.sessions.Close(r.Context(), id); err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setSearch handles PUT /v1/sessions/{id}/search
func (routes *SessionRoutes) setSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeRequired(w, r, &req) {
		return
	}
	routes.mutate(w, r, func(s *browse.Session) error {
		return s.SetSearchTerm(req.Term)
	})
}

// toggleFacet handles POST /v1/sessions/{id}/facets/{facet}/toggle
func (routes *SessionRoutes) toggleFacet(w http.ResponseWriter, r *http.Request) {
	name, err := common.PathParam(r, "facet")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	facet, err := filtering.ParseFacet(name)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	var req ToggleRequest
	if !decodeRequired(w, r, &req) {
		return
	}
	routes.mutate(w, r, func(s *browse.Session) error {
		return s.ToggleFacetValue(facet, req.Value)
	})
}

// listFacets handles GET /v1/sessions/{id}/facets
func (routes *SessionRoutes) listFacets(w http.ResponseWriter, r *http.Request) {
	s, ok := routes.lookup(w, r)
	if !ok {
		return
	}
	common.WriteJSONResponse(w, SessionFacetsResponse{ID: s.ID(), Facets: s.FacetOptions()}, http.StatusOK)
}

// setVaulted handles PUT /v1/sessions/{id}/vaulted
func (routes *SessionRoutes) setVaulted(w http.ResponseWriter, r *http.Request) {
	var req VaultedRequest
	if !decodeRequired(w, r, &req) {
		return
	}
	mode, err := filtering.ParseVaultedMode(req.Mode)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	routes.mutate(w, r, func(s *browse.Session) error {
		return s.SetVaultedMode(mode)
	})
}

// setYear handles PUT /v1/sessions/{id}/year
func (routes *SessionRoutes) setYear(w http.ResponseWriter, r *http.Request) {
	var req YearRequest
	if !decodeRequired(w, r, &req) {
		return
	}
	routes.mutate(w, r, func(s *browse.Session) error {
		return s.SetYear(req.Year)
	})
}

// clearFilters handles DELETE /v1/sessions/{id}/filters
func (routes *SessionRoutes) clearFilters(w http.ResponseWriter, r *http.Request) {
	routes.mutate(w, r, func(s *browse.Session) error {
		return s.ClearFilters()
	})
}

// scroll handles POST /v1/sessions/{id}/scroll. An empty body is a bare
// near-bottom event.
func (routes *SessionRoutes) scroll(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var pos *paging.Position
	var req ScrollRequest
	switch err := common.DecodeJSONBody(w, r, &req); {
	case errors.Is(err, io.EOF):
	case err != nil:
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	default:
		pos = &paging.Position{
			ScrollTop:      req.ScrollTop,
			ViewportHeight: req.ViewportHeight,
			ContentHeight:  req.ContentHeight,
		}
	}

	view, err := routes.sessions.Scroll(id, pos)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	routes.writeView(w, view, http.StatusOK)
}

func (routes *SessionRoutes) lookup(w http.ResponseWriter, r *http.Request) (*browse.Session, bool) {
	id, err := common.PathParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	s, err := routes.sessions.Get(id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return nil, false
	}
	return s, true
}

func (routes *SessionRoutes) mutate(w http.ResponseWriter, r *http.Request, op func(*browse.Session) error) {
	s, ok := routes.lookup(w, r)
	if !ok {
		return
	}
	if err := op(s); err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	routes.writeView(w, s.View(), http.StatusOK)
}

func (routes *SessionRoutes) writeView(w http.ResponseWriter, v browse.View, code int) {
	common.WriteJSONResponse(w, sessionResponse(v, routes.classifier.Now()), code)
}

func decodeRequired(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := common.DecodeJSONBody(w, r, dst); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		common.WriteErrorResponse(w, msg, http.StatusBadRequest)
		return false
	}
	return true
}
