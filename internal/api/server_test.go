package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/popguide/catalog-server/internal/api"
	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/service"
	"github.com/popguide/catalog-server/internal/service/mocks"
)

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	// health never consults the service
	server := api.NewServer(mocks.NewMockCatalogService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedKey    string
	}{
		{name: "catalog loaded", expectedStatus: http.StatusOK, expectedKey: "status"},
		{name: "catalog pending", err: service.ErrNotReady, expectedStatus: http.StatusServiceUnavailable, expectedKey: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			mockSvc := mocks.NewMockCatalogService(ctrl)
			mockSvc.EXPECT().CheckReadiness(gomock.Any()).Return(tt.err)

			req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
			rr := httptest.NewRecorder()
			api.NewServer(mockSvc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var response map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
			assert.Contains(t, response, tt.expectedKey)
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	server := api.NewServer(mocks.NewMockCatalogService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	for _, key := range []string{"version", "commit", "build_date", "go_version", "platform"} {
		assert.Contains(t, response, key)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("popguide_catalog_items_total 3\n"))
	})

	tests := []struct {
		name           string
		opts           []api.ServerOption
		expectedStatus int
	}{
		{name: "mounted", opts: []api.ServerOption{api.WithMetricsHandler(metrics)}, expectedStatus: http.StatusOK},
		{name: "not configured", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			server := api.NewServer(mocks.NewMockCatalogService(ctrl), tt.opts...)

			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestSessionRoutesMountedOnlyWithManager(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockCatalogService(ctrl)

	rr := httptest.NewRecorder()
	api.NewServer(mockSvc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	assert.NotEqual(t, http.StatusCreated, rr.Code)

	manager := browse.NewManager(catalog.NewStore())
	t.Cleanup(func() { manager.CloseAll(context.Background()) })

	rr = httptest.NewRecorder()
	api.NewServer(mockSvc, api.WithSessions(manager, nil)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, manager.Len())
}

func TestMiddlewaresApplied(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Catalog", "popguide")
			next.ServeHTTP(w, r)
		})
	}
	server := api.NewServer(mocks.NewMockCatalogService(ctrl),
		api.WithMiddlewares(tag, api.LoggingMiddleware))

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "popguide", rr.Header().Get("X-Catalog"))
}
