package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
)

// MockCatalogAPI serves records the way a PostgREST collection does:
// a JSON array paged with limit and offset
type MockCatalogAPI struct {
	*httptest.Server

	records  []CatalogRecord
	requests atomic.Int32
	apiKey   string
}

// NewMockCatalogAPI starts a mock catalog endpoint. When apiKey is set,
// requests without a matching apikey header are rejected.
func NewMockCatalogAPI(records []CatalogRecord, apiKey string) *MockCatalogAPI {
	m := &MockCatalogAPI{records: records, apiKey: apiKey}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// Endpoint returns the collection URL
func (m *MockCatalogAPI) Endpoint() string {
	return m.URL + "/rest/v1/funko_pops"
}

// Requests returns the number of page requests served
func (m *MockCatalogAPI) Requests() int {
	return int(m.requests.Load())
}

func (m *MockCatalogAPI) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/rest/v1/funko_pops" {
		http.NotFound(w, r)
		return
	}
	if m.apiKey != "" && r.Header.Get("apikey") != m.apiKey {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
		return
	}
	m.requests.Add(1)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = len(m.records)
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	offset = min(max(offset, 0), len(m.records))
	end := min(offset+limit, len(m.records))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.records[offset:end])
}
