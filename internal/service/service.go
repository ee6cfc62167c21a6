// Package service provides the business logic behind the catalog HTTP API
package service

import (
	"context"
	"errors"
	"time"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/status"
)

const (
	// MaxPageSize caps the limit accepted by ListItems
	MaxPageSize = 500

	// QuickSearchLimit caps quick search results
	QuickSearchLimit = 50
)

var (
	// ErrItemNotFound is returned when no item has the requested id
	ErrItemNotFound = errors.New("item not found")
	// ErrNotReady is returned until the first catalog load attempt has finished
	ErrNotReady = errors.New("catalog not ready")
	// ErrInvalidArgument wraps rejected request options
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownFacet is returned for facet keys the catalog does not derive
	ErrUnknownFacet = filtering.ErrUnknownFacet
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go CatalogService

// CatalogService defines the read operations over the active catalog snapshot.
// Every call reads the snapshot current at call time; no state is kept
// between calls.
type CatalogService interface {
	// CheckReadiness reports ErrNotReady until a load attempt has finished
	CheckReadiness(ctx context.Context) error

	// GetInfo returns catalog metadata and load status
	GetInfo(ctx context.Context) (*Info, error)

	// ListItems filters the catalog and returns one page of the result
	ListItems(ctx context.Context, opts ...Option) (*ItemPage, error)

	// GetItem returns a single item by id
	GetItem(ctx context.Context, id string) (*Entry, error)

	// ListFacets returns every facet with whole-catalog counts
	ListFacets(ctx context.Context) (*FacetSet, error)

	// SearchFacet narrows one facet's options by a case-insensitive substring
	SearchFacet(ctx context.Context, key, query string) ([]facets.Option, error)

	// QuickSearch runs the normalized name/number/series match
	QuickSearch(ctx context.Context, query string, opts ...Option) ([]Entry, error)

	// GetStats summarizes the catalog and lists the latest additions
	GetStats(ctx context.Context, opts ...Option) (*Stats, error)
}

// Entry is an item together with its display badges
type Entry struct {
	Item   *catalog.Item
	Badges []classify.Badge
}

// ItemPage is one page of a filtered listing
type ItemPage struct {
	Items      []Entry
	Total      int
	NextCursor string
	Generation uint64
}

// Info describes the catalog and its load status
type Info struct {
	CatalogName  string
	SourceType   string
	Generation   uint64
	Phase        status.LoadPhase
	Message      string
	ItemCount    int
	Rejected     int
	LastLoadTime *time.Time
	LastAttempt  *time.Time
}

// FacetSet is the facet options of one snapshot
type FacetSet struct {
	Generation uint64
	Facets     map[facets.Key][]facets.Option
}

// Stats is the catalog summary with the latest additions
type Stats struct {
	facets.Stats
	Generation uint64
	Latest     []Entry
}
