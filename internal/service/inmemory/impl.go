// Package inmemory provides the CatalogService implementation that reads the
// snapshot held by a catalog.Store
package inmemory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/otel"
	"github.com/popguide/catalog-server/internal/paging"
	"github.com/popguide/catalog-server/internal/search"
	"github.com/popguide/catalog-server/internal/service"
	"github.com/popguide/catalog-server/internal/telemetry"
)

// ServiceTracerName is the name used for the catalog service tracer
const ServiceTracerName = "github.com/popguide/catalog-server/service"

// filterSurface labels filter duration metrics recorded by the service
const filterSurface = "api"

// catalogSvc implements the CatalogService interface
type catalogSvc struct {
	store      *catalog.Store
	config     *config.Config
	classifier *classify.Classifier
	engine     filtering.Engine
	facets     *facets.Cache
	pageSize   int
	tracer     trace.Tracer
	metrics    *telemetry.BrowseMetrics
}

var _ service.CatalogService = (*catalogSvc)(nil)

// Option is a functional option for configuring the catalogSvc
type Option func(*catalogSvc)

// WithConfig sets the configuration reported by GetInfo and the default page size
func WithConfig(cfg *config.Config) Option {
	return func(s *catalogSvc) {
		s.config = cfg
	}
}

// WithClassifier sets the status classifier used for filtering, facets and badges
func WithClassifier(c *classify.Classifier) Option {
	return func(s *catalogSvc) {
		s.classifier = c
	}
}

// WithFacetCache shares a facet cache with other consumers of the same store
func WithFacetCache(c *facets.Cache) Option {
	return func(s *catalogSvc) {
		s.facets = c
	}
}

// WithTracer sets the tracer for service spans
func WithTracer(tracer trace.Tracer) Option {
	return func(s *catalogSvc) {
		s.tracer = tracer
	}
}

// WithMetrics sets the browse metrics recording filter durations
func WithMetrics(m *telemetry.BrowseMetrics) Option {
	return func(s *catalogSvc) {
		s.metrics = m
	}
}

// New creates a catalog service reading from store
func New(store *catalog.Store, opts ...Option) (service.CatalogService, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}

	s := &catalogSvc{
		store:    store,
		pageSize: paging.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.config != nil {
		if size := s.config.GetBrowse().PageSize; size > 0 {
			s.pageSize = size
		}
		if s.classifier == nil {
			if window := s.config.GetBrowse().NewReleaseWindow; window > 0 {
				s.classifier = classify.New(classify.WithRecencyWindow(window))
			}
		}
	}
	if s.classifier == nil {
		s.classifier = classify.New()
	}
	if s.engine == nil {
		s.engine = filtering.NewDefaultEngine(s.classifier)
	}
	if s.facets == nil {
		s.facets = facets.NewCache(s.classifier)
	}

	return s, nil
}

// CheckReadiness reports ready once a load attempt has finished
func (s *catalogSvc) CheckReadiness(_ context.Context) error {
	if !s.store.Status().Resolved() {
		return service.ErrNotReady
	}
	return nil
}

// GetInfo returns catalog metadata and the load status
func (s *catalogSvc) GetInfo(ctx context.Context) (*service.Info, error) {
	_, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.GetInfo")
	defer span.End()

	snap := s.store.Current()
	st := s.store.Status()

	info := &service.Info{
		Generation:   snap.Generation(),
		Phase:        st.Phase,
		Message:      st.Message,
		ItemCount:    snap.Len(),
		Rejected:     snap.Rejected(),
		LastLoadTime: st.LastLoadTime,
		LastAttempt:  st.LastAttempt,
	}
	if s.config != nil {
		info.CatalogName = s.config.GetCatalogName()
		info.SourceType = s.config.Source.GetType()
	}

	span.SetAttributes(otel.AttrGeneration.Int64(int64(info.Generation)))
	return info, nil
}

// ListItems filters the active snapshot and returns one page of the result
func (s *catalogSvc) ListItems(ctx context.Context, opts ...service.Option) (*service.ItemPage, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.ListItems")
	defer span.End()

	options := &service.ListItemsOptions{}
	if err := service.Apply(options, opts...); err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	state, err := options.State()
	if err != nil {
		err = fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
		otel.RecordError(span, err)
		return nil, err
	}

	offset, err := service.DecodeCursor(options.Cursor)
	if err != nil {
		err = fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
		otel.RecordError(span, err)
		return nil, err
	}

	limit := options.Limit
	if limit == 0 {
		limit = s.pageSize
	}

	snap := s.store.Current()
	rules := s.classifier.Now()

	start := time.Now()
	result := s.engine.ApplyAt(snap, state, rules)
	s.metrics.RecordFilterDuration(ctx, filterSurface, time.Since(start))

	offset = min(offset, len(result))
	end := min(offset+limit, len(result))

	page := &service.ItemPage{
		Items:      entries(result[offset:end], rules),
		Total:      len(result),
		Generation: snap.Generation(),
	}
	if end < len(result) {
		page.NextCursor = service.EncodeCursor(end)
	}

	span.SetAttributes(
		otel.AttrGeneration.Int64(int64(page.Generation)),
		otel.AttrHasSearch.Bool(state.SearchTerm() != ""),
		otel.AttrActiveFilters.Bool(!state.IsEmpty()),
		otel.AttrHasCursor.Bool(options.Cursor != ""),
		otel.AttrPageSize.Int(limit),
		otel.AttrResultCount.Int(len(page.Items)),
		otel.AttrResultTotal.Int(page.Total),
	)
	return page, nil
}

// GetItem returns one item by id from the active snapshot
func (s *catalogSvc) GetItem(ctx context.Context, id string) (*service.Entry, error) {
	_, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.GetItem",
		trace.WithAttributes(otel.AttrItemID.String(id)))
	defer span.End()

	item, ok := s.store.Current().Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", service.ErrItemNotFound, id)
	}

	return &service.Entry{Item: item, Badges: s.classifier.Now().Badges(item)}, nil
}

// ListFacets returns every facet's options with whole-catalog counts
func (s *catalogSvc) ListFacets(ctx context.Context) (*service.FacetSet, error) {
	_, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.ListFacets")
	defer span.End()

	cat := s.facets.For(s.store.Current())
	span.SetAttributes(otel.AttrGeneration.Int64(int64(cat.Generation())))

	return &service.FacetSet{Generation: cat.Generation(), Facets: cat.All()}, nil
}

// SearchFacet narrows one facet's options. Counts are not recomputed.
func (s *catalogSvc) SearchFacet(ctx context.Context, key, query string) ([]facets.Option, error) {
	_, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.SearchFacet",
		trace.WithAttributes(otel.AttrFacet.String(key)))
	defer span.End()

	k, ok := facets.ParseKey(key)
	if !ok {
		err := fmt.Errorf("%w: %s", service.ErrUnknownFacet, key)
		otel.RecordError(span, err)
		return nil, err
	}

	opts := s.facets.For(s.store.Current()).Search(k, query)
	span.SetAttributes(otel.AttrResultCount.Int(len(opts)))
	return opts, nil
}

// QuickSearch returns the first matches of the normalized quick search
func (s *catalogSvc) QuickSearch(ctx context.Context, query string, opts ...service.Option) ([]service.Entry, error) {
	_, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.QuickSearch")
	defer span.End()

	options := &service.QuickSearchOptions{}
	if err := service.Apply(options, opts...); err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	limit := options.Limit
	if limit == 0 {
		limit = service.QuickSearchLimit
	}

	found := search.Quick(query, s.store.Current().Items(), limit)
	span.SetAttributes(otel.AttrResultCount.Int(len(found)))
	return entries(found, s.classifier.Now()), nil
}

// GetStats summarizes the snapshot and lists the latest additions
func (s *catalogSvc) GetStats(ctx context.Context, opts ...service.Option) (*service.Stats, error) {
	_, span := otel.StartSpan(ctx, s.tracer, "catalogSvc.GetStats")
	defer span.End()

	options := &service.StatsOptions{}
	if err := service.Apply(options, opts...); err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	limit := options.Limit
	if limit == 0 {
		limit = facets.LatestLimit
	}

	snap := s.store.Current()
	return &service.Stats{
		Stats:      facets.ComputeStats(snap),
		Generation: snap.Generation(),
		Latest:     entries(facets.Latest(snap, options.Series, limit), s.classifier.Now()),
	}, nil
}

func entries(items []*catalog.Item, rules classify.Rules) []service.Entry {
	out := make([]service.Entry, len(items))
	for i, item := range items {
		out[i] = service.Entry{Item: item, Badges: rules.Badges(item)}
	}
	return out
}
