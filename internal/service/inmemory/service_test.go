package inmemory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/service"
	"github.com/popguide/catalog-server/internal/service/inmemory"
	"github.com/popguide/catalog-server/internal/status"
)

var evalTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testClassifier() *classify.Classifier {
	return classify.New(classify.WithClock(func() time.Time { return evalTime }))
}

func value(v float64) *float64 { return &v }

func testItems() []catalog.Item {
	future := evalTime.AddDate(0, 2, 0)
	return []catalog.Item{
		{ID: "1", Name: "Goku", Series: "Dragon Ball Z", Number: "14", Fandom: "Animation", Genre: "Anime & Manga",
			CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), DataSources: []string{catalog.SourceNewReleases},
			EstimatedValue: value(12)},
		{ID: "2", Name: "Vegeta", Series: "Dragon Ball Z", Number: "10", Fandom: "Animation", Genre: "Anime & Manga",
			CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), IsVaulted: true, IsChase: true,
			EstimatedValue: value(30)},
		{ID: "3", Name: "Darth Vader", Series: "Star Wars", Number: "01", Fandom: "Disney", Genre: "Movies & TV",
			CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), IsExclusive: true, ReleaseDate: &future},
		{ID: "4", Name: "Mickey Mouse", Series: "Disney", Number: "01", Fandom: "Disney", Genre: "Animation",
			CreatedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "5", Name: "Gohan", Series: "Dragon Ball Z", Number: "",
			CreatedAt: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func newTestService(t *testing.T, opts ...inmemory.Option) (service.CatalogService, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore()
	store.Replace(testItems(), "hash")

	opts = append([]inmemory.Option{inmemory.WithClassifier(testClassifier())}, opts...)
	svc, err := inmemory.New(store, opts...)
	require.NoError(t, err)
	return svc, store
}

func ids(entries []service.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Item.ID
	}
	return out
}

func TestNew_RequiresStore(t *testing.T) {
	t.Parallel()

	svc, err := inmemory.New(nil)
	require.Error(t, err)
	assert.Nil(t, svc)
}

func TestService_CheckReadiness(t *testing.T) {
	t.Parallel()

	store := catalog.NewStore()
	svc, err := inmemory.New(store)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CheckReadiness(context.Background()), service.ErrNotReady)

	store.Fail(errors.New("source unreachable"))
	assert.NoError(t, svc.CheckReadiness(context.Background()), "a failed load still resolves readiness")
}

func TestService_ListItems(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	tests := []struct {
		name        string
		opts        []service.Option
		expectedIDs []string
		total       int
		hasNext     bool
	}{
		{
			name:        "no filters returns catalog order",
			expectedIDs: []string{"1", "2", "3", "4", "5"},
			total:       5,
		},
		{
			name:        "search matches name and series",
			opts:        []service.Option{service.WithSearch("dragon")},
			expectedIDs: []string{"1", "2", "5"},
			total:       3,
		},
		{
			name:        "values within a facet widen",
			opts:        []service.Option{service.WithFacetValues("genre", "Movies & TV", "Animation")},
			expectedIDs: []string{"3", "4"},
			total:       2,
		},
		{
			name: "facets narrow each other",
			opts: []service.Option{
				service.WithFacetValues("fandom", "Disney"),
				service.WithFacetValues("genre", "Animation"),
			},
			expectedIDs: []string{"4"},
			total:       1,
		},
		{
			name:        "vaulted only",
			opts:        []service.Option{service.WithVaultedMode("Vaulted")},
			expectedIDs: []string{"2"},
			total:       1,
		},
		{
			name:        "year",
			opts:        []service.Option{service.WithYear("2024")},
			expectedIDs: []string{"2", "4", "5"},
			total:       3,
		},
		{
			name:        "limit returns a cursor",
			opts:        []service.Option{service.WithLimit(2)},
			expectedIDs: []string{"1", "2"},
			total:       5,
			hasNext:     true,
		},
		{
			name:        "cursor continues",
			opts:        []service.Option{service.WithLimit(2), service.WithCursor(service.EncodeCursor(4))},
			expectedIDs: []string{"5"},
			total:       5,
		},
		{
			name:        "cursor past the end is empty",
			opts:        []service.Option{service.WithCursor(service.EncodeCursor(50))},
			expectedIDs: []string{},
			total:       5,
		},
		{
			name:        "no matches",
			opts:        []service.Option{service.WithSearch("nothing matches this")},
			expectedIDs: []string{},
			total:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := svc.ListItems(context.Background(), tt.opts...)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedIDs, ids(page.Items))
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.hasNext, page.NextCursor != "")
		})
	}
}

func TestService_ListItems_WalksAllPages(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	var seen []string
	opts := []service.Option{service.WithLimit(2)}
	for range 10 {
		page, err := svc.ListItems(context.Background(), opts...)
		require.NoError(t, err)
		seen = append(seen, ids(page.Items)...)
		if page.NextCursor == "" {
			break
		}
		opts = []service.Option{service.WithLimit(2), service.WithCursor(page.NextCursor)}
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, seen)
}

func TestService_ListItems_Errors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	for name, opt := range map[string]service.Option{
		"unknown facet":  service.WithFacetValues("colour", "red"),
		"bad cursor":     service.WithCursor("!!!"),
		"bad vaulted":    service.WithVaultedMode("maybe"),
		"too large page": service.WithLimit(service.MaxPageSize + 1),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ListItems(context.Background(), opt)
			assert.ErrorIs(t, err, service.ErrInvalidArgument)
		})
	}
}

func TestService_ListItems_DefaultPageSizeFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Browse: &config.BrowseConfig{PageSize: 3}}
	svc, _ := newTestService(t, inmemory.WithConfig(cfg))

	page, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.NotEmpty(t, page.NextCursor)
}

func TestService_PendingCatalogIsEmpty(t *testing.T) {
	t.Parallel()

	svc, err := inmemory.New(catalog.NewStore())
	require.NoError(t, err)

	page, err := svc.ListItems(context.Background(), service.WithSearch("goku"))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Generation)
}

func TestService_GetItem(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	entry, err := svc.GetItem(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Darth Vader", entry.Item.Name)
	assert.Equal(t, []classify.Badge{classify.BadgeComingSoon, classify.BadgeExclusive}, entry.Badges)

	_, err = svc.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestService_ListFacets(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)

	set, err := svc.ListFacets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Current().Generation(), set.Generation)

	counts := map[string]int{}
	for _, opt := range set.Facets[facets.Series] {
		counts[opt.Value] = opt.Count
	}
	assert.Equal(t, map[string]int{"Disney": 1, "Dragon Ball Z": 3, "Star Wars": 1}, counts)

	again, err := svc.ListFacets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, set.Facets, again.Facets)
}

func TestService_SearchFacet(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	opts, err := svc.SearchFacet(context.Background(), "series", "DRAGON")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, facets.Option{Value: "Dragon Ball Z", Count: 3}, opts[0])

	_, err = svc.SearchFacet(context.Background(), "colour", "")
	assert.ErrorIs(t, err, service.ErrUnknownFacet)
}

func TestService_QuickSearch(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	// "go" also appears inside the normalized series "dragonballz"
	found, err := svc.QuickSearch(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "5"}, ids(found))

	found, err = svc.QuickSearch(context.Background(), "star-wars")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(found))

	found, err = svc.QuickSearch(context.Background(), "go", service.WithLimit(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(found))

	_, err = svc.QuickSearch(context.Background(), "go", service.WithLimit(service.QuickSearchLimit+1))
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestService_QuickSearch_Capped(t *testing.T) {
	t.Parallel()

	records := make([]catalog.Item, 80)
	for i := range records {
		records[i] = catalog.Item{
			ID:        fmt.Sprint(i),
			Name:      fmt.Sprintf("Goku %d", i),
			CreatedAt: evalTime,
		}
	}
	store := catalog.NewStore()
	store.Replace(records, "many")
	svc, err := inmemory.New(store)
	require.NoError(t, err)

	found, err := svc.QuickSearch(context.Background(), "goku")
	require.NoError(t, err)
	assert.Len(t, found, service.QuickSearchLimit)
}

func TestService_GetStats(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.ItemCount)
	assert.Equal(t, 1, stats.VaultedCount)
	assert.Equal(t, 2, stats.RareCount)
	assert.InDelta(t, 42.0, stats.KnownValueTotal, 0.001)
	require.NotEmpty(t, stats.TopSeries)
	assert.Equal(t, "Dragon Ball Z", stats.TopSeries[0].Value)
	assert.Equal(t, []string{"1", "5", "4", "2", "3"}, ids(stats.Latest))

	stats, err = svc.GetStats(context.Background(), service.WithSeries("Dragon Ball Z"), service.WithLimit(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5"}, ids(stats.Latest))
}

func TestService_GetInfo(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		CatalogName: "test-catalog",
		Source:      config.SourceConfig{File: &config.FileConfig{Path: "catalog.json"}},
	}
	svc, store := newTestService(t, inmemory.WithConfig(cfg))

	info, err := svc.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-catalog", info.CatalogName)
	assert.Equal(t, config.SourceTypeFile, info.SourceType)
	assert.Equal(t, store.Current().Generation(), info.Generation)
	assert.Equal(t, status.LoadPhaseLoaded, info.Phase)
	assert.Equal(t, 5, info.ItemCount)
	assert.NotNil(t, info.LastLoadTime)
}

func TestService_ListItems_RecordsSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	svc, _ := newTestService(t, inmemory.WithTracer(tp.Tracer(inmemory.ServiceTracerName)))

	_, err := svc.ListItems(context.Background(), service.WithSearch("goku"))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "catalogSvc.ListItems", spans[0].Name)

	attrs := map[string]any{}
	for _, attr := range spans[0].Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, true, attrs["filter.has_search"])
	assert.Equal(t, int64(1), attrs["result.total"])
}
