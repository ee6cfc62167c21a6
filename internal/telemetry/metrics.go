package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// CatalogMetricsMeterName is the name used for the catalog load metrics meter
	CatalogMetricsMeterName = "github.com/popguide/catalog-server/catalog"

	// BrowseMetricsMeterName is the name used for the browse metrics meter
	BrowseMetricsMeterName = "github.com/popguide/catalog-server/browse"
)

// CatalogMetrics holds the OpenTelemetry instruments for catalog loading
type CatalogMetrics struct {
	itemsTotal      metric.Int64Gauge
	refreshDuration metric.Float64Histogram
}

// NewCatalogMetrics creates a new CatalogMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewCatalogMetrics(provider metric.MeterProvider) (*CatalogMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(CatalogMetricsMeterName)

	itemsTotal, err := meter.Int64Gauge(
		"popguide_catalog_items_total",
		metric.WithDescription("Number of items in the active catalog snapshot"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	refreshDuration, err := meter.Float64Histogram(
		"popguide_catalog_refresh_duration_seconds",
		metric.WithDescription("Duration of catalog refresh attempts in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	return &CatalogMetrics{
		itemsTotal:      itemsTotal,
		refreshDuration: refreshDuration,
	}, nil
}

// RecordItemsTotal records the number of items in the active snapshot
func (m *CatalogMetrics) RecordItemsTotal(ctx context.Context, catalogName string, count int64) {
	if m == nil || m.itemsTotal == nil {
		return
	}

	m.itemsTotal.Record(ctx, count, metric.WithAttributes(attribute.String("catalog", catalogName)))
}

// RecordRefreshDuration records the duration of one refresh attempt
func (m *CatalogMetrics) RecordRefreshDuration(ctx context.Context, catalogName string, duration time.Duration, success bool) {
	if m == nil || m.refreshDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("catalog", catalogName),
		attribute.Bool("success", success),
	}

	m.refreshDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// BrowseMetrics holds the OpenTelemetry instruments for filtering and sessions
type BrowseMetrics struct {
	filterDuration metric.Float64Histogram
	sessionsActive metric.Int64UpDownCounter
}

// NewBrowseMetrics creates a new BrowseMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewBrowseMetrics(provider metric.MeterProvider) (*BrowseMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(BrowseMetricsMeterName)

	filterDuration, err := meter.Float64Histogram(
		"popguide_filter_duration_seconds",
		metric.WithDescription("Duration of filter evaluations over the catalog in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5),
	)
	if err != nil {
		return nil, err
	}

	sessionsActive, err := meter.Int64UpDownCounter(
		"popguide_browse_sessions_active",
		metric.WithDescription("Number of open browse sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	return &BrowseMetrics{
		filterDuration: filterDuration,
		sessionsActive: sessionsActive,
	}, nil
}

// RecordFilterDuration records one filter evaluation. Surface is "session" or "query".
func (m *BrowseMetrics) RecordFilterDuration(ctx context.Context, surface string, duration time.Duration) {
	if m == nil || m.filterDuration == nil {
		return
	}

	m.filterDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("surface", surface)))
}

// SessionOpened increments the active session count
func (m *BrowseMetrics) SessionOpened(ctx context.Context) {
	if m == nil || m.sessionsActive == nil {
		return
	}
	m.sessionsActive.Add(ctx, 1)
}

// SessionClosed decrements the active session count
func (m *BrowseMetrics) SessionClosed(ctx context.Context) {
	if m == nil || m.sessionsActive == nil {
		return
	}
	m.sessionsActive.Add(ctx, -1)
}
