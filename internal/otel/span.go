// Package otel provides OpenTelemetry span helpers shared by the catalog
// service and the HTTP handlers.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used across catalog spans
const (
	AttrCatalogName   = attribute.Key("catalog.name")
	AttrSourceType    = attribute.Key("catalog.source_type")
	AttrGeneration    = attribute.Key("catalog.generation")
	AttrItemID        = attribute.Key("item.id")
	AttrFacet         = attribute.Key("facet.key")
	AttrSessionID     = attribute.Key("session.id")
	AttrHasSearch     = attribute.Key("filter.has_search")
	AttrActiveFilters = attribute.Key("filter.active")
	AttrPageSize      = attribute.Key("pagination.limit")
	AttrResultCount   = attribute.Key("result.count")
	AttrResultTotal   = attribute.Key("result.total")
	AttrHasCursor     = attribute.Key("pagination.has_cursor")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on the span and marks it failed.
// The status description stays generic; details go in the exception event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
