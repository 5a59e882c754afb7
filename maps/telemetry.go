package maps

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mycobrun/geoengine/geo"
)

// Tracer wraps an OpenTelemetry tracer for provider operations. A nil
// *Tracer produces no-op spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer wrapping an OpenTelemetry tracer.
func NewTracer(tracer trace.Tracer) *Tracer {
	if tracer == nil {
		return nil
	}
	return &Tracer{tracer: tracer}
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// End ends the span.
func (s *Span) End() {
	if s.span != nil {
		s.span.End()
	}
}

// RecordError records an error on the span.
func (s *Span) RecordError(err error) {
	if s.span != nil && err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
}

// SetAttributes sets attributes on the span.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s.span != nil {
		s.span.SetAttributes(attrs...)
	}
}

// StartSpan starts a new client span.
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if t == nil || t.tracer == nil {
		return ctx, &Span{}
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("maps.provider", "google"),
		),
	)

	return ctx, &Span{span: span}
}

// SearchAttributes returns attributes for nearby and text searches.
func SearchAttributes(operation, status string, resultsCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("maps.operation", operation),
		attribute.String("maps.status", status),
		attribute.Int("maps.results.count", resultsCount),
	}
}

// GeocodeAttributes returns attributes for geocode operations.
func GeocodeAttributes(operation string, l geo.Location) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("maps.operation", operation),
		attribute.Float64("maps.location.lat", l.Lat),
		attribute.Float64("maps.location.lng", l.Lng),
	}
}

// EnrichmentAttributes returns attributes for an enrichment run.
func EnrichmentAttributes(candidates, enriched, partial int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("maps.operation", "enrich"),
		attribute.Int("maps.candidates", candidates),
		attribute.Int("maps.enriched", enriched),
		attribute.Int("maps.partial", partial),
	}
}
