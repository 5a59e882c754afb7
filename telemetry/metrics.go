// Package telemetry provides observability utilities.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string // OTLP endpoint, empty keeps metrics in-process
	Insecure       bool
	Interval       time.Duration
}

// MetricsProvider provides metrics functionality.
type MetricsProvider struct {
	provider *sdkmetric.MeterProvider
	meter    metric.Meter
	config   MetricsConfig
}

// NewMetricsProvider creates a new metrics provider. With an endpoint
// configured, metrics are pushed over OTLP/HTTP on a periodic reader.
func NewMetricsProvider(ctx context.Context, config MetricsConfig) (*MetricsProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if config.Endpoint != "" {
		expOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
		if config.Insecure {
			expOpts = append(expOpts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, expOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}

		interval := config.Interval
		if interval <= 0 {
			interval = 30 * time.Second
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)),
		))
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	return &MetricsProvider{
		provider: provider,
		meter:    provider.Meter(config.ServiceName),
		config:   config,
	}, nil
}

// Meter returns the meter for creating instruments.
func (m *MetricsProvider) Meter() metric.Meter {
	return m.meter
}

// Shutdown shuts down the metrics provider.
func (m *MetricsProvider) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// HTTPMetrics provides HTTP-related metrics.
type HTTPMetrics struct {
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics creates HTTP metrics.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// RecordRequest records HTTP request metrics.
func (m *HTTPMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", status),
		attribute.String("status_class", statusClass(status)),
	)

	m.requestsTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// GeoMetrics counts provider traffic and enrichment outcomes. A nil
// *GeoMetrics is valid and records nothing.
type GeoMetrics struct {
	providerCalls      metric.Int64Counter
	providerDuration   metric.Float64Histogram
	cacheLookups       metric.Int64Counter
	placesEnriched     metric.Int64Counter
	partialEnrichments metric.Int64Counter
	detailsInFlight    metric.Int64UpDownCounter
}

// NewGeoMetrics creates the geo engine instruments.
func NewGeoMetrics(meter metric.Meter) (*GeoMetrics, error) {
	providerCalls, err := meter.Int64Counter(
		"geo_provider_calls_total",
		metric.WithDescription("Provider calls by operation and provider status"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, err
	}

	providerDuration, err := meter.Float64Histogram(
		"geo_provider_call_duration_seconds",
		metric.WithDescription("Provider call latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"geo_cache_lookups_total",
		metric.WithDescription("Provider cache lookups by result"),
	)
	if err != nil {
		return nil, err
	}

	placesEnriched, err := meter.Int64Counter(
		"geo_places_enriched_total",
		metric.WithDescription("Places returned with full details"),
	)
	if err != nil {
		return nil, err
	}

	partialEnrichments, err := meter.Int64Counter(
		"geo_partial_enrichments_total",
		metric.WithDescription("Places returned with basic data only"),
	)
	if err != nil {
		return nil, err
	}

	detailsInFlight, err := meter.Int64UpDownCounter(
		"geo_details_in_flight",
		metric.WithDescription("Place details calls currently in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &GeoMetrics{
		providerCalls:      providerCalls,
		providerDuration:   providerDuration,
		cacheLookups:       cacheLookups,
		placesEnriched:     placesEnriched,
		partialEnrichments: partialEnrichments,
		detailsInFlight:    detailsInFlight,
	}, nil
}

// RecordProviderCall records one provider round trip. status is the
// provider status string, or "TRANSPORT_ERROR" when no body was decoded.
func (m *GeoMetrics) RecordProviderCall(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.providerCalls.Add(ctx, 1, attrs)
	m.providerDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCacheLookup records a cache hit or miss for an operation.
func (m *GeoMetrics) RecordCacheLookup(ctx context.Context, operation string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}

// RecordEnrichment records the outcome counts of one enrichment run.
func (m *GeoMetrics) RecordEnrichment(ctx context.Context, enriched, partial int) {
	if m == nil {
		return
	}
	m.placesEnriched.Add(ctx, int64(enriched))
	m.partialEnrichments.Add(ctx, int64(partial))
}

// DetailStarted marks a details call as in flight.
func (m *GeoMetrics) DetailStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.detailsInFlight.Add(ctx, 1)
}

// DetailFinished marks a details call as done.
func (m *GeoMetrics) DetailFinished(ctx context.Context) {
	if m == nil {
		return
	}
	m.detailsInFlight.Add(ctx, -1)
}

// MetricsMiddleware creates an HTTP middleware that records metrics.
// route resolves the low-cardinality route pattern for a request.
func MetricsMiddleware(metrics *HTTPMetrics, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			metrics.activeRequests.Add(ctx, 1)
			defer metrics.activeRequests.Add(ctx, -1)

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if route != nil {
				if p := route(r); p != "" {
					path = p
				}
			}
			metrics.RecordRequest(ctx, r.Method, path, wrapped.status, time.Since(start))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
