package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestGeoMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewGeoMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordProviderCall(ctx, "nearby_search", "OK", 120*time.Millisecond)
	m.RecordProviderCall(ctx, "place_details", "NOT_FOUND", 80*time.Millisecond)
	m.RecordCacheLookup(ctx, "place_details", true)
	m.RecordCacheLookup(ctx, "place_details", false)
	m.RecordEnrichment(ctx, 2, 1)
	m.DetailStarted(ctx)
	m.DetailStarted(ctx)
	m.DetailFinished(ctx)

	got := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, got["geo_provider_calls_total"]))
	assert.Equal(t, int64(2), sumOf(t, got["geo_cache_lookups_total"]))
	assert.Equal(t, int64(2), sumOf(t, got["geo_places_enriched_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["geo_partial_enrichments_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["geo_details_in_flight"]))

	calls := got["geo_provider_calls_total"].Data.(metricdata.Sum[int64])
	statuses := map[string]bool{}
	for _, dp := range calls.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("status"))
		statuses[v.AsString()] = true
	}
	assert.True(t, statuses["OK"])
	assert.True(t, statuses["NOT_FOUND"])
}

func TestGeoMetrics_NilIsNoop(t *testing.T) {
	var m *GeoMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordProviderCall(ctx, "geocode", "OK", time.Second)
		m.RecordCacheLookup(ctx, "geocode", true)
		m.RecordEnrichment(ctx, 1, 1)
		m.DetailStarted(ctx)
		m.DetailFinished(ctx)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	hm, err := NewHTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	handler := MetricsMiddleware(hm, func(*http.Request) string { return "/v1/places/nearby" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/places/nearby", nil))

	got := collect(t, reader)
	total := got["http_requests_total"].Data.(metricdata.Sum[int64])
	require.Len(t, total.DataPoints, 1)

	route, _ := total.DataPoints[0].Attributes.Value("route")
	class, _ := total.DataPoints[0].Attributes.Value("status_class")
	assert.Equal(t, "/v1/places/nearby", route.AsString())
	assert.Equal(t, "5xx", class.AsString())
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 302: "3xx", 404: "4xx", 503: "5xx", 100: "unknown"}
	for status, want := range tests {
		assert.Equal(t, want, statusClass(status), "status %d", status)
	}
}
