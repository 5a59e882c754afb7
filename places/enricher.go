package places

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/mycobrun/geoengine/errors"
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/logging"
	"github.com/mycobrun/geoengine/maps"
	"github.com/mycobrun/geoengine/telemetry"
	"github.com/mycobrun/geoengine/validation"
)

const (
	// DefaultDetailConcurrency bounds in-flight details calls.
	DefaultDetailConcurrency = 5
	// DefaultLimit is the number of candidates enriched when none is given.
	DefaultLimit = 20
)

// Provider is the subset of the maps client the enricher uses.
type Provider interface {
	CheckCredential() error
	NearbySearch(ctx context.Context, req maps.NearbySearchRequest) (*maps.SearchResult, error)
	TextSearch(ctx context.Context, req maps.TextSearchRequest) (*maps.SearchResult, error)
	PlaceDetails(ctx context.Context, placeID, language string) (*maps.PlaceDetails, error)
	PhotoURL(reference string) string
}

// Config holds enricher configuration.
type Config struct {
	DetailConcurrency int
	DefaultLimit      int
}

// DefaultConfig returns the default enricher configuration.
func DefaultConfig() Config {
	return Config{
		DetailConcurrency: DefaultDetailConcurrency,
		DefaultLimit:      DefaultLimit,
	}
}

// Enricher turns search candidates into ranked, enriched places.
type Enricher struct {
	provider Provider
	config   Config
	logger   *logging.Logger
	tracer   *maps.Tracer
	metrics  *telemetry.GeoMetrics
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Enricher) { e.logger = l }
}

// WithTracer sets the span tracer.
func WithTracer(t *maps.Tracer) Option {
	return func(e *Enricher) { e.tracer = t }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *telemetry.GeoMetrics) Option {
	return func(e *Enricher) { e.metrics = m }
}

// NewEnricher creates an enricher over provider.
func NewEnricher(provider Provider, config Config, opts ...Option) *Enricher {
	if config.DetailConcurrency < 1 {
		config.DetailConcurrency = DefaultDetailConcurrency
	}
	if config.DefaultLimit < 1 {
		config.DefaultLimit = DefaultLimit
	}
	e := &Enricher{
		provider: provider,
		config:   config,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NearbyRequest describes a nearby places enrichment.
type NearbyRequest struct {
	Origin       geo.Location
	RadiusMeters int
	Type         string
	Keyword      string
	Language     string
	Limit        int
}

// TextRequest describes a text search enrichment. Origin and radius bias
// ranking only.
type TextRequest struct {
	Query        string
	Origin       *geo.Location
	RadiusMeters int
	Type         string
	Language     string
	Region       string
	Limit        int
}

// Result is an enrichment result. Places and Outcomes are index aligned.
// TotalResults counts the candidates returned by the search before the
// limit was applied.
type Result struct {
	Places       []Place   `json:"places"`
	Outcomes     []Outcome `json:"-"`
	TotalResults int       `json:"total_results"`
}

// PartialCount returns the number of places without details.
func (r *Result) PartialCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if _, ok := o.(Partial); ok {
			n++
		}
	}
	return n
}

// EnrichNearbyPlaces runs a nearby search around the origin and enriches
// each candidate. Only a missing credential or a failed search is an error.
// Details failures and cancellation yield Partial outcomes.
func (e *Enricher) EnrichNearbyPlaces(ctx context.Context, req NearbyRequest) (*Result, error) {
	if err := e.provider.CheckCredential(); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.StartSpan(ctx, "places.EnrichNearbyPlaces")
	defer span.End()

	origin := validation.ClampLocation(req.Origin)
	radius := validation.ClampRadiusMeters(req.RadiusMeters)
	span.SetAttributes(
		attribute.Int("places.radius_m", radius),
		attribute.String("places.type", req.Type),
	)

	search, err := e.provider.NearbySearch(ctx, maps.NearbySearchRequest{
		Location:     origin,
		RadiusMeters: radius,
		Type:         req.Type,
		Keyword:      req.Keyword,
		Language:     req.Language,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := e.enrich(ctx, &origin, search.Candidates, req.Language, req.Limit)
	span.SetAttributes(maps.EnrichmentAttributes(result.TotalResults, len(result.Places)-result.PartialCount(), result.PartialCount())...)
	return result, nil
}

// SearchByText runs a text search and enriches each candidate. Without an
// origin distances are zero and provider order is kept.
func (e *Enricher) SearchByText(ctx context.Context, req TextRequest) (*Result, error) {
	if err := e.provider.CheckCredential(); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperrors.BadRequest("query is required")
	}

	ctx, span := e.tracer.StartSpan(ctx, "places.SearchByText")
	defer span.End()

	searchReq := maps.TextSearchRequest{
		Query:    query,
		Type:     req.Type,
		Language: req.Language,
		Region:   req.Region,
	}
	var origin *geo.Location
	if req.Origin != nil {
		o := validation.ClampLocation(*req.Origin)
		origin = &o
		searchReq.Location = origin
		if req.RadiusMeters > 0 {
			searchReq.RadiusMeters = validation.ClampRadiusMeters(req.RadiusMeters)
		}
	}

	search, err := e.provider.TextSearch(ctx, searchReq)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := e.enrich(ctx, origin, search.Candidates, req.Language, req.Limit)
	span.SetAttributes(maps.EnrichmentAttributes(result.TotalResults, len(result.Places)-result.PartialCount(), result.PartialCount())...)
	return result, nil
}

// enrich fetches details for up to limit candidates with bounded
// concurrency, then sorts by distance from origin. A nil origin keeps
// provider order.
func (e *Enricher) enrich(ctx context.Context, origin *geo.Location, candidates []maps.Candidate, language string, limit int) *Result {
	total := len(candidates)
	if limit <= 0 {
		limit = e.config.DefaultLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	outcomes := make([]Outcome, len(candidates))

	// Failures are absorbed per place, so the group never cancels siblings.
	var g errgroup.Group
	g.SetLimit(e.config.DetailConcurrency)

	for i, c := range candidates {
		basic := basicPlace(c)
		if origin != nil {
			basic.DistanceMeters = geo.DistanceMeters(*origin, basic.Location)
		}

		if err := ctx.Err(); err != nil {
			outcomes[i] = Partial{Basic: basic, Cause: err}
			continue
		}

		i := i
		g.Go(func() error {
			outcomes[i] = e.enrichOne(ctx, basic, language)
			return nil
		})
	}
	_ = g.Wait()

	if origin != nil {
		order := make([]int, len(outcomes))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return PlaceOf(outcomes[order[a]]).DistanceMeters < PlaceOf(outcomes[order[b]]).DistanceMeters
		})
		sorted := make([]Outcome, len(outcomes))
		for i, idx := range order {
			sorted[i] = outcomes[idx]
		}
		outcomes = sorted
	}

	result := &Result{
		Places:       make([]Place, len(outcomes)),
		Outcomes:     outcomes,
		TotalResults: total,
	}
	for i, o := range outcomes {
		result.Places[i] = PlaceOf(o)
	}

	partial := result.PartialCount()
	e.metrics.RecordEnrichment(ctx, len(outcomes)-partial, partial)
	e.logger.Debug("places enriched",
		"candidates", total,
		"returned", len(outcomes),
		"partial", partial)

	return result
}

func (e *Enricher) enrichOne(ctx context.Context, basic Place, language string) Outcome {
	if err := ctx.Err(); err != nil {
		return Partial{Basic: basic, Cause: err}
	}

	e.metrics.DetailStarted(ctx)
	defer e.metrics.DetailFinished(ctx)

	details, err := e.provider.PlaceDetails(ctx, basic.PlaceID, language)
	if err != nil {
		e.logger.Warn("place details failed, returning basic place",
			"place_id", basic.PlaceID,
			"error", err.Error())
		return Partial{Basic: basic, Cause: err}
	}

	return Enriched{Place: withDetails(basic, details, e.provider.PhotoURL)}
}
