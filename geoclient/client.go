// Package geoclient is the entry point used by property reports. It wires
// the provider client, the places enricher and the map and street-level
// URL builders behind one facade.
package geoclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/mycobrun/geoengine/config"
	apperrors "github.com/mycobrun/geoengine/errors"
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/logging"
	"github.com/mycobrun/geoengine/maps"
	"github.com/mycobrun/geoengine/places"
	"github.com/mycobrun/geoengine/staticmap"
	"github.com/mycobrun/geoengine/streetview"
	"github.com/mycobrun/geoengine/telemetry"
	"github.com/mycobrun/geoengine/validation"
)

// Options carries optional collaborators. Zero values disable them.
type Options struct {
	Logger    *logging.Logger
	Tracer    *maps.Tracer
	Metrics   *telemetry.GeoMetrics
	Cache     maps.Cache
	Limiter   maps.RateLimiter
	Transport http.RoundTripper

	// StaticMapBaseURL and StreetViewBaseURL override the image endpoints.
	StaticMapBaseURL  string
	StreetViewBaseURL string
}

// Client is the geo engine facade.
type Client struct {
	apiKey   string
	maps     *maps.Client
	enricher *places.Enricher
	static   *staticmap.Builder
	street   *streetview.URLBuilder
	logger   *logging.Logger
}

// New creates a facade from provider configuration. A missing API key is
// not an error here; every operation reports it on use.
func New(cfg config.MapsConfig, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	mc := maps.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		mc.BaseURL = cfg.BaseURL
	}
	if cfg.DefaultLanguage != "" {
		mc.DefaultLanguage = cfg.DefaultLanguage
	}
	mc.DefaultRegion = cfg.DefaultRegion
	if cfg.Timeout > 0 {
		mc.Timeout = cfg.Timeout
	}
	mc.MaxRetries = cfg.MaxRetries
	if cfg.CacheTTL > 0 {
		mc.CacheTTL = cfg.CacheTTL
	}
	mc.Transport = opts.Transport

	mapsOpts := []maps.Option{
		maps.WithLogger(logger.With("component", "maps")),
		maps.WithTracer(opts.Tracer),
		maps.WithMetrics(opts.Metrics),
	}
	if opts.Cache != nil {
		mapsOpts = append(mapsOpts, maps.WithCache(opts.Cache))
	}
	if opts.Limiter != nil {
		mapsOpts = append(mapsOpts, maps.WithRateLimiter(opts.Limiter))
	}
	provider := maps.NewClient(mc, mapsOpts...)

	enrichCfg := places.DefaultConfig()
	if cfg.DetailConcurrency > 0 {
		enrichCfg.DetailConcurrency = cfg.DetailConcurrency
	}
	enricher := places.NewEnricher(provider, enrichCfg,
		places.WithLogger(logger.With("component", "places")),
		places.WithTracer(opts.Tracer),
		places.WithMetrics(opts.Metrics),
	)

	return &Client{
		apiKey:   cfg.APIKey,
		maps:     provider,
		enricher: enricher,
		static: staticmap.NewBuilder(staticmap.Config{
			BaseURL:         opts.StaticMapBaseURL,
			APIKey:          cfg.APIKey,
			DefaultLanguage: mc.DefaultLanguage,
			DefaultRegion:   cfg.DefaultRegion,
		}),
		street: streetview.NewURLBuilder(opts.StreetViewBaseURL, cfg.APIKey),
		logger: logger,
	}
}

// CheckCredential returns a configuration error when no API key is set.
func (c *Client) CheckCredential() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return apperrors.Configuration("places provider API key is not configured")
	}
	return nil
}

// CircuitState reports the provider circuit breaker state.
func (c *Client) CircuitState() string {
	return c.maps.CircuitState()
}

// EnrichNearbyPlaces finds and enriches places around a location.
func (c *Client) EnrichNearbyPlaces(ctx context.Context, req places.NearbyRequest) (*places.Result, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	return c.enricher.EnrichNearbyPlaces(ctx, req)
}

// SearchByText finds and enriches places matching a free-text query.
func (c *Client) SearchByText(ctx context.Context, req places.TextRequest) (*places.Result, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	return c.enricher.SearchByText(ctx, req)
}

// Geocode resolves an address.
func (c *Client) Geocode(ctx context.Context, address, language string) (*maps.GeocodeResult, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(address) == "" {
		return nil, apperrors.BadRequest("address is required")
	}
	return c.maps.Geocode(ctx, address, language)
}

// ReverseGeocode resolves a location to an address.
func (c *Client) ReverseGeocode(ctx context.Context, location geo.Location, language string) (*maps.GeocodeResult, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	return c.maps.ReverseGeocode(ctx, validation.ClampLocation(location), language)
}

// BuildPropertyMap returns a static map URL with the property labeled P and
// up to ten nearby places labeled A..J in list order.
func (c *Client) BuildPropertyMap(property geo.Location, nearby []places.Place, view staticmap.View) (string, error) {
	if err := c.CheckCredential(); err != nil {
		return "", err
	}
	locations := make([]geo.Location, 0, len(nearby))
	for _, p := range nearby {
		locations = append(locations, p.Location)
	}
	return c.static.BuildPropertyMap(property, locations, view), nil
}

// BuildTransportationMap returns a static map URL with one styled marker
// per transit stop.
func (c *Client) BuildTransportationMap(property geo.Location, stops []staticmap.TransitStop, view staticmap.View) (string, error) {
	if err := c.CheckCredential(); err != nil {
		return "", err
	}
	return c.static.BuildTransportationMap(property, stops, view), nil
}

// AreaOverview is an area overview map and its overlay geometry.
type AreaOverview struct {
	URL          string           `json:"url"`
	RadiusMeters int              `json:"radius_meters"`
	Area         *geojson.Feature `json:"area"`
}

// BuildAreaOverviewMap returns a static map URL with a circle of radius
// around center, plus the circle as GeoJSON.
func (c *Client) BuildAreaOverviewMap(center geo.Location, radiusMeters int, view staticmap.View) (*AreaOverview, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	center = validation.ClampLocation(center)
	radius := validation.ClampRadiusMeters(radiusMeters)
	return &AreaOverview{
		URL:          c.static.BuildAreaOverviewMap(center, radius, view),
		RadiusMeters: radius,
		Area:         geo.AreaFeature(center, float64(radius), geo.DefaultCirclePoints),
	}, nil
}

// DistanceResult is the great-circle relation between two points.
type DistanceResult struct {
	Meters    float64 `json:"meters"`
	Km        float64 `json:"km"`
	Bearing   float64 `json:"bearing"`
	Compass   string  `json:"compass"`
	Direction string  `json:"direction"`
}

// Distance computes the distance and bearing from a to b locally.
func (c *Client) Distance(a, b geo.Location) (*DistanceResult, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	a, b = validation.ClampLocation(a), validation.ClampLocation(b)
	bearing := geo.Bearing(a, b)
	return &DistanceResult{
		Meters:    geo.DistanceMeters(a, b),
		Km:        geo.DistanceKm(a, b),
		Bearing:   bearing,
		Compass:   geo.BearingToCompass(bearing),
		Direction: geo.BearingToDirectionName(bearing),
	}, nil
}

// StreetViewCoverage scores captures for a property type.
func (c *Client) StreetViewCoverage(captures []streetview.Capture, propertyType string) (*streetview.CoverageReport, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	report := streetview.Coverage(captures, propertyType)
	return &report, nil
}

// StreetViewURLs builds a street-level image URL for each heading. No
// headings selects the four cardinals.
func (c *Client) StreetViewURLs(location geo.Location, headings []float64, size validation.Size) ([]streetview.Capture, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	if len(headings) == 0 {
		headings = streetview.RequiredFor("")
	}
	return c.street.Captures(location, headings, size), nil
}

// PropertyReport bundles the geo data attached to one property report.
type PropertyReport struct {
	Location    geo.Location   `json:"location"`
	Address     string         `json:"address,omitempty"`
	Places      []places.Place `json:"places"`
	TotalPlaces int            `json:"total_places"`
	MapURL      string         `json:"map_url"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// BuildPropertyReport runs the report flow: enrich places around the
// location and build the property map from them. A failed reverse geocode
// only leaves Address empty.
func (c *Client) BuildPropertyReport(ctx context.Context, location geo.Location, req places.NearbyRequest, view staticmap.View) (*PropertyReport, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	req.Origin = location

	result, err := c.enricher.EnrichNearbyPlaces(ctx, req)
	if err != nil {
		return nil, err
	}

	report := &PropertyReport{
		Location:    validation.ClampLocation(location),
		Places:      result.Places,
		TotalPlaces: result.TotalResults,
		GeneratedAt: time.Now().UTC(),
	}

	if g, err := c.maps.ReverseGeocode(ctx, report.Location, req.Language); err == nil {
		report.Address = g.FormattedAddress
	} else {
		c.logger.Warn("reverse geocode failed for report", "error", err.Error())
	}

	report.MapURL, _ = c.BuildPropertyMap(report.Location, result.Places, view)
	return report, nil
}
