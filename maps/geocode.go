package maps

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mycobrun/geoengine/geo"
)

type geocodeResponse struct {
	Results []struct {
		PlaceID           string             `json:"place_id"`
		FormattedAddress  string             `json:"formatted_address"`
		Types             []string           `json:"types"`
		AddressComponents []AddressComponent `json:"address_components"`
		Geometry          struct {
			Location     geo.Location `json:"location"`
			LocationType string       `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

func (r geocodeResponse) first() *GeocodeResult {
	g := r.Results[0]
	return &GeocodeResult{
		PlaceID:           g.PlaceID,
		FormattedAddress:  g.FormattedAddress,
		Location:          g.Geometry.Location,
		LocationType:      g.Geometry.LocationType,
		Types:             g.Types,
		AddressComponents: g.AddressComponents,
	}
}

// Geocode resolves an address to its best match. Any status other than OK,
// ZERO_RESULTS included, is returned as a provider error.
func (c *Client) Geocode(ctx context.Context, address, language string) (*GeocodeResult, error) {
	ctx, span := c.startSpan(ctx, "maps.Geocode")
	defer span.End()

	address = strings.TrimSpace(address)
	lang := c.language(language)
	cacheKey := fmt.Sprintf("geocode:%s:%s", strings.ToLower(address), lang)

	var result GeocodeResult
	if c.cacheGet(ctx, "geocode", cacheKey, &result) {
		return &result, nil
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("language", lang)
	if c.config.DefaultRegion != "" {
		params.Set("region", c.config.DefaultRegion)
	}

	got, err := c.geocode(ctx, "geocode", params)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(GeocodeAttributes("geocode", got.Location)...)
	c.logger.Debug("geocode completed", "place_id", got.PlaceID)

	c.cacheSet(ctx, cacheKey, got)
	return got, nil
}

// ReverseGeocode resolves a location to its best address match.
func (c *Client) ReverseGeocode(ctx context.Context, location geo.Location, language string) (*GeocodeResult, error) {
	ctx, span := c.startSpan(ctx, "maps.ReverseGeocode")
	defer span.End()

	lang := c.language(language)
	cacheKey := fmt.Sprintf("revgeo:%s:%s", c.cells.CellString(location), lang)

	var result GeocodeResult
	if c.cacheGet(ctx, "reverse_geocode", cacheKey, &result) {
		return &result, nil
	}

	params := url.Values{}
	params.Set("latlng", formatLatLng(location))
	params.Set("language", lang)

	got, err := c.geocode(ctx, "reverse_geocode", params)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(GeocodeAttributes("reverse_geocode", location)...)
	c.logger.Debug("reverse geocode completed",
		"lat", location.Lat,
		"lng", location.Lng,
		"place_id", got.PlaceID)

	c.cacheSet(ctx, cacheKey, got)
	return got, nil
}

func (c *Client) geocode(ctx context.Context, operation string, params url.Values) (*GeocodeResult, error) {
	var resp geocodeResponse
	env, err := c.call(ctx, operation, geocodePath, params, &resp)
	if err != nil {
		return nil, err
	}
	if env.Status != StatusOK {
		return nil, statusError(strings.ReplaceAll(operation, "_", " "), env)
	}
	if len(resp.Results) == 0 {
		return nil, statusError(operation, envelope{Status: StatusZeroResults})
	}
	return resp.first(), nil
}
