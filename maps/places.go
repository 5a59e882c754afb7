package maps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mycobrun/geoengine/geo"
)

// DetailFields is the field mask requested for every place details call.
var DetailFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"formatted_phone_number",
	"international_phone_number",
	"website",
	"geometry",
	"rating",
	"user_ratings_total",
	"price_level",
	"opening_hours",
	"photos",
	"reviews",
	"types",
	"business_status",
}

// NearbySearchRequest is a radius search around a location.
type NearbySearchRequest struct {
	Location     geo.Location
	RadiusMeters int
	Type         string
	Keyword      string
	Language     string
}

// NearbySearch returns raw candidates in provider ranking order.
// ZERO_RESULTS is a successful empty result.
func (c *Client) NearbySearch(ctx context.Context, req NearbySearchRequest) (*SearchResult, error) {
	ctx, span := c.startSpan(ctx, "maps.NearbySearch")
	defer span.End()

	lang := c.language(req.Language)
	cacheKey := fmt.Sprintf("nearby:%s:%d:%s:%s:%s",
		c.cells.CellString(req.Location), req.RadiusMeters, req.Type, req.Keyword, lang)

	var result SearchResult
	if c.cacheGet(ctx, "nearby_search", cacheKey, &result) {
		span.SetAttributes(attribute.Bool("maps.cache_hit", true))
		return &result, nil
	}

	params := url.Values{}
	params.Set("location", formatLatLng(req.Location))
	params.Set("radius", strconv.Itoa(req.RadiusMeters))
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}
	params.Set("language", lang)

	env, err := c.call(ctx, "nearby_search", nearbySearchPath, params, &result)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if env.Status != StatusOK && env.Status != StatusZeroResults {
		err := statusError("nearby search", env)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(SearchAttributes("nearby_search", env.Status, len(result.Candidates))...)
	c.logger.Debug("nearby search completed",
		"lat", req.Location.Lat,
		"lng", req.Location.Lng,
		"radius_m", req.RadiusMeters,
		"type", req.Type,
		"status", env.Status,
		"results", len(result.Candidates))

	c.cacheSet(ctx, cacheKey, result)
	return &result, nil
}

// TextSearchRequest is a free-text search with an optional location bias.
type TextSearchRequest struct {
	Query        string
	Location     *geo.Location
	RadiusMeters int
	Type         string
	Language     string
	Region       string
}

// TextSearch returns raw candidates for a free-text query. Location and
// radius bias the ranking but do not filter.
func (c *Client) TextSearch(ctx context.Context, req TextSearchRequest) (*SearchResult, error) {
	ctx, span := c.startSpan(ctx, "maps.TextSearch")
	defer span.End()

	params := url.Values{}
	params.Set("query", strings.TrimSpace(req.Query))
	if req.Location != nil {
		params.Set("location", formatLatLng(*req.Location))
		if req.RadiusMeters > 0 {
			params.Set("radius", strconv.Itoa(req.RadiusMeters))
		}
	}
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	params.Set("language", c.language(req.Language))
	if region := firstNonEmpty(req.Region, c.config.DefaultRegion); region != "" {
		params.Set("region", region)
	}

	var result SearchResult
	env, err := c.call(ctx, "text_search", textSearchPath, params, &result)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if env.Status != StatusOK && env.Status != StatusZeroResults {
		err := statusError("text search", env)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(SearchAttributes("text_search", env.Status, len(result.Candidates))...)
	c.logger.Debug("text search completed",
		"query_length", len(req.Query),
		"status", env.Status,
		"results", len(result.Candidates))

	return &result, nil
}

// PlaceDetails fetches the full record for one place. Only OK is accepted.
func (c *Client) PlaceDetails(ctx context.Context, placeID, language string) (*PlaceDetails, error) {
	ctx, span := c.startSpan(ctx, "maps.PlaceDetails")
	defer span.End()
	span.SetAttributes(attribute.String("maps.place_id", placeID))

	lang := c.language(language)
	cacheKey := fmt.Sprintf("place:%s:%s", placeID, lang)

	var details PlaceDetails
	if c.cacheGet(ctx, "place_details", cacheKey, &details) {
		span.SetAttributes(attribute.Bool("maps.cache_hit", true))
		return &details, nil
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(DetailFields, ","))
	params.Set("language", lang)
	params.Set("reviews_sort", "most_relevant")

	var resp struct {
		Result PlaceDetails `json:"result"`
	}
	env, err := c.call(ctx, "place_details", placeDetailsPath, params, &resp)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if env.Status != StatusOK {
		err := statusError("place details", env)
		span.RecordError(err)
		return nil, err
	}

	details = resp.Result
	if details.PlaceID == "" {
		details.PlaceID = placeID
	}

	c.logger.Debug("place details retrieved",
		"place_id", placeID,
		"photos", len(details.Photos),
		"reviews", len(details.Reviews))

	c.cacheSet(ctx, cacheKey, details)
	return &details, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
