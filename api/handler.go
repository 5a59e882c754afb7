// Package api exposes the geo engine facade over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/mycobrun/geoengine/errors"
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/geoclient"
	httpx "github.com/mycobrun/geoengine/http"
	"github.com/mycobrun/geoengine/maps"
	"github.com/mycobrun/geoengine/places"
	"github.com/mycobrun/geoengine/staticmap"
	"github.com/mycobrun/geoengine/streetview"
	"github.com/mycobrun/geoengine/validation"
)

const (
	maxBodyBytes = 1 << 20
	sourcePlaces = "places"
)

// Service is the facade the handlers call.
type Service interface {
	EnrichNearbyPlaces(ctx context.Context, req places.NearbyRequest) (*places.Result, error)
	SearchByText(ctx context.Context, req places.TextRequest) (*places.Result, error)
	Geocode(ctx context.Context, address, language string) (*maps.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, location geo.Location, language string) (*maps.GeocodeResult, error)
	BuildPropertyMap(property geo.Location, nearby []places.Place, view staticmap.View) (string, error)
	BuildTransportationMap(property geo.Location, stops []staticmap.TransitStop, view staticmap.View) (string, error)
	BuildAreaOverviewMap(center geo.Location, radiusMeters int, view staticmap.View) (*geoclient.AreaOverview, error)
	Distance(a, b geo.Location) (*geoclient.DistanceResult, error)
	StreetViewCoverage(captures []streetview.Capture, propertyType string) (*streetview.CoverageReport, error)
	StreetViewURLs(location geo.Location, headings []float64, size validation.Size) ([]streetview.Capture, error)
	BuildPropertyReport(ctx context.Context, location geo.Location, req places.NearbyRequest, view staticmap.View) (*geoclient.PropertyReport, error)
}

// Handler serves the /v1 routes.
type Handler struct {
	svc Service
}

// NewHandler creates a handler backed by svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// PlaceView is a place annotated with its direction from the search origin.
type PlaceView struct {
	places.Place
	Direction string `json:"direction,omitempty"`
}

func placeViews(origin *geo.Location, ps []places.Place) []PlaceView {
	out := make([]PlaceView, len(ps))
	for i, p := range ps {
		out[i] = PlaceView{Place: p}
		if origin != nil {
			out[i].Direction = geo.DirectionTo(*origin, p.Location)
		}
	}
	return out
}

func placesMeta(res *places.Result) *httpx.Meta {
	return &httpx.Meta{
		Total:    res.TotalResults,
		Returned: len(res.Places),
		Partial:  res.PartialCount(),
		Source:   sourcePlaces,
	}
}

// NearbyPlaces handles POST /v1/places/nearby.
func (h *Handler) NearbyPlaces(w http.ResponseWriter, r *http.Request) {
	var req NearbyPlacesRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.svc.EnrichNearbyPlaces(r.Context(), req.nearby())
	if err != nil {
		fail(w, r, err)
		return
	}

	origin := validation.ClampLocation(req.Location.location())
	httpx.OKWithMeta(w, placeViews(&origin, res.Places), placesMeta(res))
}

// SearchPlaces handles POST /v1/places/search.
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	var req TextSearchRequest
	if !decode(w, r, &req) {
		return
	}

	text := req.text()
	res, err := h.svc.SearchByText(r.Context(), text)
	if err != nil {
		fail(w, r, err)
		return
	}

	var origin *geo.Location
	if text.Origin != nil {
		o := validation.ClampLocation(*text.Origin)
		origin = &o
	}
	httpx.OKWithMeta(w, placeViews(origin, res.Places), placesMeta(res))
}

type urlResponse struct {
	URL string `json:"url"`
}

// PropertyMap handles POST /v1/maps/property.
func (h *Handler) PropertyMap(w http.ResponseWriter, r *http.Request) {
	var req PropertyMapRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.svc.BuildPropertyMap(req.Location.location(), req.pins(), req.View)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, urlResponse{URL: u})
}

type transportationResponse struct {
	URL    string                  `json:"url"`
	Legend []staticmap.LegendEntry `json:"legend"`
}

// TransportationMap handles POST /v1/maps/transportation.
func (h *Handler) TransportationMap(w http.ResponseWriter, r *http.Request) {
	var req TransportationMapRequest
	if !decode(w, r, &req) {
		return
	}

	stops := req.stops()
	u, err := h.svc.BuildTransportationMap(req.Location.location(), stops, req.View)
	if err != nil {
		fail(w, r, err)
		return
	}

	legend := staticmap.TransitLegend(stops)
	if legend == nil {
		legend = []staticmap.LegendEntry{}
	}
	httpx.OK(w, transportationResponse{URL: u, Legend: legend})
}

// AreaMap handles POST /v1/maps/area.
func (h *Handler) AreaMap(w http.ResponseWriter, r *http.Request) {
	var req AreaMapRequest
	if !decode(w, r, &req) {
		return
	}

	overview, err := h.svc.BuildAreaOverviewMap(req.Location.location(), req.RadiusMeters, req.View)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, overview)
}

// Geocode handles GET /v1/geocode?address=...&language=...
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	language := q.Get("language")
	if err := validation.ValidateVar(language, "language"); err != nil {
		fail(w, r, apperrors.BadRequest("language must be a language code such as en or zh-TW"))
		return
	}

	res, err := h.svc.Geocode(r.Context(), q.Get("address"), language)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, res)
}

// ReverseGeocode handles GET /v1/geocode/reverse?lat=...&lng=...
func (h *Handler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := parseCoord(q.Get("lat"), "lat", "latitude")
	if err != nil {
		fail(w, r, err)
		return
	}
	lng, err := parseCoord(q.Get("lng"), "lng", "longitude")
	if err != nil {
		fail(w, r, err)
		return
	}

	res, err := h.svc.ReverseGeocode(r.Context(), geo.Location{Lat: lat, Lng: lng}, q.Get("language"))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, res)
}

// Distance handles POST /v1/distance.
func (h *Handler) Distance(w http.ResponseWriter, r *http.Request) {
	var req DistanceRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.svc.Distance(req.From.location(), req.To.location())
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, res)
}

// StreetViewCoverage handles POST /v1/streetview/coverage.
func (h *Handler) StreetViewCoverage(w http.ResponseWriter, r *http.Request) {
	var req CoverageRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.svc.StreetViewCoverage(req.Captures, req.PropertyType)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, report)
}

// StreetViewURLs handles POST /v1/streetview/url.
func (h *Handler) StreetViewURLs(w http.ResponseWriter, r *http.Request) {
	var req StreetViewURLRequest
	if !decode(w, r, &req) {
		return
	}

	captures, err := h.svc.StreetViewURLs(req.Location.location(), req.Headings, req.Size)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, captures)
}

// PropertyReport handles POST /v1/reports/property.
func (h *Handler) PropertyReport(w http.ResponseWriter, r *http.Request) {
	var req PropertyReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.svc.BuildPropertyReport(r.Context(), req.Location.location(), req.nearby(), req.View)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.OK(w, report)
}

// decode reads and validates a JSON body, writing the error response
// itself when it returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		fail(w, r, apperrors.BadRequest("request body must be valid JSON"))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		details := validation.ParseValidationErrors(err)
		fail(w, r, apperrors.ValidationWithDetails("request validation failed", details.Details()))
		return false
	}
	return true
}

func parseCoord(raw, field, tag string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, apperrors.BadRequest(field + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.BadRequest(field + " must be a number")
	}
	if err := validation.ValidateVar(v, tag); err != nil {
		return 0, apperrors.BadRequest(field + " must be a valid " + tag)
	}
	return v, nil
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.Timeout("request timed out")
	}
	httpx.Error(w, r, err)
}
