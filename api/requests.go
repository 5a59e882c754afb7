package api

import (
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/places"
	"github.com/mycobrun/geoengine/staticmap"
	"github.com/mycobrun/geoengine/streetview"
	"github.com/mycobrun/geoengine/validation"
)

// Point is a coordinate in a request body.
type Point struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

func (p Point) location() geo.Location {
	return geo.Location{Lat: p.Lat, Lng: p.Lng}
}

// NearbyPlacesRequest is the body of POST /v1/places/nearby.
type NearbyPlacesRequest struct {
	Location     Point  `json:"location"`
	RadiusMeters int    `json:"radius_meters"`
	Type         string `json:"type,omitempty"`
	Keyword      string `json:"keyword,omitempty"`
	Language     string `json:"language,omitempty" validate:"language"`
	Limit        int    `json:"limit,omitempty" validate:"min=0,max=60"`
}

func (r NearbyPlacesRequest) nearby() places.NearbyRequest {
	return places.NearbyRequest{
		Origin:       r.Location.location(),
		RadiusMeters: r.RadiusMeters,
		Type:         r.Type,
		Keyword:      r.Keyword,
		Language:     r.Language,
		Limit:        r.Limit,
	}
}

// TextSearchRequest is the body of POST /v1/places/search.
type TextSearchRequest struct {
	Query        string `json:"query"`
	Location     *Point `json:"location,omitempty"`
	RadiusMeters int    `json:"radius_meters,omitempty"`
	Type         string `json:"type,omitempty"`
	Language     string `json:"language,omitempty" validate:"language"`
	Region       string `json:"region,omitempty" validate:"omitempty,len=2"`
	Limit        int    `json:"limit,omitempty" validate:"min=0,max=60"`
}

func (r TextSearchRequest) text() places.TextRequest {
	req := places.TextRequest{
		Query:        r.Query,
		RadiusMeters: r.RadiusMeters,
		Type:         r.Type,
		Language:     r.Language,
		Region:       r.Region,
		Limit:        r.Limit,
	}
	if r.Location != nil {
		l := r.Location.location()
		req.Origin = &l
	}
	return req
}

// Pin is a nearby place drawn on a property map.
type Pin struct {
	Point
	Name string `json:"name,omitempty"`
}

// PropertyMapRequest is the body of POST /v1/maps/property.
type PropertyMapRequest struct {
	Location Point          `json:"location"`
	Places   []Pin          `json:"places" validate:"max=50,dive"`
	View     staticmap.View `json:"view"`
}

func (r PropertyMapRequest) pins() []places.Place {
	out := make([]places.Place, len(r.Places))
	for i, p := range r.Places {
		out[i] = places.Place{Name: p.Name, Location: p.location()}
	}
	return out
}

// Stop is a transit stop in a request body.
type Stop struct {
	Point
	Type string `json:"type" validate:"required"`
	Name string `json:"name,omitempty"`
}

// TransportationMapRequest is the body of POST /v1/maps/transportation.
type TransportationMapRequest struct {
	Location Point          `json:"location"`
	Stops    []Stop         `json:"stops" validate:"max=50,dive"`
	View     staticmap.View `json:"view"`
}

func (r TransportationMapRequest) stops() []staticmap.TransitStop {
	out := make([]staticmap.TransitStop, len(r.Stops))
	for i, s := range r.Stops {
		out[i] = staticmap.TransitStop{Location: s.location(), Type: s.Type, Name: s.Name}
	}
	return out
}

// AreaMapRequest is the body of POST /v1/maps/area.
type AreaMapRequest struct {
	Location     Point          `json:"location"`
	RadiusMeters int            `json:"radius_meters"`
	View         staticmap.View `json:"view"`
}

// DistanceRequest is the body of POST /v1/distance.
type DistanceRequest struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// CoverageRequest is the body of POST /v1/streetview/coverage.
type CoverageRequest struct {
	PropertyType string               `json:"property_type"`
	Captures     []streetview.Capture `json:"captures" validate:"max=36"`
}

// StreetViewURLRequest is the body of POST /v1/streetview/url.
type StreetViewURLRequest struct {
	Location Point           `json:"location"`
	Headings []float64       `json:"headings,omitempty" validate:"max=12"`
	Size     validation.Size `json:"size"`
}

// PropertyReportRequest is the body of POST /v1/reports/property.
type PropertyReportRequest struct {
	NearbyPlacesRequest
	View staticmap.View `json:"view"`
}
