// Package staticmap builds static map image URLs. Building is pure string
// construction: no request is ever issued server side.
package staticmap

import (
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/validation"
)

// MarkerSize is a provider marker size.
type MarkerSize string

const (
	MarkerTiny   MarkerSize = "tiny"
	MarkerSmall  MarkerSize = "small"
	MarkerNormal MarkerSize = "normal"
	MarkerMid    MarkerSize = "mid"
)

func (s MarkerSize) valid() bool {
	switch s {
	case MarkerTiny, MarkerSmall, MarkerNormal, MarkerMid:
		return true
	}
	return false
}

// Marker is a pin drawn on the map. Empty Color, Size and Label are
// omitted from the URL.
type Marker struct {
	Location geo.Location `json:"location"`
	Color    string       `json:"color,omitempty"`
	Size     MarkerSize   `json:"size,omitempty"`
	Label    string       `json:"label,omitempty"`
}

// Path is a polyline or polygon. Paths with fewer than two points are
// skipped. A nil StrokeWeight leaves the provider default, 0 draws no
// outline.
type Path struct {
	Points       []geo.Location `json:"points"`
	StrokeColor  string         `json:"stroke_color,omitempty"`
	StrokeWeight *int           `json:"stroke_weight,omitempty"`
	FillColor    string         `json:"fill_color,omitempty"`
	FillOpacity  *float64       `json:"fill_opacity,omitempty"`
}

// Request is a static map request. Markers and paths are drawn in slice
// order, later entries over earlier ones.
type Request struct {
	Center   geo.Location    `json:"center"`
	Zoom     int             `json:"zoom"`
	Size     validation.Size `json:"size"`
	MapType  string          `json:"map_type,omitempty"`
	Scale    int             `json:"scale,omitempty"`
	Format   string          `json:"format,omitempty"`
	Language string          `json:"language,omitempty"`
	Region   string          `json:"region,omitempty"`
	Markers  []Marker        `json:"markers,omitempty"`
	Paths    []Path          `json:"paths,omitempty"`
}
