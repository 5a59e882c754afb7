package staticmap

import (
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/validation"
)

const (
	// MaxNearbyMarkers is the number of nearby places labeled A..J.
	MaxNearbyMarkers = 10

	PropertyLabel = "P"
	propertyColor = "red"

	nearbyColor = "blue"

	areaStrokeColor  = "0x0000FF"
	areaFillColor    = "0x0000FF"
	areaStrokeWeight = 2
	areaFillOpacity  = 0.2
)

// View holds the presentation options shared by the convenience builders.
// Zero values select the defaults.
type View struct {
	MapType string          `json:"map_type,omitempty"`
	Size    validation.Size `json:"size"`
	Zoom    int             `json:"zoom,omitempty"`
}

// PropertyMarker is the marker drawn at a property.
func PropertyMarker(l geo.Location) Marker {
	return Marker{Location: l, Color: propertyColor, Size: MarkerMid, Label: PropertyLabel}
}

// PropertyMapRequest centers on the property and labels up to ten nearby
// places A..J in list order.
func PropertyMapRequest(property geo.Location, nearby []geo.Location, view View) Request {
	markers := []Marker{PropertyMarker(property)}
	for i, l := range nearby {
		if i == MaxNearbyMarkers {
			break
		}
		markers = append(markers, Marker{
			Location: l,
			Color:    nearbyColor,
			Size:     MarkerSmall,
			Label:    string(rune('A' + i)),
		})
	}
	return Request{
		Center:  property,
		Zoom:    view.Zoom,
		Size:    view.Size,
		MapType: view.MapType,
		Markers: markers,
	}
}

// TransportationMapRequest centers on the property with one marker per
// stop styled from TransitStyles.
func TransportationMapRequest(property geo.Location, stops []TransitStop, view View) Request {
	markers := make([]Marker, 0, len(stops)+1)
	markers = append(markers, PropertyMarker(property))
	for _, stop := range stops {
		style := TransitStyleFor(stop.Type)
		markers = append(markers, Marker{
			Location: stop.Location,
			Color:    style.Color,
			Size:     MarkerSmall,
			Label:    style.Label,
		})
	}
	return Request{
		Center:  property,
		Zoom:    view.Zoom,
		Size:    view.Size,
		MapType: view.MapType,
		Markers: markers,
	}
}

// AreaOverviewRequest draws a closed circle of radiusMeters around center
// as a semi-transparent blue polygon. Without a zoom, one that fits the
// circle is chosen.
func AreaOverviewRequest(center geo.Location, radiusMeters int, view View) Request {
	center = validation.ClampLocation(center)
	radius := validation.ClampRadiusMeters(radiusMeters)
	size := validation.ClampSize(view.Size)

	ring := geo.CirclePoints(center, float64(radius), geo.DefaultCirclePoints)
	ring = append(ring, ring[0])

	zoom := view.Zoom
	if zoom == 0 {
		zoom = ZoomForRadius(center.Lat, radius, size)
	}

	opacity, weight := areaFillOpacity, areaStrokeWeight
	return Request{
		Center:  center,
		Zoom:    zoom,
		Size:    size,
		MapType: view.MapType,
		Paths: []Path{{
			Points:       ring,
			StrokeColor:  areaStrokeColor,
			StrokeWeight: &weight,
			FillColor:    areaFillColor,
			FillOpacity:  &opacity,
		}},
	}
}

// BuildPropertyMap builds the property map URL.
func (b *Builder) BuildPropertyMap(property geo.Location, nearby []geo.Location, view View) string {
	return b.Build(PropertyMapRequest(property, nearby, view))
}

// BuildTransportationMap builds the transportation map URL.
func (b *Builder) BuildTransportationMap(property geo.Location, stops []TransitStop, view View) string {
	return b.Build(TransportationMapRequest(property, stops, view))
}

// BuildAreaOverviewMap builds the area overview map URL.
func (b *Builder) BuildAreaOverviewMap(center geo.Location, radiusMeters int, view View) string {
	return b.Build(AreaOverviewRequest(center, radiusMeters, view))
}
