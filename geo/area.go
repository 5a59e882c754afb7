package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CirclePolygon approximates a circle as a closed orb.Ring. Unlike
// CirclePoints, the returned ring repeats its first vertex at the end.
func CirclePolygon(center Location, radiusMeters float64, pointCount int) orb.Polygon {
	points := CirclePoints(center, radiusMeters, pointCount)

	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, ToOrbPoint(p))
	}
	ring = append(ring, ring[0])

	return orb.Polygon{ring}
}

// AreaFeature returns a GeoJSON Feature describing a circular area overlay.
func AreaFeature(center Location, radiusMeters float64, pointCount int) *geojson.Feature {
	feature := geojson.NewFeature(CirclePolygon(center, radiusMeters, pointCount))
	feature.Properties["center_lat"] = center.Lat
	feature.Properties["center_lng"] = center.Lng
	feature.Properties["radius_meters"] = radiusMeters
	return feature
}

// ToOrbPoint converts a Location to an orb.Point ([lng, lat] order).
func ToOrbPoint(l Location) orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// FromOrbPoint converts an orb.Point back to a Location.
func FromOrbPoint(p orb.Point) Location {
	return Location{Lat: p.Lat(), Lng: p.Lon()}
}
