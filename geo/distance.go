// Package geo provides geospatial utilities.
package geo

import (
	"math"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by every distance calculation.
	EarthRadiusMeters = 6371000.0
	// MetersPerKm converts kilometers to meters.
	MetersPerKm = 1000.0

	// DefaultCirclePoints is the number of vertices used to approximate an area overlay.
	DefaultCirclePoints = 32
)

// Location represents a geographic coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid checks if the location has valid coordinates.
func (l Location) IsValid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// DistanceMeters calculates the great-circle distance between two locations
// using the Haversine formula.
func DistanceMeters(a, b Location) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	deltaLat := degreesToRadians(b.Lat - a.Lat)
	deltaLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	// Rounding pushes h past 1 for near-antipodal points.
	h = math.Min(math.Max(h, 0), 1)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// DistanceKm returns the great-circle distance in kilometers.
func DistanceKm(a, b Location) float64 {
	return DistanceMeters(a, b) / MetersPerKm
}

// Bearing calculates the initial bearing from a to b.
// Returns bearing in degrees (0-360, where 0 is North).
func Bearing(a, b Location) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	deltaLng := degreesToRadians(b.Lng - a.Lng)

	x := math.Sin(deltaLng) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLng)

	return NormalizeBearing(radiansToDegrees(math.Atan2(x, y)))
}

// DestinationPoint returns the point reached by travelling distanceMeters from
// center along bearingDegrees.
//
// This is an equirectangular small-angle approximation, not an ellipsoidal
// solution. It is accurate to well under 1% for distances up to 50 km, which
// is the largest search radius the engine accepts.
func DestinationPoint(center Location, bearingDegrees, distanceMeters float64) Location {
	bearing := degreesToRadians(bearingDegrees)

	deltaLat := distanceMeters * math.Cos(bearing) / EarthRadiusMeters
	deltaLng := distanceMeters * math.Sin(bearing) /
		(EarthRadiusMeters * math.Cos(degreesToRadians(center.Lat)))

	return Location{
		Lat: center.Lat + radiansToDegrees(deltaLat),
		Lng: center.Lng + radiansToDegrees(deltaLng),
	}
}

// CirclePoints returns pointCount locations evenly spaced by bearing around
// center at radiusMeters, starting due north and going clockwise.
//
// The ring is not closed: the first point is not repeated at the end. Callers
// drawing a closed polygon must append points[0] themselves.
// A pointCount below 3 selects DefaultCirclePoints.
func CirclePoints(center Location, radiusMeters float64, pointCount int) []Location {
	if pointCount < 3 {
		pointCount = DefaultCirclePoints
	}

	step := 360.0 / float64(pointCount)
	points := make([]Location, pointCount)
	for i := 0; i < pointCount; i++ {
		points[i] = DestinationPoint(center, float64(i)*step, radiusMeters)
	}
	return points
}

// NormalizeBearing maps any bearing into [0, 360).
func NormalizeBearing(bearing float64) float64 {
	b := math.Mod(bearing, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}

// Helper functions

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func radiansToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
