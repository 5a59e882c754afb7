package staticmap

import (
	"math"

	"github.com/mycobrun/geoengine/validation"
)

// metersPerPixelZoom0 is the ground resolution at the equator at zoom 0
// for 256 px web mercator tiles.
const metersPerPixelZoom0 = 156543.03392

// fitMargin keeps the circle slightly inside the image edge.
const fitMargin = 0.9

// ZoomForRadius returns the largest zoom at which a circle of radiusMeters
// around latitude lat fits inside size.
func ZoomForRadius(lat float64, radiusMeters int, size validation.Size) int {
	size = validation.ClampSize(size)
	if radiusMeters <= 0 {
		return validation.DefaultZoom
	}

	span := float64(min(size.Width, size.Height)) * fitMargin
	cosLat := math.Max(math.Cos(lat*math.Pi/180), 0.01)
	zoom := math.Floor(math.Log2(metersPerPixelZoom0 * cosLat * span / (2 * float64(radiusMeters))))

	return validation.ClampZoom(int(zoom))
}
