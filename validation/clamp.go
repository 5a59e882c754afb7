package validation

import (
	"math"
	"strings"

	"github.com/mycobrun/geoengine/geo"
)

// Provider parameter domains. Every outbound request is clamped into these
// ranges instead of being rejected so report generation never blocks on a
// slightly wrong input.
const (
	MinZoom     = 1
	MaxZoom     = 20
	DefaultZoom = 15

	MinMapDimension    = 100
	MaxMapDimension    = 640
	DefaultMapWidth    = 640
	DefaultMapHeight   = 480
	DefaultMapScale    = 1
	DefaultMapType     = "roadmap"
	DefaultImageFormat = "png"

	MinRadiusMeters     = 1
	MaxRadiusMeters     = 50000
	DefaultRadiusMeters = 2000

	MinPitch = -90.0
	MaxPitch = 90.0
	MinFOV   = 10.0
	MaxFOV   = 120.0
)

// Size is an image size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var validMapTypes = map[string]bool{
	"roadmap":   true,
	"satellite": true,
	"hybrid":    true,
	"terrain":   true,
}

var validFormats = map[string]bool{
	"png": true,
	"jpg": true,
	"gif": true,
}

// ClampLocation clamps latitude to [-90,90] and longitude to [-180,180].
func ClampLocation(l geo.Location) geo.Location {
	return geo.Location{
		Lat: clampFloat(l.Lat, -90, 90),
		Lng: clampFloat(l.Lng, -180, 180),
	}
}

// ClampZoom clamps a zoom level to [1,20].
func ClampZoom(z int) int {
	return clampInt(z, MinZoom, MaxZoom)
}

// ZoomOrDefault treats 0 as "not supplied" and returns DefaultZoom for it;
// any other value is clamped.
func ZoomOrDefault(z int) int {
	if z == 0 {
		return DefaultZoom
	}
	return ClampZoom(z)
}

// ClampSize clamps each dimension to [100,640]. A zero dimension takes its
// default, so an absent Size selects 640x480.
func ClampSize(s Size) Size {
	if s.Width == 0 {
		s.Width = DefaultMapWidth
	}
	if s.Height == 0 {
		s.Height = DefaultMapHeight
	}
	return Size{
		Width:  clampInt(s.Width, MinMapDimension, MaxMapDimension),
		Height: clampInt(s.Height, MinMapDimension, MaxMapDimension),
	}
}

// ClampScale returns 2 for 2 and 1 for anything else.
func ClampScale(s int) int {
	if s == 2 {
		return 2
	}
	return DefaultMapScale
}

// NormalizeMapType returns one of roadmap, satellite, hybrid, terrain.
func NormalizeMapType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if validMapTypes[t] {
		return t
	}
	return DefaultMapType
}

// NormalizeFormat returns one of png, jpg, gif.
func NormalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "jpeg" {
		return "jpg"
	}
	if validFormats[f] {
		return f
	}
	return DefaultImageFormat
}

// ClampRadiusMeters clamps a search radius to [1,50000]. Zero selects 2000.
func ClampRadiusMeters(r int) int {
	if r == 0 {
		return DefaultRadiusMeters
	}
	return clampInt(r, MinRadiusMeters, MaxRadiusMeters)
}

// NormalizeHeading maps a heading into [0,360).
func NormalizeHeading(h float64) float64 {
	return geo.NormalizeBearing(h)
}

// ClampPitch clamps a camera pitch to [-90,90].
func ClampPitch(p float64) float64 {
	return clampFloat(p, MinPitch, MaxPitch)
}

// ClampFOV clamps a field of view to [10,120].
func ClampFOV(f float64) float64 {
	return clampFloat(f, MinFOV, MaxFOV)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
