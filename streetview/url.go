package streetview

import (
	"strconv"
	"strings"

	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/validation"
)

// DefaultBaseURL is the street-level image endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/streetview"

// URLBuilder renders street-level image URLs.
type URLBuilder struct {
	baseURL string
	apiKey  string
}

// NewURLBuilder creates a URL builder. An empty baseURL selects
// DefaultBaseURL.
func NewURLBuilder(baseURL, apiKey string) *URLBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &URLBuilder{baseURL: baseURL, apiKey: apiKey}
}

// Build renders size, location, heading, pitch, fov and key in that order.
// Heading is normalized to [0,360), pitch and fov are clamped, and a zero
// fov selects DefaultFOV.
func (b *URLBuilder) Build(location geo.Location, capture Capture, size validation.Size) string {
	size = validation.ClampSize(size)
	location = validation.ClampLocation(location)

	fov := capture.FOV
	if fov == 0 {
		fov = DefaultFOV
	}

	params := []string{
		"size=" + strconv.Itoa(size.Width) + "x" + strconv.Itoa(size.Height),
		"location=" + formatFloat(location.Lat) + "," + formatFloat(location.Lng),
		"heading=" + formatFloat(validation.NormalizeHeading(capture.Heading)),
		"pitch=" + formatFloat(validation.ClampPitch(capture.Pitch)),
		"fov=" + formatFloat(validation.ClampFOV(fov)),
	}
	if b.apiKey != "" {
		params = append(params, "key="+b.apiKey)
	}
	return b.baseURL + "?" + strings.Join(params, "&")
}

// Captures builds a capture with a URL for every heading.
func (b *URLBuilder) Captures(location geo.Location, headings []float64, size validation.Size) []Capture {
	captures := make([]Capture, 0, len(headings))
	for _, h := range headings {
		c := Capture{Heading: validation.NormalizeHeading(h), FOV: DefaultFOV}
		c.URL = b.Build(location, c, size)
		captures = append(captures, c)
	}
	return captures
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
