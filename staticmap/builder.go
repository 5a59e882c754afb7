package staticmap

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/validation"
)

// DefaultBaseURL is the static map image endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

// Config holds builder configuration.
type Config struct {
	BaseURL         string
	APIKey          string
	DefaultLanguage string
	DefaultRegion   string
}

// Builder renders Requests into URLs.
type Builder struct {
	config Config
}

// NewBuilder creates a builder.
func NewBuilder(config Config) *Builder {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Builder{config: config}
}

// HasCredential reports whether an API key is configured.
func (b *Builder) HasCredential() bool {
	return strings.TrimSpace(b.config.APIKey) != ""
}

// Build renders req into a URL. Every scalar is clamped first. Parameter
// order is center, zoom, size, maptype, scale, format, language, region,
// key, then markers in order, then paths in order. Empty language, region
// and key are omitted.
func (b *Builder) Build(req Request) string {
	size := validation.ClampSize(req.Size)

	q := &query{}
	q.add("center", formatLocation(validation.ClampLocation(req.Center)))
	q.add("zoom", strconv.Itoa(validation.ZoomOrDefault(req.Zoom)))
	q.add("size", strconv.Itoa(size.Width)+"x"+strconv.Itoa(size.Height))
	q.add("maptype", validation.NormalizeMapType(req.MapType))
	q.add("scale", strconv.Itoa(validation.ClampScale(req.Scale)))
	q.add("format", validation.NormalizeFormat(req.Format))
	q.addNonEmpty("language", firstNonEmpty(req.Language, b.config.DefaultLanguage))
	q.addNonEmpty("region", firstNonEmpty(req.Region, b.config.DefaultRegion))
	q.addNonEmpty("key", b.config.APIKey)

	for _, m := range req.Markers {
		q.add("markers", markerValue(m))
	}
	for _, p := range req.Paths {
		if len(p.Points) < 2 {
			continue
		}
		q.add("path", pathValue(p))
	}

	return b.config.BaseURL + "?" + q.String()
}

// markerValue renders lat,lng|color:c|size:s|label:L.
func markerValue(m Marker) string {
	parts := []string{formatLocation(validation.ClampLocation(m.Location))}
	if m.Color != "" {
		parts = append(parts, "color:"+m.Color)
	}
	if m.Size.valid() {
		parts = append(parts, "size:"+string(m.Size))
	}
	if label := normalizeLabel(m.Label); label != "" {
		parts = append(parts, "label:"+label)
	}
	return strings.Join(parts, "|")
}

// pathValue renders color:c|weight:w|fillcolor:f|fillopacity:o|points.
func pathValue(p Path) string {
	parts := make([]string, 0, len(p.Points)+4)
	if p.StrokeColor != "" {
		parts = append(parts, "color:"+p.StrokeColor)
	}
	if p.StrokeWeight != nil {
		parts = append(parts, "weight:"+strconv.Itoa(max(*p.StrokeWeight, 0)))
	}
	if p.FillColor != "" {
		parts = append(parts, "fillcolor:"+p.FillColor)
	}
	if p.FillOpacity != nil {
		o := math.Max(0, math.Min(1, *p.FillOpacity))
		parts = append(parts, "fillopacity:"+strconv.FormatFloat(o, 'f', -1, 64))
	}
	for _, pt := range p.Points {
		parts = append(parts, formatLocation(validation.ClampLocation(pt)))
	}
	return strings.Join(parts, "|")
}

// normalizeLabel keeps a single uppercase letter or digit.
func normalizeLabel(label string) string {
	for _, r := range label {
		r = unicode.ToUpper(r)
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return string(r)
		}
		return ""
	}
	return ""
}

// formatLocation renders lat,lng rounded to six decimals.
func formatLocation(l geo.Location) string {
	return formatCoord(l.Lat) + "," + formatCoord(l.Lng)
}

func formatCoord(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// query is an insertion-ordered query string. The separators used by the
// marker and path grammar stay literal.
type query struct {
	b strings.Builder
}

var literalSeparators = strings.NewReplacer("%2C", ",", "%7C", "|", "%3A", ":")

func (q *query) add(key, value string) {
	if q.b.Len() > 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(key)
	q.b.WriteByte('=')
	q.b.WriteString(literalSeparators.Replace(url.QueryEscape(value)))
}

func (q *query) addNonEmpty(key, value string) {
	if value != "" {
		q.add(key, value)
	}
}

func (q *query) String() string {
	return q.b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
