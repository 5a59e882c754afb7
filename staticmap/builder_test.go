package staticmap

import (
	"net/url"
	"strings"
	"testing"

	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/validation"
)

var bangkok = geo.Location{Lat: 13.7563, Lng: 100.5018}

func newTestBuilder() *Builder {
	return NewBuilder(Config{APIKey: "k"})
}

func TestBuild_ScalarOrder(t *testing.T) {
	b := NewBuilder(Config{BaseURL: "https://img.example/staticmap", APIKey: "secret", DefaultLanguage: "th", DefaultRegion: "TH"})

	got := b.Build(Request{
		Center:  bangkok,
		Zoom:    14,
		Size:    validation.Size{Width: 600, Height: 400},
		MapType: "Satellite",
		Scale:   2,
		Format:  "jpeg",
	})

	want := "https://img.example/staticmap?center=13.7563,100.5018&zoom=14&size=600x400" +
		"&maptype=satellite&scale=2&format=jpg&language=th&region=TH&key=secret"
	if got != want {
		t.Errorf("Build() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuild_Defaults(t *testing.T) {
	got := NewBuilder(Config{}).Build(Request{Center: geo.Location{Lat: 95, Lng: -200}})

	want := DefaultBaseURL + "?center=90,-180&zoom=15&size=640x480&maptype=roadmap&scale=1&format=png"
	if got != want {
		t.Errorf("Build() = %s, want %s", got, want)
	}
}

func TestBuild_ClampsScalars(t *testing.T) {
	u := parse(t, newTestBuilder().Build(Request{
		Center:  bangkok,
		Zoom:    25,
		Size:    validation.Size{Width: 1000, Height: 50},
		MapType: "street",
		Scale:   3,
		Format:  "bmp",
	}))

	tests := map[string]string{
		"zoom":    "20",
		"size":    "640x100",
		"maptype": "roadmap",
		"scale":   "1",
		"format":  "png",
	}
	for key, want := range tests {
		if got := u.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestBuild_Markers(t *testing.T) {
	got := newTestBuilder().Build(Request{
		Center: bangkok,
		Markers: []Marker{
			{Location: bangkok, Color: "red", Size: MarkerMid, Label: "p"},
			{Location: geo.Location{Lat: 13.75, Lng: 100.5}},
			{Location: geo.Location{Lat: 13.7, Lng: 100.4}, Size: "huge", Label: "?!"},
		},
	})

	markers := parse(t, got)["markers"]
	want := []string{
		"13.7563,100.5018|color:red|size:mid|label:P",
		"13.75,100.5",
		"13.7,100.4",
	}
	if strings.Join(markers, " ; ") != strings.Join(want, " ; ") {
		t.Errorf("markers = %v, want %v", markers, want)
	}
	if !strings.Contains(got, "&markers=13.7563,100.5018|color:red|size:mid|label:P&markers=13.75,100.5&") {
		t.Errorf("markers not literal or out of order: %s", got)
	}
}

func TestBuild_Paths(t *testing.T) {
	opacity, weight, noStroke := 0.35, 5, 0
	got := newTestBuilder().Build(Request{
		Center: bangkok,
		Markers: []Marker{
			{Location: bangkok},
		},
		Paths: []Path{
			{
				Points:       []geo.Location{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}, {Lat: 5.1234567, Lng: -6}},
				StrokeColor:  "0xff0000ff",
				StrokeWeight: &weight,
				FillColor:    "0x00ff0033",
				FillOpacity:  &opacity,
			},
			{Points: []geo.Location{{Lat: 1, Lng: 1}}},
			{Points: []geo.Location{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}},
			{Points: []geo.Location{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}, StrokeColor: "red", StrokeWeight: &noStroke},
		},
	})

	paths := parse(t, got)["path"]
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3 (single-point path skipped): %v", len(paths), paths)
	}
	want := "color:0xff0000ff|weight:5|fillcolor:0x00ff0033|fillopacity:0.35|1,2|3,4|5.123457,-6"
	if paths[0] != want {
		t.Errorf("path[0] = %q, want %q", paths[0], want)
	}
	if paths[1] != "0,0|1,1" {
		t.Errorf("path[1] = %q", paths[1])
	}
	if paths[2] != "color:red|weight:0|1,2|3,4" {
		t.Errorf("path[2] = %q, want zero weight kept", paths[2])
	}

	if strings.Index(got, "key=") > strings.Index(got, "markers=") || strings.Index(got, "markers=") > strings.Index(got, "path=") {
		t.Errorf("parameter groups out of order: %s", got)
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	b := newTestBuilder()
	req := AreaOverviewRequest(bangkok, 1500, View{Zoom: 13, Size: validation.Size{Width: 500, Height: 300}})
	req.Markers = []Marker{
		PropertyMarker(bangkok),
		{Location: geo.Location{Lat: 13.76, Lng: 100.51}, Label: "A"},
	}

	q := parse(t, b.Build(req))

	if q.Get("center") != "13.7563,100.5018" {
		t.Errorf("center = %q", q.Get("center"))
	}
	if q.Get("zoom") != "13" {
		t.Errorf("zoom = %q", q.Get("zoom"))
	}
	if q.Get("size") != "500x300" {
		t.Errorf("size = %q", q.Get("size"))
	}
	if len(q["markers"]) != 2 {
		t.Errorf("got %d markers, want 2", len(q["markers"]))
	}
	if len(q["path"]) != 1 {
		t.Errorf("got %d paths, want 1", len(q["path"]))
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := map[string]string{
		"a":   "A",
		"Z":   "Z",
		"7":   "7",
		"ab":  "A",
		"":    "",
		"-":   "",
		"ก":   "",
		" x ": "",
	}
	for in, want := range tests {
		if got := normalizeLabel(in); got != want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{13.7563, "13.7563"},
		{100.50180000001, "100.5018"},
		{-0.0000001, "0"},
		{1.23456789, "1.234568"},
		{-33, "-33"},
	}
	for _, tt := range tests {
		if got := formatCoord(tt.in); got != tt.want {
			t.Errorf("formatCoord(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func parse(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u.Query()
}
