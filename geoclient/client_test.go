package geoclient

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycobrun/geoengine/config"
	apperrors "github.com/mycobrun/geoengine/errors"
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/places"
	"github.com/mycobrun/geoengine/staticmap"
	"github.com/mycobrun/geoengine/streetview"
	testutil "github.com/mycobrun/geoengine/testing"
	"github.com/mycobrun/geoengine/validation"
)

var bangkok = geo.Location{Lat: 13.7563, Lng: 100.5018}

func newTestClient(t *testing.T, fp *testutil.FakeProvider, apiKey string) *Client {
	t.Helper()
	return New(config.MapsConfig{
		APIKey:          apiKey,
		BaseURL:         fp.URL(),
		DefaultLanguage: "en",
	}, Options{StaticMapBaseURL: "https://img.example/staticmap"})
}

func TestClient_MissingCredential(t *testing.T) {
	fp := testutil.NewFakeProvider(t)
	c := newTestClient(t, fp, "")
	ctx := context.Background()

	calls := map[string]func() error{
		"EnrichNearbyPlaces": func() error {
			_, err := c.EnrichNearbyPlaces(ctx, places.NearbyRequest{Origin: bangkok, RadiusMeters: 2000})
			return err
		},
		"SearchByText": func() error {
			_, err := c.SearchByText(ctx, places.TextRequest{Query: "mall"})
			return err
		},
		"Geocode": func() error {
			_, err := c.Geocode(ctx, "Siam", "")
			return err
		},
		"ReverseGeocode": func() error {
			_, err := c.ReverseGeocode(ctx, bangkok, "")
			return err
		},
		"BuildPropertyMap": func() error {
			_, err := c.BuildPropertyMap(bangkok, nil, staticmap.View{})
			return err
		},
		"BuildTransportationMap": func() error {
			_, err := c.BuildTransportationMap(bangkok, nil, staticmap.View{})
			return err
		},
		"BuildAreaOverviewMap": func() error {
			_, err := c.BuildAreaOverviewMap(bangkok, 1000, staticmap.View{})
			return err
		},
		"Distance": func() error {
			_, err := c.Distance(bangkok, bangkok)
			return err
		},
		"StreetViewCoverage": func() error {
			_, err := c.StreetViewCoverage(nil, "detached")
			return err
		},
		"StreetViewURLs": func() error {
			_, err := c.StreetViewURLs(bangkok, nil, validation.Size{})
			return err
		},
		"BuildPropertyReport": func() error {
			_, err := c.BuildPropertyReport(ctx, bangkok, places.NearbyRequest{}, staticmap.View{})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err), "got %v", err)
		})
	}
	assert.Zero(t, fp.TotalCalls())
}

func TestClient_EnrichAndMap(t *testing.T) {
	fp := testutil.NewFakeProvider(t)
	fp.Reply(testutil.NearbySearchPath, testutil.StatusBody("OK", "results", []any{
		testutil.PlaceResult("far", "Far", 13.760, 100.5018, "restaurant"),
		testutil.PlaceResult("near", "Near", 13.757, 100.5018, "school"),
	}))
	fp.Handle(testutil.PlaceDetailsPath, func(q url.Values) testutil.ProviderReply {
		id := q.Get("place_id")
		return testutil.ProviderReply{Body: testutil.StatusBody("OK", "result", testutil.DetailsResult(id, id, 0, 0, 1))}
	})

	c := newTestClient(t, fp, "key-1")
	result, err := c.EnrichNearbyPlaces(context.Background(), places.NearbyRequest{Origin: bangkok, RadiusMeters: 2000})
	require.NoError(t, err)
	require.Len(t, result.Places, 2)
	assert.Equal(t, "near", result.Places[0].PlaceID)

	mapURL, err := c.BuildPropertyMap(bangkok, result.Places, staticmap.View{})
	require.NoError(t, err)

	u, err := url.Parse(mapURL)
	require.NoError(t, err)
	assert.Equal(t, "img.example", u.Host)
	assert.Equal(t, []string{
		"13.7563,100.5018|color:red|size:mid|label:P",
		"13.757,100.5018|color:blue|size:small|label:A",
		"13.76,100.5018|color:blue|size:small|label:B",
	}, u.Query()["markers"])
	assert.Equal(t, "key-1", u.Query().Get("key"))
	assert.Equal(t, "en", u.Query().Get("language"))
}

func TestClient_BuildPropertyReport(t *testing.T) {
	fp := testutil.NewFakeProvider(t)
	fp.Reply(testutil.NearbySearchPath, testutil.StatusBody("OK", "results", []any{
		testutil.PlaceResult("p1", "Cafe", 13.757, 100.5018),
	}))
	fp.Reply(testutil.PlaceDetailsPath, testutil.ErrorBody("NOT_FOUND", ""))
	fp.Reply(testutil.GeocodePath, testutil.StatusBody("OK", "results", []any{
		map[string]any{"place_id": "g", "formatted_address": "1 Silom Rd, Bangkok"},
	}))

	report, err := newTestClient(t, fp, "k").BuildPropertyReport(context.Background(), bangkok, places.NearbyRequest{}, staticmap.View{})
	require.NoError(t, err)

	assert.Equal(t, "1 Silom Rd, Bangkok", report.Address)
	require.Len(t, report.Places, 1)
	assert.NotEmpty(t, report.Places[0].EnrichmentError)
	assert.Contains(t, report.MapURL, "label:A")
	assert.Equal(t, "2000", fp.LastQuery(testutil.NearbySearchPath).Get("radius"))
}

func TestClient_Distance(t *testing.T) {
	c := New(config.MapsConfig{APIKey: "k"}, Options{})

	north := geo.Location{Lat: bangkok.Lat + 0.01, Lng: bangkok.Lng}
	d, err := c.Distance(bangkok, north)
	require.NoError(t, err)

	assert.InDelta(t, 1112, d.Meters, 2)
	assert.InDelta(t, 1.112, d.Km, 0.002)
	assert.Equal(t, "N", d.Compass)
	assert.Equal(t, "North", d.Direction)

	same, err := c.Distance(bangkok, bangkok)
	require.NoError(t, err)
	assert.Zero(t, same.Meters)
}

func TestClient_BuildAreaOverviewMap(t *testing.T) {
	c := New(config.MapsConfig{APIKey: "k"}, Options{})

	overview, err := c.BuildAreaOverviewMap(bangkok, 90000, staticmap.View{})
	require.NoError(t, err)

	assert.Equal(t, validation.MaxRadiusMeters, overview.RadiusMeters)
	assert.Contains(t, overview.URL, "fillopacity:0.2")
	require.NotNil(t, overview.Area)
	assert.Equal(t, "Polygon", overview.Area.Geometry.GeoJSONType())
}

func TestClient_StreetView(t *testing.T) {
	c := New(config.MapsConfig{APIKey: "k"}, Options{})

	report, err := c.StreetViewCoverage([]streetview.Capture{{Heading: 0}, {Heading: 88}, {Heading: 181}}, "detached")
	require.NoError(t, err)
	assert.Equal(t, 75, report.ScorePercent)
	assert.Equal(t, []float64{270}, report.MissingHeadings)

	captures, err := c.StreetViewURLs(bangkok, nil, validation.Size{})
	require.NoError(t, err)
	require.Len(t, captures, 4)
	assert.Contains(t, captures[3].URL, "heading=270")
	assert.Contains(t, captures[3].URL, "key=k")
}
