package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

// Provider endpoint paths served by FakeProvider.
const (
	NearbySearchPath = "/place/nearbysearch/json"
	PlaceDetailsPath = "/place/details/json"
	TextSearchPath   = "/place/textsearch/json"
	GeocodePath      = "/geocode/json"
)

// ProviderReply is one canned provider response.
type ProviderReply struct {
	// HTTPStatus defaults to 200.
	HTTPStatus int
	Body       any
	// Delay holds the response, released early if the client goes away.
	Delay time.Duration
}

// ProviderHandler computes a reply from the request query.
type ProviderHandler func(q url.Values) ProviderReply

// FakeProvider is an httptest server speaking the places provider's JSON
// protocol. It records calls per path and the peak number of concurrent
// requests.
type FakeProvider struct {
	server *httptest.Server

	mu          sync.Mutex
	handlers    map[string]ProviderHandler
	queries     map[string][]url.Values
	inFlight    int
	maxInFlight int
}

// NewFakeProvider starts a fake provider closed on test cleanup. Paths
// without a handler answer ZERO_RESULTS.
func NewFakeProvider(t *testing.T) *FakeProvider {
	t.Helper()
	f := &FakeProvider{
		handlers: make(map[string]ProviderHandler),
		queries:  make(map[string][]url.Values),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the provider base URL.
func (f *FakeProvider) URL() string {
	return f.server.URL
}

// Handle registers a handler for path.
func (f *FakeProvider) Handle(path string, h ProviderHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

// Reply registers a static 200 reply for path.
func (f *FakeProvider) Reply(path string, body any) {
	f.Handle(path, func(url.Values) ProviderReply {
		return ProviderReply{Body: body}
	})
}

// Calls returns the number of requests received on path.
func (f *FakeProvider) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries[path])
}

// TotalCalls returns the number of requests received on any path.
func (f *FakeProvider) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.queries {
		n += len(q)
	}
	return n
}

// LastQuery returns the query of the most recent request on path.
func (f *FakeProvider) LastQuery(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[path]
	if len(q) == 0 {
		return nil
	}
	return q[len(q)-1]
}

// MaxInFlight returns the peak number of concurrent requests seen.
func (f *FakeProvider) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *FakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f.mu.Lock()
	f.queries[r.URL.Path] = append(f.queries[r.URL.Path], q)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	h := f.handlers[r.URL.Path]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	reply := ProviderReply{Body: StatusBody("ZERO_RESULTS", "results", []any{})}
	if h != nil {
		reply = h(q)
	}

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}

	status := reply.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reply.Body)
}

// StatusBody builds a provider envelope with payload stored under key.
// An empty key produces a status-only body.
func StatusBody(status, key string, payload any) map[string]any {
	body := map[string]any{"status": status}
	if key != "" {
		body[key] = payload
	}
	return body
}

// ErrorBody builds a non-OK provider envelope with an error message.
func ErrorBody(status, message string) map[string]any {
	return map[string]any{"status": status, "error_message": message}
}

// PlaceResult builds a raw search candidate.
func PlaceResult(placeID, name string, lat, lng float64, types ...string) map[string]any {
	return map[string]any{
		"place_id": placeID,
		"name":     name,
		"geometry": map[string]any{
			"location": map[string]any{"lat": lat, "lng": lng},
		},
		"types":    types,
		"vicinity": name + " street",
	}
}

// DetailsResult builds a place details payload with n photos and n reviews.
func DetailsResult(placeID, name string, lat, lng float64, n int, types ...string) map[string]any {
	photos := make([]map[string]any, n)
	reviews := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		photos[i] = map[string]any{
			"photo_reference": placeID + "-photo-" + string(rune('a'+i)),
			"width":           1600,
			"height":          1200,
		}
		reviews[i] = map[string]any{
			"author_name":               "Reviewer " + string(rune('A'+i)),
			"rating":                    5 - i%5,
			"relative_time_description": "a month ago",
			"text":                      "review text",
			"time":                      1700000000 + i,
		}
	}
	return map[string]any{
		"place_id":               placeID,
		"name":                   name,
		"formatted_address":      name + " Road, Bangkok",
		"formatted_phone_number": "02 000 0000",
		"website":                "https://example.com/" + placeID,
		"geometry": map[string]any{
			"location": map[string]any{"lat": lat, "lng": lng},
		},
		"rating":             4.5,
		"user_ratings_total": 120,
		"price_level":        2,
		"types":              types,
		"business_status":    "OPERATIONAL",
		"opening_hours": map[string]any{
			"open_now":     true,
			"weekday_text": []string{"Monday: 9:00 AM – 5:00 PM"},
			"periods": []map[string]any{
				{"open": map[string]any{"day": 1, "time": "0900"}, "close": map[string]any{"day": 1, "time": "1700"}},
			},
		},
		"photos":  photos,
		"reviews": reviews,
	}
}
