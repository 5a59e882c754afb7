// Package maps is the server-side client for the places and geocoding
// provider. It speaks the provider's JSON web service protocol and maps
// provider status codes onto application errors.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/mycobrun/geoengine/errors"
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/logging"
	"github.com/mycobrun/geoengine/resilience"
	"github.com/mycobrun/geoengine/telemetry"
)

const (
	// DefaultBaseURL is the provider's web service root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"

	nearbySearchPath = "/place/nearbysearch/json"
	placeDetailsPath = "/place/details/json"
	textSearchPath   = "/place/textsearch/json"
	geocodePath      = "/geocode/json"
	placePhotoPath   = "/place/photo"

	// Photo URLs are capped at this size.
	PhotoMaxWidth  = 400
	PhotoMaxHeight = 300

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	defaultRetryDelay = 200 * time.Millisecond
	defaultCacheTTL   = 15 * time.Minute
)

// Provider status codes.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusNotFound       = "NOT_FOUND"
	StatusUnknownError   = "UNKNOWN_ERROR"

	// statusTransport labels calls that never produced a provider status.
	statusTransport = "TRANSPORT_ERROR"
)

// Config holds provider client configuration.
type Config struct {
	// APIKey is the server-side provider key. It is embedded in photo URLs
	// and must never be logged.
	APIKey string

	// BaseURL overrides the provider root, used by tests.
	BaseURL string

	DefaultLanguage string
	DefaultRegion   string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// CacheTTL for cached details, nearby candidates and geocodes.
	CacheTTL time.Duration

	// Transport overrides the HTTP round tripper (optional).
	Transport http.RoundTripper
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:          apiKey,
		BaseURL:         DefaultBaseURL,
		DefaultLanguage: "en",
		Timeout:         defaultTimeout,
		MaxRetries:      defaultMaxRetries,
		RetryDelay:      defaultRetryDelay,
		CacheTTL:        defaultCacheTTL,
	}
}

// Client is the provider client.
type Client struct {
	config     *Config
	httpClient *resilience.ResilientHTTPClient
	logger     *logging.Logger
	tracer     *Tracer
	cache      Cache
	limiter    RateLimiter
	metrics    *telemetry.GeoMetrics
	cells      *geo.H3Index
}

// Cache stores raw JSON payloads keyed by request identity.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RateLimiter throttles outbound provider calls.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
	Wait(ctx context.Context, key string) error
}

// Option configures optional client collaborators.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer sets the span tracer.
func WithTracer(t *Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithCache sets the response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithRateLimiter sets the outbound rate limiter.
func WithRateLimiter(l RateLimiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *telemetry.GeoMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a new provider client.
func NewClient(config *Config, opts ...Option) *Client {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaultCacheTTL
	}

	c := &Client{
		config: config,
		logger: logging.Discard(),
		cells:  geo.NewH3Index(geo.H3ResolutionParcel),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = resilience.NewResilientHTTPClient(resilience.ResilientHTTPClientConfig{
		Name:       "maps",
		Timeout:    config.Timeout,
		Retries:    config.MaxRetries,
		RetryDelay: config.RetryDelay,
		Transport:  config.Transport,
		CircuitBreakerConfig: &resilience.CircuitBreakerConfig{
			Name:             "maps",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
			MaxRequests:      3,
			OnStateChange: func(name string, from, to resilience.CircuitState) {
				c.logger.Warn("provider circuit state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String())
			},
		},
	})

	return c
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return strings.TrimSpace(c.config.APIKey) != ""
}

// CheckCredential returns a configuration error when no API key is set.
func (c *Client) CheckCredential() error {
	if !c.HasCredential() {
		return apperrors.Configuration("places provider API key is not configured")
	}
	return nil
}

// DefaultLanguage returns the configured fallback language.
func (c *Client) DefaultLanguage() string {
	return c.config.DefaultLanguage
}

// CircuitState reports the provider circuit breaker state.
func (c *Client) CircuitState() string {
	return c.httpClient.Metrics().State
}

// PhotoURL builds the provider photo URL for a photo reference, capped at
// PhotoMaxWidth x PhotoMaxHeight. The URL embeds the API key.
func (c *Client) PhotoURL(reference string) string {
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(PhotoMaxWidth))
	params.Set("maxheight", strconv.Itoa(PhotoMaxHeight))
	params.Set("photo_reference", reference)
	params.Set("key", c.config.APIKey)
	return c.config.BaseURL + placePhotoPath + "?" + params.Encode()
}

// envelope is the status wrapper shared by every provider response.
type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// call issues a GET against path and decodes the JSON body into out.
// The decoded provider status is returned alongside; the caller decides
// which statuses are acceptable for the operation.
func (c *Client) call(ctx context.Context, operation, path string, params url.Values, out any) (envelope, error) {
	var env envelope

	if err := c.CheckCredential(); err != nil {
		return env, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "maps:"+operation); err != nil {
			return env, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	params.Set("key", c.config.APIKey)
	reqURL := c.config.BaseURL + path + "?" + params.Encode()

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, reqURL)
	if err != nil {
		c.metrics.RecordProviderCall(ctx, operation, statusTransport, time.Since(start))
		if ctx.Err() != nil {
			return env, ctx.Err()
		}
		return env, apperrors.ProviderWrap(err, operation+" request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordProviderCall(ctx, operation, statusTransport, time.Since(start))
		return env, apperrors.ProviderWrap(err, operation+" response read failed")
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordProviderCall(ctx, operation, statusTransport, time.Since(start))
		return env, apperrors.Provider(strconv.Itoa(resp.StatusCode),
			fmt.Sprintf("%s returned HTTP %d", operation, resp.StatusCode))
	}

	if err := json.Unmarshal(body, &env); err != nil {
		c.metrics.RecordProviderCall(ctx, operation, statusTransport, time.Since(start))
		return env, apperrors.ProviderWrap(err, operation+" response decode failed")
	}
	c.metrics.RecordProviderCall(ctx, operation, env.Status, time.Since(start))

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return env, apperrors.ProviderWrap(err, operation+" response decode failed")
		}
	}

	return env, nil
}

// statusError maps a non-accepted provider status to a provider error.
func statusError(operation string, env envelope) error {
	msg := env.ErrorMessage
	if msg == "" {
		msg = fmt.Sprintf("%s returned %s", operation, env.Status)
	}
	return apperrors.Provider(env.Status, msg)
}

func (c *Client) language(lang string) string {
	if lang != "" {
		return lang
	}
	return c.config.DefaultLanguage
}

// formatLatLng renders a coordinate pair the way the provider expects.
func formatLatLng(l geo.Location) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

func (c *Client) cacheGet(ctx context.Context, operation, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Debug("cache read failed", "operation", operation, "error", err.Error())
		return false
	}
	hit := cached != nil && json.Unmarshal(cached, out) == nil
	c.metrics.RecordCacheLookup(ctx, operation, hit)
	return hit
}

func (c *Client) cacheSet(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.config.CacheTTL); err != nil {
		c.logger.Debug("cache write failed", "error", err.Error())
	}
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, *Span) {
	return c.tracer.StartSpan(ctx, name)
}
