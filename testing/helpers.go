// Package testing provides test utilities shared by the geo engine packages:
// API request builders, a fake places provider and Redis containers.
package testing

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/mycobrun/geoengine/errors"
)

// TestContext creates a context that expires with the test.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// HTTPTestRequest describes an API call made against a router in tests.
type HTTPTestRequest struct {
	Method string
	Path   string
	Body   any
	JSON   bool
}

// NewHTTPTestRequest creates a request without a body.
func NewHTTPTestRequest(method, path string) *HTTPTestRequest {
	return &HTTPTestRequest{Method: method, Path: path}
}

// WithBody sets a value to be sent as the JSON body.
func (r *HTTPTestRequest) WithBody(body any) *HTTPTestRequest {
	r.Body = body
	r.JSON = true
	return r
}

// WithJSON marks the request as JSON even when it carries no body.
func (r *HTTPTestRequest) WithJSON() *HTTPTestRequest {
	r.JSON = true
	return r
}

// Build builds the HTTP request.
func (r *HTTPTestRequest) Build(t *testing.T) *http.Request {
	t.Helper()
	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.JSON {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// HTTPTestResponse wraps httptest.ResponseRecorder with assertions on the
// API envelope.
type HTTPTestResponse struct {
	*httptest.ResponseRecorder
	t *testing.T
}

// NewHTTPTestResponse creates a new HTTP test response.
func NewHTTPTestResponse(t *testing.T) *HTTPTestResponse {
	return &HTTPTestResponse{
		ResponseRecorder: httptest.NewRecorder(),
		t:                t,
	}
}

// ExecuteRequest serves req with handler and records the response.
func ExecuteRequest(t *testing.T, handler http.Handler, req *http.Request) *HTTPTestResponse {
	resp := NewHTTPTestResponse(t)
	handler.ServeHTTP(resp, req)
	return resp
}

// AssertStatus asserts the response status code.
func (r *HTTPTestResponse) AssertStatus(expected int) *HTTPTestResponse {
	r.t.Helper()
	if r.Code != expected {
		r.t.Errorf("expected status %d, got %d: %s", expected, r.Code, r.Body.String())
	}
	return r
}

// AssertOK asserts status 200.
func (r *HTTPTestResponse) AssertOK() *HTTPTestResponse {
	r.t.Helper()
	return r.AssertStatus(http.StatusOK)
}

// AssertBadRequest asserts status 400.
func (r *HTTPTestResponse) AssertBadRequest() *HTTPTestResponse {
	r.t.Helper()
	return r.AssertStatus(http.StatusBadRequest)
}

// AssertBadGateway asserts status 502, returned for provider errors.
func (r *HTTPTestResponse) AssertBadGateway() *HTTPTestResponse {
	r.t.Helper()
	return r.AssertStatus(http.StatusBadGateway)
}

// AssertServiceUnavailable asserts status 503, returned when the provider
// credential is missing.
func (r *HTTPTestResponse) AssertServiceUnavailable() *HTTPTestResponse {
	r.t.Helper()
	return r.AssertStatus(http.StatusServiceUnavailable)
}

// DecodeJSON decodes the response body as JSON.
func (r *HTTPTestResponse) DecodeJSON(v any) *HTTPTestResponse {
	r.t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		r.t.Fatalf("failed to decode JSON: %v", err)
	}
	return r
}

// AssertErrorCode decodes an error envelope, checks its code and returns
// the body for further inspection.
func (r *HTTPTestResponse) AssertErrorCode(code string) apperrors.ErrorBody {
	r.t.Helper()
	var resp apperrors.ErrorResponse
	r.DecodeJSON(&resp)
	if resp.Error.Code != code {
		r.t.Errorf("expected error code %q, got %q (%s)", code, resp.Error.Code, resp.Error.Message)
	}
	return resp.Error
}
