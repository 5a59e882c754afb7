package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(CodeBadRequest, "bad input"),
			want: "BAD_REQUEST: bad input",
		},
		{
			name: "with wrapped error",
			err:  Wrap(errors.New("dial tcp: refused"), CodeProvider, "nearby search failed"),
			want: "PROVIDER_ERROR: nearby search failed: dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Is(t *testing.T) {
	err := Configuration("missing key")
	if !errors.Is(err, New(CodeConfiguration, "")) {
		t.Error("expected errors.Is to match on code")
	}
	if errors.Is(err, New(CodeProvider, "")) {
		t.Error("expected errors.Is to not match a different code")
	}
}

func TestProvider(t *testing.T) {
	err := Provider("OVER_QUERY_LIMIT", "")

	if err.Code != CodeProvider {
		t.Errorf("Code = %q, want %q", err.Code, CodeProvider)
	}
	if err.Message != "provider returned OVER_QUERY_LIMIT" {
		t.Errorf("Message = %q", err.Message)
	}
	if got := ProviderStatus(err); got != "OVER_QUERY_LIMIT" {
		t.Errorf("ProviderStatus() = %q, want OVER_QUERY_LIMIT", got)
	}
}

func TestProviderStatus_Wrapped(t *testing.T) {
	err := fmt.Errorf("place details: %w", Provider("REQUEST_DENIED", "key rejected"))

	if got := ProviderStatus(err); got != "REQUEST_DENIED" {
		t.Errorf("ProviderStatus() = %q, want REQUEST_DENIED", got)
	}
	if !IsProvider(err) {
		t.Error("IsProvider() = false, want true")
	}
	if ProviderStatus(errors.New("plain")) != "" {
		t.Error("expected empty status for a plain error")
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		fn   func(error) bool
		want bool
	}{
		{"configuration", Configuration("x"), IsConfiguration, true},
		{"configuration mismatch", Internal("x"), IsConfiguration, false},
		{"provider", Provider("UNKNOWN_ERROR", ""), IsProvider, true},
		{"validation", ValidationWithDetails("x", nil), IsValidation, true},
		{"not found", NotFound("place"), IsNotFound, true},
		{"nil", nil, IsProvider, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Configuration("x"), http.StatusServiceUnavailable},
		{Provider("INVALID_REQUEST", ""), http.StatusBadGateway},
		{BadRequest("x"), http.StatusBadRequest},
		{ValidationWithDetails("x", nil), http.StatusBadRequest},
		{Timeout("x"), http.StatusGatewayTimeout},
		{fmt.Errorf("wrapped: %w", NotFound("place")), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, Provider("OVER_QUERY_LIMIT", "quota exhausted"), "trace-1")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != CodeProvider {
		t.Errorf("code = %q", resp.Error.Code)
	}
	if resp.Error.Details[DetailStatus] != "OVER_QUERY_LIMIT" {
		t.Errorf("details = %v", resp.Error.Details)
	}
	if resp.TraceID != "trace-1" {
		t.Errorf("trace_id = %q", resp.TraceID)
	}
}

func TestWriteError_HidesPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("redis: connection pool exhausted"), "")

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Message != "An internal error occurred" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}
