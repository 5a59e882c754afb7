package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALID", "42")
	t.Setenv("TEST_INT_INVALID", "not-an-int")

	tests := []struct {
		name         string
		key          string
		defaultValue int
		want         int
	}{
		{"valid int", "TEST_INT_VALID", 0, 42},
		{"invalid int", "TEST_INT_INVALID", 99, 99},
		{"missing var", "NONEXISTENT_VAR_12345", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEnvInt(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("GetEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL_TRUE", "TRUE")
	t.Setenv("TEST_BOOL_ONE", "1")
	t.Setenv("TEST_BOOL_ZERO", "0")

	tests := []struct {
		name         string
		key          string
		defaultValue bool
		want         bool
	}{
		{"TRUE uppercase", "TEST_BOOL_TRUE", false, true},
		{"1 string", "TEST_BOOL_ONE", false, true},
		{"0 string", "TEST_BOOL_ZERO", true, false},
		{"missing with true default", "NONEXISTENT_VAR_12345", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEnvBool(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("GetEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_VALID", "5m")
	t.Setenv("TEST_DURATION_INVALID", "not-a-duration")

	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		want         time.Duration
	}{
		{"valid minutes", "TEST_DURATION_VALID", time.Second, 5 * time.Minute},
		{"invalid duration", "TEST_DURATION_INVALID", time.Hour, time.Hour},
		{"missing var", "NONEXISTENT_VAR_12345", 10 * time.Minute, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEnvDuration(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("GetEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT_VALID", "3.14")
	t.Setenv("TEST_FLOAT_INVALID", "not-a-float")

	if got := GetEnvFloat("TEST_FLOAT_VALID", 0); got != 3.14 {
		t.Errorf("GetEnvFloat() = %v, want 3.14", got)
	}
	if got := GetEnvFloat("TEST_FLOAT_INVALID", 99.9); got != 99.9 {
		t.Errorf("GetEnvFloat() = %v, want 99.9", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	cfg, err := Load("geoserver")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServiceName != "geoserver" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Maps.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q, want en", cfg.Maps.DefaultLanguage)
	}
	if cfg.Maps.DetailConcurrency != 5 {
		t.Errorf("DetailConcurrency = %d, want 5", cfg.Maps.DetailConcurrency)
	}
	if cfg.Maps.BaseURL != "https://maps.googleapis.com/maps/api" {
		t.Errorf("BaseURL = %q", cfg.Maps.BaseURL)
	}
	if cfg.RedisHost != "" {
		t.Errorf("RedisHost = %q, want empty", cfg.RedisHost)
	}
}

func TestLoad_MissingAPIKeyIsNotAnError(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	cfg, err := Load("geoserver")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Maps.HasAPIKey() {
		t.Error("HasAPIKey() = true, want false")
	}
}

func TestLoad_MapsOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("MAPS_BASE_URL", "http://localhost:9999")
	t.Setenv("MAPS_DEFAULT_LANGUAGE", "th")
	t.Setenv("MAPS_DEFAULT_REGION", "th")
	t.Setenv("MAPS_TIMEOUT", "3s")
	t.Setenv("MAPS_MAX_RETRIES", "4")
	t.Setenv("MAPS_RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("MAPS_DETAIL_CONCURRENCY", "0")
	t.Setenv("MAPS_CACHE_TTL", "1h")
	t.Setenv("REDIS_HOST", "redis:6379")

	cfg, err := Load("geoserver")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	m := cfg.Maps
	if !m.HasAPIKey() || m.APIKey != "test-key" {
		t.Errorf("APIKey = %q", m.APIKey)
	}
	if m.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", m.BaseURL)
	}
	if m.DefaultLanguage != "th" || m.DefaultRegion != "th" {
		t.Errorf("language/region = %q/%q", m.DefaultLanguage, m.DefaultRegion)
	}
	if m.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", m.Timeout)
	}
	if m.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d", m.MaxRetries)
	}
	if m.RateLimitPerSec != 2.5 {
		t.Errorf("RateLimitPerSec = %v", m.RateLimitPerSec)
	}
	if m.DetailConcurrency != 1 {
		t.Errorf("DetailConcurrency = %d, want floor of 1", m.DetailConcurrency)
	}
	if m.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v", m.CacheTTL)
	}
	if cfg.RedisHost != "redis:6379" {
		t.Errorf("RedisHost = %q", cfg.RedisHost)
	}
}

type fakeVault map[string]string

func (f fakeVault) GetSecret(_ context.Context, name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("REDIS_PASSWORD", "env-pass")

	t.Run("vault values win", func(t *testing.T) {
		cfg := &Config{}
		cfg.loadSecrets(context.Background(), fakeVault{
			SecretMapsAPIKey:    "vault-key",
			SecretRedisPassword: "vault-pass",
		})
		if cfg.Maps.APIKey != "vault-key" {
			t.Errorf("APIKey = %q, want vault-key", cfg.Maps.APIKey)
		}
		if cfg.RedisPassword != "vault-pass" {
			t.Errorf("RedisPassword = %q, want vault-pass", cfg.RedisPassword)
		}
	})

	t.Run("missing secret falls back to env", func(t *testing.T) {
		cfg := &Config{}
		cfg.loadSecrets(context.Background(), fakeVault{})
		if cfg.Maps.APIKey != "env-key" {
			t.Errorf("APIKey = %q, want env-key", cfg.Maps.APIKey)
		}
	})
}

func TestConfig_Environment(t *testing.T) {
	tests := []struct {
		env      string
		wantDev  bool
		wantProd bool
	}{
		{"development", true, false},
		{"staging", false, false},
		{"production", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Environment: tt.env}
			if cfg.IsDevelopment() != tt.wantDev {
				t.Errorf("IsDevelopment() = %v", cfg.IsDevelopment())
			}
			if cfg.IsProduction() != tt.wantProd {
				t.Errorf("IsProduction() = %v", cfg.IsProduction())
			}
		})
	}
}

func TestVaultURL(t *testing.T) {
	if got := vaultURL("geo-kv"); got != "https://geo-kv.vault.azure.net/" {
		t.Errorf("vaultURL() = %q", got)
	}
}

func TestLoad_ServerSettings(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "false")

	cfg, err := Load("geoserver")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.RedisPort != 6379 || cfg.RedisTLS {
		t.Errorf("redis port/tls = %d/%v", cfg.RedisPort, cfg.RedisTLS)
	}
	if cfg.RateLimitPerSec != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitPerSec, cfg.RateLimitBurst)
	}
}
