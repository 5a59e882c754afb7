// Package config provides configuration loading with Azure Key Vault integration.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Key Vault secret names.
const (
	SecretMapsAPIKey    = "google-maps-api-key"
	SecretRedisPassword = "redis-password"
)

// Config holds configuration for the geo engine and its server.
type Config struct {
	// Service identification
	ServiceName string
	Environment string
	Version     string

	// HTTP server
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Logging
	LogLevel string

	// Azure
	KeyVaultName string

	// Redis cache, empty host disables it
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisTLS      bool

	// Inbound API limits
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	RateLimitPerSec float64
	RateLimitBurst  int

	// Tracing
	OTLPEndpoint    string
	TraceSampleRate float64

	Maps MapsConfig
}

// MapsConfig holds the places/geocoding provider settings.
type MapsConfig struct {
	// APIKey may be empty. Operations check it lazily and fail with a
	// configuration error on first use.
	APIKey            string
	BaseURL           string
	DefaultLanguage   string
	DefaultRegion     string
	Timeout           time.Duration
	MaxRetries        int
	RateLimitPerSec   float64
	DetailConcurrency int
	CacheTTL          time.Duration
}

// HasAPIKey reports whether a provider credential is configured.
func (m MapsConfig) HasAPIKey() bool {
	return strings.TrimSpace(m.APIKey) != ""
}

// Load loads configuration from environment variables.
// For production, secrets are loaded from Azure Key Vault.
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		ServiceName:     serviceName,
		Environment:     getEnv("ENVIRONMENT", "development"),
		Version:         getEnv("VERSION", "0.0.1"),
		Port:            getEnvInt("PORT", 8080),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		KeyVaultName:    getEnv("KEY_VAULT_NAME", ""),
		RedisHost:       getEnv("REDIS_HOST", ""),
		RedisPort:       getEnvInt("REDIS_PORT", 6380),
		RedisTLS:        getEnvBool("REDIS_TLS", true),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 25*time.Second),
		RateLimitPerSec: getEnvFloat("API_RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:  getEnvInt("API_RATE_LIMIT_BURST", 10),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRate: getEnvFloat("TRACE_SAMPLE_RATE", 0.1),
		Maps: MapsConfig{
			BaseURL:           getEnv("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
			DefaultLanguage:   getEnv("MAPS_DEFAULT_LANGUAGE", "en"),
			DefaultRegion:     getEnv("MAPS_DEFAULT_REGION", ""),
			Timeout:           getEnvDuration("MAPS_TIMEOUT", 10*time.Second),
			MaxRetries:        getEnvInt("MAPS_MAX_RETRIES", 2),
			RateLimitPerSec:   getEnvFloat("MAPS_RATE_LIMIT_PER_SECOND", 10),
			DetailConcurrency: getEnvInt("MAPS_DETAIL_CONCURRENCY", 5),
			CacheTTL:          getEnvDuration("MAPS_CACHE_TTL", 15*time.Minute),
		},
	}

	// Load secrets from Key Vault in production
	if cfg.KeyVaultName != "" && !cfg.IsDevelopment() {
		kv, err := NewKeyVaultClient(cfg.KeyVaultName)
		if err != nil {
			return nil, fmt.Errorf("failed to load secrets from Key Vault: %w", err)
		}
		cfg.loadSecrets(context.Background(), kv)
	} else {
		cfg.loadFromEnv()
	}

	if cfg.Maps.DetailConcurrency < 1 {
		cfg.Maps.DetailConcurrency = 1
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad(serviceName string) *Config {
	cfg, err := Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) loadFromEnv() {
	c.Maps.APIKey = getEnv("GOOGLE_MAPS_API_KEY", "")
	c.RedisPassword = getEnv("REDIS_PASSWORD", "")
}

// SecretGetter reads a named secret.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// loadSecrets fills secrets from the vault. A secret missing from the vault
// falls back to the environment so a partially provisioned vault still boots.
func (c *Config) loadSecrets(ctx context.Context, kv SecretGetter) {
	c.loadFromEnv()

	secrets := map[string]*string{
		SecretMapsAPIKey:    &c.Maps.APIKey,
		SecretRedisPassword: &c.RedisPassword,
	}

	for name, ptr := range secrets {
		value, err := kv.GetSecret(ctx, name)
		if err != nil || value == "" {
			continue
		}
		*ptr = value
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	return getEnv(key, defaultValue)
}

// GetEnvInt gets an environment variable as an integer with a default value.
func GetEnvInt(key string, defaultValue int) int {
	return getEnvInt(key, defaultValue)
}

// GetEnvBool gets an environment variable as a boolean with a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	return getEnvBool(key, defaultValue)
}

// GetEnvDuration gets an environment variable as a duration with a default value.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvDuration(key, defaultValue)
}

// GetEnvFloat gets an environment variable as a float with a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	return getEnvFloat(key, defaultValue)
}
