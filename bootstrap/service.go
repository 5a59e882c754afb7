// Package bootstrap wires the geo engine's collaborators from configuration:
// telemetry providers, the Redis response cache, the provider rate limiter,
// the facade and its health checks.
package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mycobrun/geoengine/config"
	"github.com/mycobrun/geoengine/geoclient"
	"github.com/mycobrun/geoengine/health"
	"github.com/mycobrun/geoengine/logging"
	"github.com/mycobrun/geoengine/maps"
	"github.com/mycobrun/geoengine/telemetry"
)

// Service holds all initialized components of the geo server.
type Service struct {
	Config      *config.Config
	Logger      *logging.Logger
	Geo         *geoclient.Client
	Health      *health.Checker
	Tracing     *telemetry.TracingProvider
	Metrics     *telemetry.MetricsProvider
	HTTPMetrics *telemetry.HTTPMetrics

	redis *redis.Client
}

// Options configures which optional components to start.
type Options struct {
	UseRedis     bool
	UseTelemetry bool
}

// DefaultOptions enables every optional component.
func DefaultOptions() Options {
	return Options{
		UseRedis:     true,
		UseTelemetry: true,
	}
}

// Initialize builds the service from configuration loaded from Key Vault
// (production) or environment variables (development).
func Initialize(ctx context.Context, serviceName string, opts Options) (*Service, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.NewLogger(cfg.LogLevel).WithService(serviceName)
	return New(ctx, cfg, logger, opts)
}

// New builds the service from an already loaded configuration.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts Options) (*Service, error) {
	logger.Info("starting service",
		"environment", cfg.Environment,
		"key_vault", valueOrNone(cfg.KeyVaultName),
		"maps_key_configured", cfg.Maps.HasAPIKey(),
	)

	svc := &Service{
		Config: cfg,
		Logger: logger,
		Health: health.NewChecker(cfg.Version),
	}

	geoOpts := geoclient.Options{
		Logger:    logger,
		Transport: telemetry.NewTracedTransport(nil),
	}

	if opts.UseTelemetry {
		if err := svc.startTelemetry(ctx); err != nil {
			svc.Close(ctx)
			return nil, err
		}
		geoOpts.Tracer = maps.NewTracer(svc.Tracing.Tracer())
		geoMetrics, err := telemetry.NewGeoMetrics(svc.Metrics.Meter())
		if err != nil {
			svc.Close(ctx)
			return nil, fmt.Errorf("failed to create geo metrics: %w", err)
		}
		geoOpts.Metrics = geoMetrics
	}

	if opts.UseRedis && cfg.RedisHost != "" {
		cache, err := svc.connectRedis(ctx)
		if err != nil {
			// The cache only saves provider calls.
			logger.Warn("redis unavailable, running without cache", "error", err.Error())
		} else {
			geoOpts.Cache = cache
			svc.Health.AddCheck("redis", health.RedisCheck(cache, 2*time.Second), false)
			logger.Info("redis cache enabled", "host", cfg.RedisHost)
		}
	}

	if cfg.Maps.RateLimitPerSec > 0 {
		burst := int(cfg.Maps.RateLimitPerSec)
		if burst < 1 {
			burst = 1
		}
		geoOpts.Limiter = maps.NewTokenBucketLimiter(cfg.Maps.RateLimitPerSec, burst)
	}

	svc.Geo = geoclient.New(cfg.Maps, geoOpts)

	svc.Health.AddCheck("maps_credential", health.CredentialCheck(svc.Geo.CheckCredential), true)
	svc.Health.AddCheck("maps_circuit", health.CircuitCheck(svc.Geo.CircuitState), false)

	return svc, nil
}

func (s *Service) startTelemetry(ctx context.Context) error {
	cfg := s.Config

	tp, err := telemetry.NewTracingProvider(ctx, telemetry.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Insecure:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tracing provider: %w", err)
	}
	s.Tracing = tp

	mp, err := telemetry.NewMetricsProvider(ctx, telemetry.MetricsConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("failed to create metrics provider: %w", err)
	}
	s.Metrics = mp

	hm, err := telemetry.NewHTTPMetrics(mp.Meter())
	if err != nil {
		return fmt.Errorf("failed to create http metrics: %w", err)
	}
	s.HTTPMetrics = hm
	return nil
}

func (s *Service) connectRedis(ctx context.Context) (*maps.RedisCache, error) {
	cfg := s.Config
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		PoolSize:     50,
		MinIdleConns: 5,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.redis = client
	return maps.NewRedisCache(client, ""), nil
}

// Close flushes telemetry and releases connections.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	if s.Tracing != nil {
		errs = append(errs, s.Tracing.Shutdown(ctx))
	}
	if s.Metrics != nil {
		errs = append(errs, s.Metrics.Shutdown(ctx))
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	return errors.Join(errs...)
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none - using env vars)"
	}
	return s
}
