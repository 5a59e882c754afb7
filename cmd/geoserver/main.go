// Command geoserver serves the geo engine API.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mycobrun/geoengine/api"
	"github.com/mycobrun/geoengine/bootstrap"
	httpx "github.com/mycobrun/geoengine/http"
	"github.com/mycobrun/geoengine/telemetry"
)

const serviceName = "geoserver"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.Initialize(ctx, serviceName, bootstrap.DefaultOptions())
	if err != nil {
		log.Fatalf("failed to initialize %s: %v", serviceName, err)
	}
	logger := svc.Logger
	cfg := svc.Config

	limiterCfg := httpx.DefaultRateLimiterConfig()
	limiterCfg.RequestsPerSecond = cfg.RateLimitPerSec
	limiterCfg.BurstSize = cfg.RateLimitBurst
	limiter := httpx.NewRateLimiter(limiterCfg)
	go limiter.Run(ctx, time.Minute)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestID,
		httpx.RealIP,
		telemetry.TracingMiddleware(svc.Tracing.Tracer()),
		httpx.Logger(logger),
		httpx.Recoverer(logger),
		telemetry.MetricsMiddleware(svc.HTTPMetrics, api.RoutePattern),
		httpx.SecurityHeaders,
		httpx.CORS(cfg.AllowedOrigins),
		limiter.Middleware,
		httpx.Timeout(cfg.RequestTimeout),
	}
	router := api.NewRouter(api.NewHandler(svc.Geo), svc.Health, middlewares...)

	server := httpx.NewServer(httpx.ServerConfig{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, router, logger)

	runErr := server.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Close(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err.Error())
	}

	if runErr != nil {
		logger.Error("server stopped", "error", runErr.Error())
		os.Exit(1)
	}
}
