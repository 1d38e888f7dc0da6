// Package main is the entrypoint for the Textgate API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/textgate/textgate/internal/cache"
	"github.com/textgate/textgate/internal/config"
	"github.com/textgate/textgate/internal/downstream"
	"github.com/textgate/textgate/internal/handler"
	"github.com/textgate/textgate/internal/metrics"
	"github.com/textgate/textgate/internal/middleware"
	"github.com/textgate/textgate/internal/repository"
	"github.com/textgate/textgate/internal/server"
	"github.com/textgate/textgate/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Metrics recorder: in-memory when the /metrics endpoint is on.
	var recorder metrics.Recorder
	var snapshotter metrics.Snapshotter
	if cfg.MetricsEnabled {
		inMemory := metrics.NewInMemory()
		recorder = inMemory
		snapshotter = inMemory
	} else {
		recorder = metrics.NewNoop()
	}

	// Initialize services
	client := downstream.NewClient(cfg.ServiceURLs(), cfg.DownstreamTimeout)
	identityService := service.NewIdentityService(repo)
	gatewayService := service.NewGatewayService(repo, client, logger, recorder)
	historyService := service.NewHistoryService(repo, recorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	userHandler := handler.NewUserHandler(identityService, logger)
	operationHandler := handler.NewOperationHandler(gatewayService, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)
	metricsHandler := handler.NewMetricsHandler(snapshotter)

	// Setup router
	r := setupRouter(routerDeps{
		base:      h,
		health:    healthHandler,
		user:      userHandler,
		operation: operationHandler,
		history:   historyHandler,
		metrics:   metricsHandler,
		cache:     cacheClient,
		cfg:       cfg,
		logger:    logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	base      *handler.Handler
	health    *handler.HealthHandler
	user      *handler.UserHandler
	operation *handler.OperationHandler
	history   *handler.HistoryHandler
	metrics   *handler.MetricsHandler
	cache     *cache.Cache
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.BodyLimit(deps.cfg.MaxRequestBodySize))

	// Health endpoints
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	if deps.cfg.MetricsEnabled {
		r.Get("/metrics", deps.metrics.Metrics)
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitEnabled,
		RPS:     deps.cfg.RateLimitRPS,
		Burst:   deps.cfg.RateLimitBurst,
	}

	// Identity and history
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Post("/register", deps.user.Register)
		r.Post("/login", deps.user.Login)
		r.Get("/history", deps.history.Get)
		r.Delete("/history", deps.history.Clear)
	})

	// Text-processing operations, one route for all five kinds
	r.With(middleware.RateLimitIP(rateLimitCfg)).
		Post("/microservices/{operation}", deps.operation.Process)

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
