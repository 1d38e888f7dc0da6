// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/textgate/textgate/internal/model"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"4000"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis), used for rate limiting
	RedisURL string `env:"REDIS_URL,required"`

	// Downstream text-processing services. Defaults match the in-cluster
	// service names of the standard deployment.
	TranslationServiceURL string `env:"TRANSLATION_SERVICE_URL" envDefault:"http://translation-service.microservice.svc.cluster.local:5000"`
	SummaryServiceURL     string `env:"SUMMARY_SERVICE_URL" envDefault:"http://summary-service.microservice.svc.cluster.local:5001"`
	KeywordsServiceURL    string `env:"KEYWORDS_SERVICE_URL" envDefault:"http://keywords-service.microservice.svc.cluster.local:5002"`
	EditingServiceURL     string `env:"EDITING_SERVICE_URL" envDefault:"http://editing-service.microservice.svc.cluster.local:5003"`
	AnalyticsServiceURL   string `env:"ANALYTICS_SERVICE_URL" envDefault:"http://analytics-service.microservice.svc.cluster.local:5004"`

	// Total round-trip budget for one downstream call. There is no retry;
	// a single failed attempt is terminal for that request.
	DownstreamTimeout time.Duration `env:"DOWNSTREAM_TIMEOUT" envDefault:"60s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting (per client IP, token bucket in Redis)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Metrics snapshot endpoint (GET /metrics)
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ServiceURL returns the base URL of the downstream service for the given
// operation kind.
func (c *Config) ServiceURL(kind model.OperationKind) (string, error) {
	switch kind {
	case model.OperationTranslation:
		return c.TranslationServiceURL, nil
	case model.OperationSummary:
		return c.SummaryServiceURL, nil
	case model.OperationKeywords:
		return c.KeywordsServiceURL, nil
	case model.OperationEditing:
		return c.EditingServiceURL, nil
	case model.OperationAnalytics:
		return c.AnalyticsServiceURL, nil
	default:
		return "", fmt.Errorf("no service URL for operation kind %q", kind)
	}
}

// ServiceURLs returns the base URL for every operation kind, keyed by kind.
func (c *Config) ServiceURLs() map[model.OperationKind]string {
	return map[model.OperationKind]string{
		model.OperationTranslation: c.TranslationServiceURL,
		model.OperationSummary:     c.SummaryServiceURL,
		model.OperationKeywords:    c.KeywordsServiceURL,
		model.OperationEditing:     c.EditingServiceURL,
		model.OperationAnalytics:   c.AnalyticsServiceURL,
	}
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
