package config

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP
	HTTPAddr string `conf:"default::8080,env:HTTP_ADDR"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`
	Debug       bool   `conf:"default:false,env:DEBUG"`

	// CORS: comma-separated list of allowed origins; use * to allow all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// API documentation. An empty URL disables the matching route.
	APITitle          string `conf:"default:Items API,env:API_TITLE"`
	APIDescription    string `conf:"env:API_DESCRIPTION"`
	APIVersion        string `conf:"default:0.1.0,env:API_VERSION"`
	OpenAPIURL        string `conf:"default:/openapi.json,env:OPENAPI_URL"`
	DocsURL           string `conf:"default:/docs,env:DOCS_URL"`
	RedocURL          string `conf:"default:/redoc,env:REDOC_URL"`
	OAuth2RedirectURL string `conf:"default:/docs/oauth2-redirect,env:DOCS_OAUTH2_REDIRECT_URL"`
	// DocsStaticURL serves Swagger UI assets from the binary instead of a CDN.
	DocsStaticURL string `conf:"env:DOCS_STATIC_URL"`
	// SwaggerOAuthClientID pre-fills the Authorize dialog of the docs UI.
	SwaggerOAuthClientID string `conf:"env:SWAGGER_OAUTH_CLIENT_ID"`

	// RedisURL enables the read-through item cache when set.
	RedisURL string `conf:"env:REDIS_URL,mask"`

	// Observability
	ServiceName    string `conf:"default:apidocs,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ValidateForProduction enforces safety requirements when ENVIRONMENT=production.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if cfg.Debug {
		errs = append(errs, "DEBUG must be false in production (tracebacks are written to responses)")
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if strings.TrimSpace(cfg.CORSAllowedOrigins) == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}

// SwaggerInitOAuth returns the Swagger UI initOAuth settings derived from
// SwaggerOAuthClientID, or nil when no client is configured.
func (c *Config) SwaggerInitOAuth() map[string]any {
	if c.SwaggerOAuthClientID == "" {
		return nil
	}
	return map[string]any{
		"clientId":                          c.SwaggerOAuthClientID,
		"appName":                           c.APITitle,
		"usePkceWithAuthorizationCodeGrant": true,
	}
}
