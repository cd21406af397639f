package config

import (
	"strings"
	"testing"
)

func productionConfig() *Config {
	return &Config{
		Environment:        EnvProduction,
		LogLevel:           "info",
		CORSAllowedOrigins: "https://app.example.com",
	}
}

func TestValidateForProduction_NonProductionNoop(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, Debug: true, LogLevel: "debug", CORSAllowedOrigins: "*"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil for development, got %v", err)
	}
}

func TestValidateForProduction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"debug enabled", func(c *Config) { c.Debug = true }, "DEBUG"},
		{"debug log level", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
		{"wildcard cors", func(c *Config) { c.CORSAllowedOrigins = " * " }, "CORS_ALLOWED_ORIGINS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := productionConfig()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSwaggerInitOAuth(t *testing.T) {
	cfg := &Config{APITitle: "Items API"}
	if got := cfg.SwaggerInitOAuth(); got != nil {
		t.Fatalf("expected nil without client id, got %v", got)
	}

	cfg.SwaggerOAuthClientID = "docs-client"
	got := cfg.SwaggerInitOAuth()
	if got["clientId"] != "docs-client" {
		t.Errorf("clientId: got %v", got["clientId"])
	}
	if got["appName"] != "Items API" {
		t.Errorf("appName: got %v", got["appName"])
	}
}
