// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "k3q9Zr0pVb7wT1sL5mN8xY2cF4gH6jD0aQwErTyU"

// isolate runs the test from an empty directory with the required env set.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_EMAIL", "admin@biozilla.test")
	t.Setenv("ADMIN_PASSWORD", "correct-horse-battery")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.PageSize != 8 {
		t.Errorf("API.PageSize = %d, want 8", cfg.API.PageSize)
	}
	if cfg.API.SearchDebounce != 300*time.Millisecond {
		t.Errorf("API.SearchDebounce = %v, want 300ms", cfg.API.SearchDebounce)
	}
	if cfg.Store.Backend != "badger" {
		t.Errorf("Store.Backend = %q, want badger", cfg.Store.Backend)
	}
	if cfg.Blob.URLPrefix != "/media" {
		t.Errorf("Blob.URLPrefix = %q, want /media", cfg.Blob.URLPrefix)
	}
	if cfg.Events.Backend != "gochannel" {
		t.Errorf("Events.Backend = %q, want gochannel", cfg.Events.Backend)
	}
	if cfg.Security.JWTSecret != "" {
		t.Errorf("Security.JWTSecret should be empty by default")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"STORE_BACKEND", "store.backend"},
		{"NATS_EMBEDDED", "events.embedded_server"},
		{"SITE_TIMEZONE", "site.timezone"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv(ConfigPathEnvVar, "")
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile("config.yml", []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want config.yml", got)
	}
}

func TestLoadEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEARCH_DEBOUNCE", "150ms")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.API.SearchDebounce != 150*time.Millisecond {
		t.Errorf("API.SearchDebounce = %v, want 150ms", cfg.API.SearchDebounce)
	}
	if got := strings.Join(cfg.Security.CORSOrigins, "|"); got != "https://a.example.org|https://b.example.org" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Security.AdminEmail != "admin@biozilla.test" {
		t.Errorf("Security.AdminEmail = %q", cfg.Security.AdminEmail)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	isolate(t)

	content := `
server:
  port: 8888
  environment: staging
api:
  page_size: 12
site:
  base_url: https://biozilla.example.net
events:
  backend: nats
  embedded_port: 4333
`
	if err := os.WriteFile("config.yaml", []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_PORT", "7777")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (env wins over file)", cfg.Server.Port)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Server.Environment = %q, want staging", cfg.Server.Environment)
	}
	if cfg.API.PageSize != 12 {
		t.Errorf("API.PageSize = %d, want 12", cfg.API.PageSize)
	}
	if cfg.Site.BaseURL != "https://biozilla.example.net" {
		t.Errorf("Site.BaseURL = %q", cfg.Site.BaseURL)
	}
	if cfg.Events.Backend != "nats" || cfg.Events.EmbeddedPort != 4333 {
		t.Errorf("Events = %+v", cfg.Events)
	}
	if cfg.Store.Path != "/data/biozilla" {
		t.Errorf("Store.Path = %q, want default /data/biozilla", cfg.Store.Path)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"JWT_SECRET": ""},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "placeholder password",
			env:     map[string]string{"ADMIN_PASSWORD": "changeme-please"},
			wantErr: "placeholder",
		},
		{
			name:    "wildcard cors in production",
			env:     map[string]string{"ENVIRONMENT": "production"},
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "unknown store backend",
			env:     map[string]string{"STORE_BACKEND": "postgres"},
			wantErr: "STORE_BACKEND",
		},
		{
			name:    "bad base url",
			env:     map[string]string{"SITE_BASE_URL": "ftp://biozilla"},
			wantErr: "SITE_BASE_URL",
		},
		{
			name:    "bad log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
