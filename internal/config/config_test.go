// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	cfg.Security.AdminEmail = "admin@biozilla.test"
	cfg.Security.AdminPassword = "correct-horse-battery"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with credentials", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"page size too large", func(c *Config) { c.API.PageSize = 500 }, true},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, true},
		{"email without at", func(c *Config) { c.Security.AdminEmail = "admin" }, true},
		{"hash instead of password", func(c *Config) {
			c.Security.AdminPassword = ""
			c.Security.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuuQe9VbJ1Q1bVv1m3y1wzYcQf0x9sG2e"
		}, false},
		{"hash not bcrypt", func(c *Config) {
			c.Security.AdminPassword = ""
			c.Security.AdminPasswordHash = "plain"
		}, true},
		{"rate limit window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, true},
		{"rate limit ignored when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, false},
		{"login limit still checked when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.LoginRateLimitReqs = 0
		}, true},
		{"production with explicit origins", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://biozilla.example.net"}
		}, false},
		{"blob prefix trailing slash", func(c *Config) { c.Blob.URLPrefix = "/media/" }, true},
		{"nats external bad url", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.EmbeddedServer = false
			c.Events.NATSURL = "http://nats:4222"
		}, true},
		{"nats external", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.EmbeddedServer = false
			c.Events.NATSURL = "nats://nats:4222"
		}, false},
		{"unknown timezone", func(c *Config) { c.Site.Timezone = "Mars/Olympus" }, true},
		{"named timezone", func(c *Config) { c.Site.Timezone = "UTC" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()
	s := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := s.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = false with wildcard default")
	}
	cfg.Security.CORSOrigins = []string{"https://biozilla.example.net"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = true with explicit origins")
	}
}
