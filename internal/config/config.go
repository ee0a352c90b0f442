// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Store    StoreConfig    `koanf:"store"`
	Blob     BlobConfig     `koanf:"blob"`
	Events   EventsConfig   `koanf:"events"`
	Site     SiteConfig     `koanf:"site"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// APIConfig holds admin listing and dashboard settings
type APIConfig struct {
	// PageSize is the admin content table page size.
	PageSize int `koanf:"page_size"`
	// StatsCacheTTL bounds how long an analytics snapshot is served before
	// it is recomputed. Catalog changes invalidate it immediately.
	StatsCacheTTL time.Duration `koanf:"stats_cache_ttl"`
	// SearchDebounce is the quiet period of websocket live search.
	SearchDebounce time.Duration `koanf:"search_debounce"`
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// SecurityConfig holds authentication, authorization and rate limit settings
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// The single admin account. AdminPasswordHash (bcrypt) takes precedence
	// over AdminPassword, which is hashed at startup.
	AdminEmail        string `koanf:"admin_email"`
	AdminPassword     string `koanf:"admin_password"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	// Login attempts per client IP.
	LoginRateLimitReqs   int           `koanf:"login_rate_limit_reqs"`
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`

	// API requests per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig holds Casbin RBAC authorization settings.
//
// Environment Variables:
//   - CASBIN_MODEL_PATH: Path to Casbin model file (default: embedded)
//   - CASBIN_POLICY_PATH: Path to Casbin policy file (default: embedded)
type CasbinConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig selects the document store backend.
//
// Environment Variables:
//   - STORE_BACKEND: badger, duckdb, memory (default: badger)
//   - STORE_PATH: badger directory or duckdb file (default: /data/biozilla)
//   - STORE_SYNC_WRITES: fsync every badger write (default: true)
type StoreConfig struct {
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// BlobConfig configures uploaded asset storage.
type BlobConfig struct {
	Dir       string `koanf:"dir"`
	URLPrefix string `koanf:"url_prefix"`
}

// EventsConfig configures the domain event bus.
//
// Environment Variables:
//   - EVENTS_BACKEND: gochannel, nats (default: gochannel)
//   - NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: run an embedded NATS server (default: true)
//   - NATS_PORT: embedded server port (default: 4222)
type EventsConfig struct {
	Backend        string `koanf:"backend"`
	NATSURL        string `koanf:"nats_url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedPort   int    `koanf:"embedded_port"`

	// Publisher circuit breaker.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`

	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// SiteConfig holds public site settings.
type SiteConfig struct {
	// BaseURL is the public origin used in sitemap entries.
	BaseURL string `koanf:"base_url"`
	// Timezone names the IANA zone whose midnights bound analytics buckets.
	Timezone string `koanf:"timezone"`
}

// Location resolves Timezone, falling back to the process local zone.
func (s SiteConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("SITE_TIMEZONE %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
