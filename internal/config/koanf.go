// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/biozilla/config.yaml",
	"/etc/biozilla/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			PageSize:       8,
			StatsCacheTTL:  time.Minute,
			SearchDebounce: 300 * time.Millisecond,
			MaxBodyBytes:   1 << 20,
		},
		Security: SecurityConfig{
			JWTSecret:            "",
			SessionTimeout:       24 * time.Hour,
			AdminEmail:           "",
			AdminPassword:        "",
			AdminPasswordHash:    "",
			LoginRateLimitReqs:   5,
			LoginRateLimitWindow: time.Minute,
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			RateLimitDisabled:    false,
			CORSOrigins:          []string{"*"},
			TrustedProxies:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Backend:    "badger",
			Path:       "/data/biozilla",
			SyncWrites: true,
		},
		Blob: BlobConfig{
			Dir:       "/data/media",
			URLPrefix: "/media",
		},
		Events: EventsConfig{
			Backend:            "gochannel",
			NATSURL:            "nats://127.0.0.1:4222",
			EmbeddedServer:     true,
			EmbeddedPort:       4222,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
			CloseTimeout:       10 * time.Second,
		},
		Site: SiteConfig{
			BaseURL:  "http://localhost:8080",
			Timezone: "Local",
		},
	}
}

// Load reads configuration from defaults, the first config file found and
// environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are settings that arrive from env vars as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"api_page_size":      "api.page_size",
	"stats_cache_ttl":    "api.stats_cache_ttl",
	"search_debounce":    "api.search_debounce",
	"api_max_body_bytes": "api.max_body_bytes",

	"jwt_secret":              "security.jwt_secret",
	"session_timeout":         "security.session_timeout",
	"admin_email":             "security.admin_email",
	"admin_password":          "security.admin_password",
	"admin_password_hash":     "security.admin_password_hash",
	"login_rate_limit_reqs":   "security.login_rate_limit_reqs",
	"login_rate_limit_window": "security.login_rate_limit_window",
	"rate_limit_requests":     "security.rate_limit_reqs",
	"rate_limit_window":       "security.rate_limit_window",
	"disable_rate_limit":      "security.rate_limit_disabled",
	"cors_origins":            "security.cors_origins",
	"trusted_proxies":         "security.trusted_proxies",
	"casbin_model_path":       "security.casbin.model_path",
	"casbin_policy_path":      "security.casbin.policy_path",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"store_backend":     "store.backend",
	"store_path":        "store.path",
	"store_sync_writes": "store.sync_writes",

	"blob_dir":        "blob.dir",
	"blob_url_prefix": "blob.url_prefix",

	"events_backend":              "events.backend",
	"nats_url":                    "events.nats_url",
	"nats_embedded":               "events.embedded_server",
	"nats_port":                   "events.embedded_port",
	"events_breaker_max_failures": "events.breaker_max_failures",
	"events_breaker_timeout":      "events.breaker_timeout",
	"events_close_timeout":        "events.close_timeout",

	"site_base_url": "site.base_url",
	"site_timezone": "site.timezone",
}

// envTransformFunc maps an environment variable name to its config key.
// Unmapped variables return "" and are skipped so unrelated environment
// variables cannot pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
