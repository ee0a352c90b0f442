// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package config loads and validates Biozilla's runtime configuration.

# Configuration Sources

Values are layered with koanf, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/biozilla/config.yaml or /etc/biozilla/config.yml
 3. Environment variables listed in envMappings

Environment variables that are not in envMappings are ignored.

# Sections

  - server: listen address, timeouts, environment
  - api: admin page size, analytics cache TTL, search debounce, body limit
  - security: admin account, JWT sessions, CORS, rate limits, casbin files
  - logging: level, format, caller
  - store: document store backend (badger, duckdb, memory)
  - blob: upload directory and public URL prefix
  - events: watermill backend (gochannel or nats) and circuit breaker
  - site: public base URL and analytics timezone

# Required Settings

JWT_SECRET (32+ characters), ADMIN_EMAIL and either ADMIN_PASSWORD or
ADMIN_PASSWORD_HASH must be set. Validate rejects placeholder values such as
"changeme" and wildcard CORS origins in production.

# Example

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.Server.Addr())
*/
package config
