// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package logging provides the zerolog-based structured logger used across Biozilla.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  cfg.Logging.Level,
//	    Format: cfg.Logging.Format,
//	    Caller: cfg.Logging.Caller,
//	})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Error().Err(err).Msg("Failed to save content")
//
// # Context
//
// The API middleware stores a request ID and a correlation ID in the request
// context. Ctx(ctx) returns a logger that carries both:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Upload rejected")
//
// # Security Events
//
// SecurityLogger records admin sign in, sign out and access denials with
// masked email addresses and token ids.
//
// # slog
//
// SlogHandler adapts zerolog to log/slog for libraries that only accept an
// *slog.Logger, such as sutureslog.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging
