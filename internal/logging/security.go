// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an audit record for an admin authentication event.
type SecurityEvent struct {
	// Event names what happened: login_success, login_failure, logout,
	// login_rate_limited, access_denied.
	Event     string
	Email     string
	TokenID   string
	IPAddress string
	Path      string
	Success   bool
	// Code is the provider error code for failures, e.g. auth/wrong-password.
	Code string
}

// SecurityLogger writes sanitized authentication audit events.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWithLogger(Logger())
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent logs event. Email and token id are masked.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", event.Event).Bool("success", event.Success)

	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.TokenID != "" {
		e = e.Str("token_id", SanitizeToken(event.TokenID))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Path != "" {
		e = e.Str("path", event.Path)
	}
	if event.Code != "" {
		e = e.Str("code", event.Code)
	}

	e.Msg("security event")
}

// LogLoginSuccess records a successful admin sign in.
func (l *SecurityLogger) LogLoginSuccess(email, tokenID, ip string) {
	l.LogEvent(&SecurityEvent{Event: "login_success", Email: email, TokenID: tokenID, IPAddress: ip, Success: true})
}

// LogLoginFailure records a rejected sign in with its provider error code.
func (l *SecurityLogger) LogLoginFailure(email, ip, code string) {
	l.LogEvent(&SecurityEvent{Event: "login_failure", Email: email, IPAddress: ip, Code: code})
}

// LogLogout records a sign out and the revoked token id.
func (l *SecurityLogger) LogLogout(email, tokenID, ip string) {
	l.LogEvent(&SecurityEvent{Event: "logout", Email: email, TokenID: tokenID, IPAddress: ip, Success: true})
}

// LogAccessDenied records an authorization failure on an admin route.
func (l *SecurityLogger) LogAccessDenied(email, ip, path string) {
	l.LogEvent(&SecurityEvent{Event: "access_denied", Email: email, IPAddress: ip, Path: path})
}

// SanitizeToken masks a token or token id, showing only the first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9" -> "eyJh...VCJ9"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail masks the local part of an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}

	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}
