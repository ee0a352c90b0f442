// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package auth

import (
	"errors"
	"fmt"
)

// Provider error codes. Clients receive the code alongside a display message.
const (
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeInvalidToken      = "auth/invalid-token"
	CodeTokenRevoked      = "auth/token-revoked"
)

// Display messages returned by MessageFor.
const (
	MessageInvalidCredentials = "Invalid email or password. Please try again."
	MessageUnexpected         = "An unexpected error occurred. Please try again."
)

var (
	// ErrInvalidCredentials matches every sign in failure caused by a bad
	// email or password, regardless of the specific code.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyRequests is returned when the login limiter rejects a client.
	ErrTooManyRequests = errors.New("too many sign in attempts")

	// ErrUnauthenticated is returned for missing, malformed, expired or revoked tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error is a provider error carrying a stable code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf returns the provider code of err, or "" when err is not a provider error.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// MessageFor maps a sign in error to the message shown on the login form.
// Unknown users, wrong passwords and invalid credentials share one message
// so the form does not reveal which part was wrong.
func MessageFor(err error) string {
	switch CodeOf(err) {
	case CodeUserNotFound, CodeWrongPassword, CodeInvalidCredential:
		return MessageInvalidCredentials
	default:
		return MessageUnexpected
	}
}
