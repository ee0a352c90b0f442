// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Credentials is the single admin account. The password is only ever held as
// a bcrypt hash.
type Credentials struct {
	email        string
	passwordHash []byte
}

// NewCredentials builds the admin account from either a plain password, which
// is hashed once here, or a pre-computed bcrypt hash.
func NewCredentials(email, password, passwordHash string) (*Credentials, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("admin email is required")
	}

	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &Credentials{email: email, passwordHash: []byte(passwordHash)}, nil
	}

	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters for security")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Credentials{email: email, passwordHash: hash}, nil
}

// Email returns the normalized admin email.
func (c *Credentials) Email() string {
	return c.email
}

// Verify checks email and password. The bcrypt comparison runs even for an
// unknown email so both failures take the same time.
func (c *Credentials) Verify(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return newError(CodeInvalidCredential, ErrInvalidCredentials)
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(c.email)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil

	switch {
	case !emailMatch:
		return newError(CodeUserNotFound, ErrInvalidCredentials)
	case !passwordMatch:
		return newError(CodeWrongPassword, ErrInvalidCredentials)
	default:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
