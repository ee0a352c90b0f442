// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationList remembers signed-out token ids until the tokens would have
// expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) (int, error)
}

// MemoryRevocationList is an in-process RevocationList. Revocations are lost
// on restart, which only re-admits tokens that were explicitly signed out.
type MemoryRevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty revocation list.
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records jti. Revoking an already expired token is a no-op.
func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if !expiresAt.After(l.now()) {
		return nil
	}
	l.mu.Lock()
	l.entries[jti] = expiresAt
	l.mu.Unlock()
	return nil
}

// IsRevoked reports whether jti was revoked and has not yet expired.
func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.RLock()
	expiresAt, ok := l.entries[jti]
	l.mu.RUnlock()
	return ok && expiresAt.After(l.now()), nil
}

// CleanupExpired drops entries whose tokens have expired.
func (l *MemoryRevocationList) CleanupExpired(_ context.Context) (int, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for jti, expiresAt := range l.entries {
		if !expiresAt.After(now) {
			delete(l.entries, jti)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked entries, expired or not.
func (l *MemoryRevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
