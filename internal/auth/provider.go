// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/biozilla/internal/config"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
)

// cleanupInterval is how often Serve prunes expired revocations and idle limiters.
const cleanupInterval = 5 * time.Minute

// StateChange is one sign in or sign out transition of the admin account.
type StateChange struct {
	SignedIn bool      `json:"signedIn"`
	Email    string    `json:"email"`
	TokenID  string    `json:"-"`
	At       time.Time `json:"at"`
}

// Session is the result of a successful sign in.
type Session struct {
	Token  string
	Claims *Claims
}

// Provider signs the admin in and out and authenticates session tokens.
type Provider struct {
	creds   *Credentials
	tokens  *JWTManager
	revoked RevocationList
	limiter *RateLimiter
	audit   *logging.SecurityLogger

	mu       sync.Mutex
	watchers map[uint64]chan StateChange
	nextID   uint64
}

// NewProvider builds the provider from the security configuration.
// A nil revocation list selects an in-memory one.
func NewProvider(cfg *config.SecurityConfig, revoked RevocationList) (*Provider, error) {
	creds, err := NewCredentials(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return nil, fmt.Errorf("admin credentials: %w", err)
	}
	tokens, err := NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	if revoked == nil {
		revoked = NewMemoryRevocationList()
	}

	return &Provider{
		creds:    creds,
		tokens:   tokens,
		revoked:  revoked,
		limiter:  NewRateLimiter(cfg.LoginRateLimitReqs, cfg.LoginRateLimitWindow),
		audit:    logging.NewSecurityLogger(),
		watchers: make(map[uint64]chan StateChange),
	}, nil
}

// SignIn verifies email and password for the client at ip and issues a session token.
func (p *Provider) SignIn(ctx context.Context, ip, email, password string) (*Session, error) {
	if !p.limiter.Allow(ip) {
		metrics.LoginAttempts.WithLabelValues("rate_limited").Inc()
		p.audit.LogLoginFailure(email, ip, CodeTooManyRequests)
		return nil, newError(CodeTooManyRequests, ErrTooManyRequests)
	}

	if err := p.creds.Verify(email, password); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		p.audit.LogLoginFailure(email, ip, CodeOf(err))
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, claims, err := p.tokens.GenerateToken(p.creds.Email(), RoleAdmin)
	if err != nil {
		return nil, err
	}

	p.limiter.Reset(ip)
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	p.audit.LogLoginSuccess(claims.Email, claims.ID, ip)
	p.notify(StateChange{SignedIn: true, Email: claims.Email, TokenID: claims.ID, At: claims.IssuedAt.Time})

	return &Session{Token: token, Claims: claims}, nil
}

// SignOut revokes the session described by claims.
func (p *Provider) SignOut(ctx context.Context, claims *Claims, ip string) error {
	if claims == nil || claims.ID == "" {
		return newError(CodeInvalidToken, ErrUnauthenticated)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := p.revoked.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	p.audit.LogLogout(claims.Email, claims.ID, ip)
	p.notify(StateChange{SignedIn: false, Email: claims.Email, TokenID: claims.ID, At: time.Now()})
	return nil
}

// Authenticate validates a session token and rejects revoked ones.
func (p *Provider) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, newError(CodeInvalidToken, ErrUnauthenticated)
	}

	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		return nil, newError(CodeInvalidToken, errors.Join(ErrUnauthenticated, err))
	}

	revoked, err := p.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, newError(CodeTokenRevoked, ErrUnauthenticated)
	}
	return claims, nil
}

// Watch returns a channel of sign in and sign out transitions. The channel is
// closed when ctx is done. Slow receivers miss transitions rather than block
// the signer.
func (p *Provider) Watch(ctx context.Context) <-chan StateChange {
	ch := make(chan StateChange, 8)

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = ch
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.watchers, id)
		close(ch)
		p.mu.Unlock()
	}()

	return ch
}

func (p *Provider) notify(change StateChange) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}

// Serve prunes expired revocations and idle login limiters until ctx is done.
// It implements suture.Service.
func (p *Provider) Serve(ctx context.Context) error {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.cleanup(ctx)
		}
	}
}

func (p *Provider) cleanup(ctx context.Context) {
	removed, err := p.revoked.CleanupExpired(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to clean up revoked tokens")
	}
	idle := p.limiter.cleanup(time.Now().Add(-time.Hour))
	if removed > 0 || idle > 0 {
		logging.Debug().Int("revocations", removed).Int("limiters", idle).Msg("Auth cleanup")
	}
}

// String identifies the service in supervisor logs.
func (p *Provider) String() string {
	return "auth-cleanup"
}
