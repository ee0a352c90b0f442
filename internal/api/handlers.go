// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/biozilla/internal/analytics"
	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/cache"
	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/config"
	"github.com/tomtom215/biozilla/internal/design"
	"github.com/tomtom215/biozilla/internal/inbox"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
	ws "github.com/tomtom215/biozilla/internal/websocket"
)

// statsCacheKey is the single entry of the statistics cache.
const statsCacheKey = "snapshot"

// defaultStatsTTL applies when the config leaves the statistics TTL unset.
const defaultStatsTTL = 30 * time.Second

// BreakerReporter exposes the event bus circuit breaker for /health.
type BreakerReporter interface {
	BreakerState() string
}

// Deps are the collaborators of a Handler. Events and Hub may be nil.
type Deps struct {
	Config  *config.Config
	Store   store.Store
	Catalog *catalog.Catalog
	Inbox   *inbox.Inbox
	Design  *design.Service
	Auth    *auth.Provider
	Engine  *analytics.Engine
	Hub     *ws.Hub
	Events  BreakerReporter
	// ClientIP resolves the caller address for login throttling and audit logs.
	ClientIP func(*http.Request) string
}

// Handler serves every API endpoint.
type Handler struct {
	config   *config.Config
	store    store.Store
	catalog  *catalog.Catalog
	inbox    *inbox.Inbox
	design   *design.Service
	auth     *auth.Provider
	engine   *analytics.Engine
	hub      *ws.Hub
	events   BreakerReporter
	clientIP func(*http.Request) string

	stats *cache.Cache[analytics.Snapshot]
	// statsEpoch counts invalidations. statsMu orders them against cache
	// writes so a snapshot built before an invalidation is never stored.
	statsMu      sync.Mutex
	statsEpoch   atomic.Uint64
	maxBodyBytes int64
	pageSize     int
	startTime    time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewHandler builds the handler from deps.
func NewHandler(deps Deps) *Handler {
	ttl := defaultStatsTTL
	h := &Handler{
		config:    deps.Config,
		store:     deps.Store,
		catalog:   deps.Catalog,
		inbox:     deps.Inbox,
		design:    deps.Design,
		auth:      deps.Auth,
		engine:    deps.Engine,
		hub:       deps.Hub,
		events:    deps.Events,
		clientIP:  deps.ClientIP,
		startTime: time.Now(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	if deps.Config != nil {
		if deps.Config.API.StatsCacheTTL > 0 {
			ttl = deps.Config.API.StatsCacheTTL
		}
		h.maxBodyBytes = deps.Config.API.MaxBodyBytes
		h.pageSize = deps.Config.API.PageSize
	}
	if h.engine == nil {
		h.engine = analytics.NewEngine(time.Now, time.Local)
	}
	if h.clientIP == nil {
		h.clientIP = auth.NewClientIP(nil).Resolve
	}
	h.stats = cache.New[analytics.Snapshot]("stats", ttl)
	return h
}

// InvalidateStats drops the cached statistics. It is registered as an event
// bus handler so any catalog change shows up on the next dashboard load.
func (h *Handler) InvalidateStats(_ context.Context, change models.CatalogChange) error {
	if change.Collection == models.CollectionContent || change.Collection == models.CollectionCategories {
		h.statsMu.Lock()
		h.statsEpoch.Add(1)
		h.stats.Clear()
		h.statsMu.Unlock()
	}
	return nil
}

// shuffle runs fn with the handler's random source held.
func (h *Handler) shuffle(fn func(rng *rand.Rand)) {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	fn(h.rng)
}
