// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/biozilla/internal/analytics"
	"github.com/tomtom215/biozilla/internal/api"
	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/authz"
	"github.com/tomtom215/biozilla/internal/blob"
	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/config"
	"github.com/tomtom215/biozilla/internal/design"
	"github.com/tomtom215/biozilla/internal/events"
	"github.com/tomtom215/biozilla/internal/gallery"
	"github.com/tomtom215/biozilla/internal/inbox"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
	"github.com/tomtom215/biozilla/internal/supervisor"
	"github.com/tomtom215/biozilla/internal/supervisor/services"
	ws "github.com/tomtom215/biozilla/internal/websocket"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(Version, runtime.Version())

	logging.Info().
		Str("version", Version).
		Str("store_backend", cfg.Store.Backend).
		Str("events_backend", cfg.Events.Backend).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Biozilla with supervisor tree")

	loc, err := cfg.Site.Location()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid site timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, loc); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until ctx is canceled. Deferred
// closes run in reverse order once the supervisor tree has stopped.
//
//nolint:gocyclo // Sequential wiring of every component
func run(ctx context.Context, cfg *config.Config, loc *time.Location) error {
	st, err := store.Open(store.Config{
		Backend:    cfg.Store.Backend,
		Path:       cfg.Store.Path,
		SyncWrites: cfg.Store.SyncWrites,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Str("backend", cfg.Store.Backend).Str("path", cfg.Store.Path).Msg("Store opened")

	bus, err := events.Open(events.Config{
		Backend:      cfg.Events.Backend,
		NATSURL:      cfg.Events.NATSURL,
		Embedded:     cfg.Events.EmbeddedServer,
		EmbeddedPort: cfg.Events.EmbeddedPort,
		Breaker: events.BreakerConfig{
			MaxFailures: cfg.Events.BreakerMaxFailures,
			Timeout:     cfg.Events.BreakerTimeout,
		},
		CloseTimeout: cfg.Events.CloseTimeout,
	})
	if err != nil {
		return err
	}
	// The event bus service closes it on shutdown; this covers early returns.
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	blobs, err := blob.NewFS(cfg.Blob.Dir, cfg.Blob.URLPrefix)
	if err != nil {
		return err
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing blob storage")
		}
	}()

	cat := catalog.New(st, catalog.WithNotifier(bus))
	designs := design.New(st, blobs, bus)
	messages := inbox.New(st, bus)

	// Both mirrors read disjoint collections.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return cat.Load(gctx) })
	g.Go(func() error { return designs.Load(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info().
		Int("items", len(cat.Content())).
		Int("categories", len(cat.Categories())).
		Msg("Catalog loaded")

	provider, err := auth.NewProvider(&cfg.Security, nil)
	if err != nil {
		return err
	}
	clientIP := auth.NewClientIP(cfg.Security.TrustedProxies)

	enforcer, err := authz.NewEnforcer(authz.Config{
		ModelPath:  cfg.Security.Casbin.ModelPath,
		PolicyPath: cfg.Security.Casbin.PolicyPath,
	})
	if err != nil {
		return err
	}
	defer enforcer.Close()

	hub := ws.NewHub(ws.Config{
		Search: func(query, category string) []models.ContentItem {
			return gallery.PublicSearch(cat.Content(), query, category)
		},
		DebounceDelay: cfg.API.SearchDebounce,
	})
	go hub.WatchAuth(provider.Watch(ctx))

	handler := api.NewHandler(api.Deps{
		Config:   cfg,
		Store:    st,
		Catalog:  cat,
		Inbox:    messages,
		Design:   designs,
		Auth:     provider,
		Engine:   analytics.NewEngine(time.Now, loc),
		Hub:      hub,
		Events:   bus,
		ClientIP: clientIP.Resolve,
	})

	bus.Handle("stats-cache", handler.InvalidateStats)
	bus.Handle("websocket", hub.HandleCatalogChange)

	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security, clientIP.Resolve)),
		auth.NewMiddleware(provider, clientIP, api.WriteAuthError),
		authz.NewMiddleware(enforcer, clientIP.Resolve, api.WriteAuthError),
		api.WithMedia(cfg.Blob.URLPrefix, blobs.Handler()),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewEventBusService(bus, cfg.Events.CloseTimeout))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(provider)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel yields exactly one result and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	return serveErr
}
