// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
	"github.com/tomtom215/biozilla/internal/models"
)

// TopicCatalogChanged carries a models.CatalogChange for every acknowledged write.
const TopicCatalogChanged = "catalog.changed"

// Backends accepted by Open.
const (
	BackendGoChannel = "gochannel"
	BackendNATS      = "nats"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus is closed")

// Config selects the transport.
type Config struct {
	Backend string
	// NATSURL is dialed when Backend is nats and Embedded is false.
	NATSURL      string
	Embedded     bool
	EmbeddedPort int
	Breaker      BreakerConfig
	CloseTimeout time.Duration
}

// Handler consumes one decoded change.
type Handler func(ctx context.Context, change models.CatalogChange) error

// Bus publishes catalog changes and fans them out to registered handlers.
//
// Publishing never fails the caller's write: errors and open-breaker
// rejections are logged and counted. Handlers registered with Handle run once
// Run starts the router.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router
	breaker    *gobreaker.CircuitBreaker[any]
	logger     watermill.LoggerAdapter
	embedded   *EmbeddedServer

	mu     sync.RWMutex
	closed bool
}

// Open builds the transport selected by cfg.
func Open(cfg Config) (*Bus, error) {
	logger := NewLogger()
	b := &Bus{logger: logger}

	switch cfg.Backend {
	case "", BackendGoChannel:
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		b.publisher, b.subscriber = ch, ch
	case BackendNATS:
		url := cfg.NATSURL
		if cfg.Embedded {
			srv, err := StartEmbeddedServer(cfg.EmbeddedPort)
			if err != nil {
				return nil, err
			}
			b.embedded = srv
			url = srv.ClientURL()
		}
		pub, sub, err := newNATS(url, cfg.CloseTimeout, logger)
		if err != nil {
			b.shutdownEmbedded()
			return nil, err
		}
		b.publisher, b.subscriber = pub, sub
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		b.closeTransport()
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	b.router = router

	breakerCfg := cfg.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "events-publisher"
	}
	b.breaker = newBreaker(breakerCfg)
	return b, nil
}

// Handle registers h under name for every catalog change. Call before Run.
func (b *Bus) Handle(name string, h Handler) {
	b.router.AddConsumerHandler(name, TopicCatalogChanged, b.subscriber, func(msg *message.Message) error {
		var change models.CatalogChange
		if err := json.Unmarshal(msg.Payload, &change); err != nil {
			// Undecodable payloads are dropped rather than redelivered forever.
			b.logger.Error("Dropping malformed catalog change", err, watermill.LogFields{"uuid": msg.UUID})
			return nil
		}
		metrics.EventsConsumed.WithLabelValues(TopicCatalogChanged, name).Inc()
		return h(msg.Context(), change)
	})
}

// CatalogChanged publishes change. It satisfies the catalog, inbox and design notifiers.
func (b *Bus) CatalogChanged(ctx context.Context, change models.CatalogChange) {
	if err := b.Publish(ctx, change); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("collection", change.Collection).
			Str("op", change.Op).
			Msg("Failed to publish catalog change")
	}
}

// Publish sends change through the circuit breaker.
func (b *Bus) Publish(ctx context.Context, change models.CatalogChange) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode catalog change: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	_, err = b.breaker.Execute(func() (any, error) {
		return nil, b.publisher.Publish(TopicCatalogChanged, msg)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.breaker.Name(), "rejected").Inc()
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.breaker.Name(), "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.breaker.Name(), "success").Inc()
	}
	metrics.RecordEventPublish(TopicCatalogChanged, err)
	return err
}

// BreakerState reports the publish breaker state ("closed", "open", "half-open").
func (b *Bus) BreakerState() string {
	return b.breaker.State().String()
}

// Running closes once the router is consuming.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Run consumes with the registered handlers until ctx is done or Close is called.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Close stops the router, the transport and any embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var errs []error
	if err := b.router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close router: %w", err))
	}
	errs = append(errs, b.closeTransport())
	b.shutdownEmbedded()
	return errors.Join(errs...)
}

func (b *Bus) closeTransport() error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// gochannel uses one value for both sides.
	if any(b.subscriber) != any(b.publisher) {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) shutdownEmbedded() {
	if b.embedded != nil {
		b.embedded.Shutdown()
	}
}
