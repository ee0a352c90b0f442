// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/biozilla/internal/logging"
)

// EventRunner is satisfied by *events.Bus.
type EventRunner interface {
	Run(ctx context.Context) error
	Close() error
}

// EventBusService consumes catalog changes under the supervisor.
//
// A watermill router runs once, so a router that stops on its own is not
// restarted: the service returns suture.ErrDoNotRestart and publishing keeps
// working through the circuit breaker.
type EventBusService struct {
	bus             EventRunner
	shutdownTimeout time.Duration
	name            string
}

// NewEventBusService wraps bus. A non-positive shutdownTimeout means 10s.
func NewEventBusService(bus EventRunner, shutdownTimeout time.Duration) *EventBusService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventBusService{
		bus:             bus,
		shutdownTimeout: shutdownTimeout,
		name:            "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.bus.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Error().Err(err).Str("service", s.name).Msg("Event router stopped")
		return suture.ErrDoNotRestart
	case <-ctx.Done():
	}

	if err := s.bus.Close(); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Event bus close failed")
	}
	select {
	case <-errCh:
	case <-time.After(s.shutdownTimeout):
		return fmt.Errorf("event bus did not stop within %s", s.shutdownTimeout)
	}
	return ctx.Err()
}

func (s *EventBusService) String() string {
	return s.name
}
