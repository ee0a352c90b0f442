// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/biozilla/internal/models"
)

func testConfig(backend string) Config {
	return Config{
		Backend:      backend,
		Embedded:     true,
		EmbeddedPort: -1,
		Breaker:      BreakerConfig{MaxFailures: 3, Timeout: time.Minute},
		CloseTimeout: time.Second,
	}
}

// roundTrip publishes a change until both handlers have seen it. Core NATS
// subscriptions settle asynchronously, so the first publish may be missed.
func roundTrip(t *testing.T, b *Bus) {
	t.Helper()

	first := make(chan models.CatalogChange, 1)
	second := make(chan models.CatalogChange, 1)
	deliver := func(ch chan models.CatalogChange) Handler {
		return func(_ context.Context, c models.CatalogChange) error {
			select {
			case ch <- c:
			default:
			}
			return nil
		}
	}
	b.Handle("first", deliver(first))
	b.Handle("second", deliver(second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = b.Run(ctx)
	}()
	select {
	case <-b.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	want := models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeDelete, IDs: []string{"a", "b"}}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	var got []models.CatalogChange
	for len(got) < 2 {
		if err := b.Publish(ctx, want); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case c := <-first:
			got = append(got, c)
			first = nil
		case c := <-second:
			got = append(got, c)
			second = nil
		case <-ticker.C:
		case <-deadline:
			t.Fatalf("received %d of 2 deliveries", len(got))
		}
	}

	for _, c := range got {
		if c.Op != want.Op || len(c.IDs) != 2 || c.IDs[1] != "b" {
			t.Errorf("handler got %+v, want %+v", c, want)
		}
	}
}

func TestGoChannelBus(t *testing.T) {
	b, err := Open(testConfig(BackendGoChannel))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	roundTrip(t, b)
}

func TestEmbeddedNATSBus(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a NATS server")
	}

	b, err := Open(testConfig(BackendNATS))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()
	if b.embedded == nil || !b.embedded.Running() {
		t.Fatal("embedded NATS server not running")
	}

	roundTrip(t, b)
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Backend: "kafka"}); err == nil {
		t.Error("Open(kafka) error = nil, want error")
	}
}

type failingPublisher struct {
	calls int
}

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.calls++
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error {
	return nil
}

func TestPublishBreakerOpens(t *testing.T) {
	t.Parallel()

	pub := &failingPublisher{}
	b := &Bus{
		publisher: pub,
		breaker:   newBreaker(BreakerConfig{Name: "test-breaker", MaxFailures: 2, Timeout: time.Hour}),
	}

	ctx := context.Background()
	change := models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeCreate}
	for range 2 {
		if err := b.Publish(ctx, change); err == nil {
			t.Fatal("Publish() error = nil, want broker failure")
		}
	}
	if got := b.BreakerState(); got != "open" {
		t.Fatalf("BreakerState() = %q, want open", got)
	}

	err := b.Publish(ctx, change)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Publish() with open breaker error = %v, want ErrOpenState", err)
	}
	if pub.calls != 2 {
		t.Errorf("publisher called %d times, want 2", pub.calls)
	}

	// The notifier form swallows the error.
	b.CatalogChanged(ctx, change)
}

func TestPublishAfterClose(t *testing.T) {
	t.Parallel()

	b, err := Open(testConfig(BackendGoChannel))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Publish(context.Background(), models.CatalogChange{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish() after Close error = %v, want ErrClosed", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestCloseWithoutRunStopsEmbeddedServer(t *testing.T) {
	t.Parallel()

	b, err := Open(testConfig(BackendNATS))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	url := b.embedded.ClientURL()

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	nc, err := natsgo.Connect(url, natsgo.Timeout(time.Second))
	if err == nil {
		nc.Close()
		t.Fatalf("embedded server at %s still accepts connections after Close", url)
	}
}
