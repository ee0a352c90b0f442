// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeHub struct {
	err error
}

func (f *fakeHub) RunWithContext(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService(t *testing.T) {
	t.Parallel()

	hubErr := errors.New("hub failed")
	tests := []struct {
		name string
		hub  *fakeHub
		want error
	}{
		{"deadline", &fakeHub{}, context.DeadlineExceeded},
		{"hub error", &fakeHub{err: hubErr}, hubErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()

			svc := NewWebSocketHubService(tt.hub)
			if err := svc.Serve(ctx); !errors.Is(err, tt.want) {
				t.Errorf("Serve() = %v, want %v", err, tt.want)
			}
			if svc.String() != "websocket-hub" {
				t.Errorf("String() = %q, want websocket-hub", svc.String())
			}
		})
	}
}
