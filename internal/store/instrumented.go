// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/biozilla/internal/metrics"
)

// Instrumented records Prometheus metrics around every call of the wrapped
// Store. ErrNotFound is an expected outcome and is not counted as an error.
type Instrumented struct {
	next    Store
	backend string
}

// Instrument wraps s with metrics labelled by backend.
func Instrument(s Store, backend string) *Instrumented {
	return &Instrumented{next: s, backend: backend}
}

// Unwrap returns the underlying backend.
func (s *Instrumented) Unwrap() Store {
	return s.next
}

// Backend returns the backend label.
func (s *Instrumented) Backend() string {
	return s.backend
}

func (s *Instrumented) observe(op, collection string) func(error) {
	start := time.Now()
	return func(err error) {
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
		metrics.RecordStoreOperation(s.backend, op, collection, time.Since(start), err)
	}
}

func (s *Instrumented) List(ctx context.Context, collection string) ([]Document, error) {
	done := s.observe("list", collection)
	docs, err := s.next.List(ctx, collection)
	done(err)
	return docs, err
}

func (s *Instrumented) Get(ctx context.Context, collection, id string) (Document, error) {
	done := s.observe("get", collection)
	doc, err := s.next.Get(ctx, collection, id)
	done(err)
	return doc, err
}

func (s *Instrumented) Add(ctx context.Context, collection string, data []byte) (string, error) {
	done := s.observe("add", collection)
	id, err := s.next.Add(ctx, collection, data)
	done(err)
	return id, err
}

func (s *Instrumented) Set(ctx context.Context, collection, id string, data []byte) error {
	done := s.observe("set", collection)
	err := s.next.Set(ctx, collection, id, data)
	done(err)
	return err
}

func (s *Instrumented) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	done := s.observe("update", collection)
	err := s.next.Update(ctx, collection, id, fields)
	done(err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, collection, id string) error {
	done := s.observe("delete", collection)
	err := s.next.Delete(ctx, collection, id)
	done(err)
	return err
}

func (s *Instrumented) Commit(ctx context.Context, b *Batch) error {
	done := s.observe("commit", "batch")
	metrics.StoreBatchSize.Observe(float64(b.Len()))
	err := s.next.Commit(ctx, b)
	done(err)
	return err
}

func (s *Instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Instrumented) Close() error {
	return s.next.Close()
}
