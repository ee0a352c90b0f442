// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Memory is a map-backed Store for tests and development.
type Memory struct {
	mu     sync.RWMutex
	colls  map[string]map[string][]byte
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{colls: make(map[string]map[string][]byte)}
}

func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	coll := m.colls[collection]
	ids := slices.Sorted(maps.Keys(coll))
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Data: slices.Clone(coll[id])})
	}
	return docs, nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Document{}, ErrClosed
	}

	data, ok := m.colls[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: slices.Clone(data)}, nil
}

func (m *Memory) Add(ctx context.Context, collection string, data []byte) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, data []byte) error {
	return m.Commit(ctx, NewBatch().Set(collection, id, data))
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return m.Commit(ctx, NewBatch().Update(collection, id, fields))
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	return m.Commit(ctx, NewBatch().Delete(collection, id))
}

// Commit stages every write against a copy of the touched collections and
// swaps them in only when all writes succeed.
func (m *Memory) Commit(_ context.Context, b *Batch) error {
	if err := b.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	staged := make(map[string]map[string][]byte)
	stage := func(collection string) map[string][]byte {
		if c, ok := staged[collection]; ok {
			return c
		}
		c := maps.Clone(m.colls[collection])
		if c == nil {
			c = make(map[string][]byte)
		}
		staged[collection] = c
		return c
	}

	for _, op := range b.ops {
		coll := stage(op.Collection)
		switch op.Kind {
		case OpSet:
			coll[op.ID] = slices.Clone(op.Data)
		case OpUpdate:
			existing, ok := coll[op.ID]
			if !ok {
				return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, ErrNotFound)
			}
			merged, err := mergeFields(existing, op.Fields)
			if err != nil {
				return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
			}
			coll[op.ID] = merged
		case OpDelete:
			delete(coll, op.ID)
		}
	}

	maps.Copy(m.colls, staged)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
