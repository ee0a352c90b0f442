// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("document not found")
	ErrInvalidKey     = errors.New("invalid collection or document id")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrClosed         = errors.New("store is closed")
)

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendDuckDB = "duckdb"
	BackendMemory = "memory"
)

// Document is one stored JSON document.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Store is a collection-oriented JSON document store.
//
// Documents are addressed by collection and id. List returns documents in
// ascending id order. Update merges top-level fields into an existing
// document and fails with ErrNotFound when it does not exist. Delete of a
// missing document is not an error.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	// Add stores data under a new server generated id and returns it.
	Add(ctx context.Context, collection string, data []byte) (string, error)
	Set(ctx context.Context, collection, id string, data []byte) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// Commit applies every operation of b atomically: all or none.
	Commit(ctx context.Context, b *Batch) error
	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Path is the badger directory or the duckdb database file. An empty
	// duckdb path opens an in-memory database.
	Path       string
	SyncWrites bool
	InMemory   bool
}

// Open returns the configured backend wrapped with metrics instrumentation.
func Open(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendBadger:
		s, err = OpenBadger(cfg.Path, cfg.SyncWrites, cfg.InMemory)
	case BackendDuckDB:
		s, err = OpenDuckDB(cfg.Path)
	case BackendMemory:
		s = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(cfg.Backend)
	if name == "" {
		name = BackendBadger
	}
	return Instrument(s, name), nil
}

// OpKind is the kind of a batched write.
type OpKind int

// Batched write kinds.
const (
	OpSet OpKind = iota
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is one write of a Batch.
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
	Data       []byte
	Fields     map[string]any
}

// Batch accumulates writes for a single atomic Commit.
type Batch struct {
	ops []Op
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Set queues a full document write.
func (b *Batch) Set(collection, id string, data []byte) *Batch {
	b.ops = append(b.ops, Op{Kind: OpSet, Collection: collection, ID: id, Data: data})
	return b
}

// Update queues a partial merge. The whole batch fails if the document does
// not exist at commit time.
func (b *Batch) Update(collection, id string, fields map[string]any) *Batch {
	b.ops = append(b.ops, Op{Kind: OpUpdate, Collection: collection, ID: id, Fields: fields})
	return b
}

// Delete queues a removal.
func (b *Batch) Delete(collection, id string) *Batch {
	b.ops = append(b.ops, Op{Kind: OpDelete, Collection: collection, ID: id})
	return b
}

// Ops returns the queued writes in order.
func (b *Batch) Ops() []Op {
	return b.ops
}

// Len returns the number of queued writes.
func (b *Batch) Len() int {
	return len(b.ops)
}

func (b *Batch) validate() error {
	for _, op := range b.ops {
		if err := validateKey(op.Collection, op.ID); err != nil {
			return fmt.Errorf("batch %s: %w", op.Kind, err)
		}
	}
	return nil
}

// validateKey rejects empty names and the key separator.
func validateKey(collection, id string) error {
	if collection == "" || id == "" || strings.Contains(collection, keySep) || strings.Contains(id, keySep) {
		return fmt.Errorf("%w: %q/%q", ErrInvalidKey, collection, id)
	}
	return nil
}

func validateCollection(collection string) error {
	if collection == "" || strings.Contains(collection, keySep) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, collection)
	}
	return nil
}

const keySep = "/"

// mergeFields overlays fields onto the top level of a JSON object.
func mergeFields(existing []byte, fields map[string]any) ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", k, err)
		}
		doc[k] = raw
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return merged, nil
}

// Decode unmarshals every document of docs into T, passing each id to setID.
func Decode[T any](docs []Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, fmt.Errorf("decode document %q: %w", d.ID, err)
		}
		if setID != nil {
			setID(&v, d.ID)
		}
		out = append(out, v)
	}
	return out, nil
}
