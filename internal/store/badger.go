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

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Badger is a Store backed by BadgerDB. Keys are "collection/id" and values
// are the raw JSON documents.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB at path.
func OpenBadger(path string, syncWrites, inMemory bool) (*Badger, error) {
	if path == "" && !inMemory {
		return nil, errors.New("badger store requires a path")
	}
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = syncWrites
	// Badger logs through its own logger; the service logs store errors itself.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Badger{db: db}, nil
}

func badgerKey(collection, id string) []byte {
	return []byte(collection + keySep + id)
}

func (s *Badger) List(_ context.Context, collection string) ([]Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	var docs []Document
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := []byte(collection + keySep)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", item.Key(), err)
			}
			docs = append(docs, Document{
				ID:   strings.TrimPrefix(string(item.Key()), string(prefix)),
				Data: data,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *Badger) Get(_ context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return Document{}, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(collection, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (s *Badger) Add(ctx context.Context, collection string, data []byte) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Badger) Set(ctx context.Context, collection, id string, data []byte) error {
	return s.Commit(ctx, NewBatch().Set(collection, id, data))
}

func (s *Badger) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.Commit(ctx, NewBatch().Update(collection, id, fields))
}

func (s *Badger) Delete(ctx context.Context, collection, id string) error {
	return s.Commit(ctx, NewBatch().Delete(collection, id))
}

// Commit applies the batch in one read-write transaction. Badger discards
// the transaction when the closure returns an error.
func (s *Badger) Commit(_ context.Context, b *Batch) error {
	if err := b.validate(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, op := range b.ops {
			key := badgerKey(op.Collection, op.ID)
			switch op.Kind {
			case OpSet:
				if err := txn.Set(key, op.Data); err != nil {
					return fmt.Errorf("set %s: %w", key, err)
				}
			case OpUpdate:
				item, err := txn.Get(key)
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("update %s: %w", key, ErrNotFound)
				}
				if err != nil {
					return fmt.Errorf("update %s: %w", key, err)
				}
				existing, err := item.ValueCopy(nil)
				if err != nil {
					return fmt.Errorf("update %s: %w", key, err)
				}
				merged, err := mergeFields(existing, op.Fields)
				if err != nil {
					return fmt.Errorf("update %s: %w", key, err)
				}
				if err := txn.Set(key, merged); err != nil {
					return fmt.Errorf("update %s: %w", key, err)
				}
			case OpDelete:
				if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("delete %s: %w", key, err)
				}
			}
		}
		return nil
	})
}

func (s *Badger) Ping(context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

func (s *Badger) Close() error {
	return s.db.Close()
}
