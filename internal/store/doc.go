// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package store provides the collection-oriented JSON document store behind the
catalog, inbox and design settings.

Backends:

  - badger (default): BadgerDB, key "collection/id", one read-write
    transaction per batch
  - duckdb: a single documents(collection, id, data) table, one SQL
    transaction per batch
  - memory: maps guarded by a mutex, for tests and development

Open selects a backend from Config and wraps it with Instrumented, which
records store_operation_duration_seconds and store_operation_errors_total.

Batches:

Commit applies a Batch atomically. An Update of a missing document fails the
whole batch with ErrNotFound and nothing is written. Callers that mirror
store state in memory apply their changes only after Commit returns nil.

Example:

	s, err := store.Open(store.Config{Backend: "badger", Path: "/data/biozilla"})
	if err != nil {
	    return err
	}
	defer s.Close()

	b := store.NewBatch().
	    Update("content", "a", map[string]any{"featured": true}).
	    Delete("content", "b")
	if err := s.Commit(ctx, b); err != nil {
	    return err
	}
*/
package store
