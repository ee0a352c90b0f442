// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
)

const duckdbSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection VARCHAR NOT NULL,
	id         VARCHAR NOT NULL,
	data       VARCHAR NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
	PRIMARY KEY (collection, id)
)`

const (
	duckdbUpsert = `INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = current_timestamp`
	duckdbSelect = `SELECT data FROM documents WHERE collection = ? AND id = ?`
	duckdbList   = `SELECT id, data FROM documents WHERE collection = ? ORDER BY id`
	duckdbDelete = `DELETE FROM documents WHERE collection = ? AND id = ?`
)

// DuckDB is a Store backed by a single DuckDB documents table.
type DuckDB struct {
	conn *sql.DB
}

// OpenDuckDB opens the database file at path, or an in-memory database when
// path is empty, and creates the documents table.
func OpenDuckDB(path string) (*DuckDB, error) {
	if path == "" {
		path = ":memory:"
	}
	// Extension autoloading can hang without network access; the store needs none.
	connStr := path + "?autoinstall_known_extensions=false&autoload_known_extensions=false"

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	conn.SetMaxIdleConns(2)

	if _, err := conn.Exec(duckdbSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &DuckDB{conn: conn}, nil
}

func (s *DuckDB) List(ctx context.Context, collection string) ([]Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, duckdbList, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id   string
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: id, Data: []byte(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *DuckDB) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return Document{}, err
	}

	var data string
	err := s.conn.QueryRowContext(ctx, duckdbSelect, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: []byte(data)}, nil
}

func (s *DuckDB) Add(ctx context.Context, collection string, data []byte) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *DuckDB) Set(ctx context.Context, collection, id string, data []byte) error {
	return s.Commit(ctx, NewBatch().Set(collection, id, data))
}

func (s *DuckDB) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.Commit(ctx, NewBatch().Update(collection, id, fields))
}

func (s *DuckDB) Delete(ctx context.Context, collection, id string) error {
	return s.Commit(ctx, NewBatch().Delete(collection, id))
}

// Commit applies the batch in one SQL transaction, rolled back on the first
// failing write.
func (s *DuckDB) Commit(ctx context.Context, b *Batch) (err error) {
	if err := b.validate(); err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, op := range b.ops {
		if err = s.apply(ctx, tx, op); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *DuckDB) apply(ctx context.Context, tx *sql.Tx, op Op) error {
	switch op.Kind {
	case OpSet:
		if _, err := tx.ExecContext(ctx, duckdbUpsert, op.Collection, op.ID, string(op.Data)); err != nil {
			return fmt.Errorf("set %s/%s: %w", op.Collection, op.ID, err)
		}
	case OpUpdate:
		var existing string
		err := tx.QueryRowContext(ctx, duckdbSelect, op.Collection, op.ID).Scan(&existing)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
		}
		merged, err := mergeFields([]byte(existing), op.Fields)
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
		}
		if _, err := tx.ExecContext(ctx, duckdbUpsert, op.Collection, op.ID, string(merged)); err != nil {
			return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
		}
	case OpDelete:
		if _, err := tx.ExecContext(ctx, duckdbDelete, op.Collection, op.ID); err != nil {
			return fmt.Errorf("delete %s/%s: %w", op.Collection, op.ID, err)
		}
	}
	return nil
}

func (s *DuckDB) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *DuckDB) Close() error {
	return s.conn.Close()
}
