// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package models

import "time"

// Catalog change operations.
const (
	ChangeCreate = "create"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
	ChangeReload = "reload"
)

// CatalogChange describes a write the store has acknowledged.
type CatalogChange struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	IDs        []string  `json:"ids,omitempty"`
	At         time.Time `json:"at"`
}
