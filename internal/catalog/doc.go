// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package catalog keeps the content and category collections in memory and
applies admin mutations to them.

Every write goes to the document store first. The mirror changes only after
the store acknowledged the write, so a failed save, delete or batch leaves the
previous state visible. Bulk delete and bulk feature toggle commit as one
store batch.

Loads and mutations are ordered with generation numbers:

	c := catalog.New(st, catalog.WithNotifier(publisher))
	if err := c.Load(ctx); err != nil {
		return err
	}
	items := c.Content() // copy, safe to sort or filter

A Load that finishes after a newer Load or mutation is discarded and counted
in catalog_stale_loads_total.
*/
package catalog
