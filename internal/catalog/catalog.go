// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
)

// Notifier receives every change after the store acknowledged it.
type Notifier interface {
	CatalogChanged(ctx context.Context, change models.CatalogChange)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, change models.CatalogChange)

// CatalogChanged calls f.
func (f NotifierFunc) CatalogChanged(ctx context.Context, change models.CatalogChange) {
	f(ctx, change)
}

// mirror is one collection held in memory together with the generation of
// the last state written to it.
type mirror[T any] struct {
	items []T
	gen   uint64
}

// Catalog is the in-memory mirror of the content and categories collections.
//
// Reads are served from the mirror and return copies. Writes go to the store
// first and reach the mirror only once the store acknowledged them. Every load
// and every mutation takes a new generation number; a load whose generation
// is older than the mirror's when it completes is discarded.
type Catalog struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time

	// writeMu serializes mutations so store order and mirror order agree.
	writeMu sync.Mutex

	mu         sync.RWMutex
	nextGen    uint64
	content    mirror[models.ContentItem]
	categories mirror[models.Category]
	loaded     bool
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithNotifier sets the change notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Catalog) {
		c.notifier = n
	}
}

// WithClock overrides time.Now for new items' createdAt.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New returns an empty catalog backed by s. Call Load to fill it.
func New(s store.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store: s,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generation must be called with mu held.
func (c *Catalog) generation() uint64 {
	c.nextGen++
	return c.nextGen
}

// Load fetches both collections in parallel and replaces the mirror. A load
// overtaken by a newer load or mutation leaves the mirror alone.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	gen := c.generation()
	c.mu.Unlock()

	var (
		items      []models.ContentItem
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := c.store.List(gctx, models.CollectionContent)
		if err != nil {
			return fmt.Errorf("list content: %w", err)
		}
		items, err = store.Decode(docs, func(item *models.ContentItem, id string) { item.ID = id })
		return err
	})
	g.Go(func() error {
		docs, err := c.store.List(gctx, models.CollectionCategories)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		categories, err = store.Decode(docs, func(cat *models.Category, id string) { cat.ID = id })
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	c.mu.Lock()
	applied := 0
	if gen > c.content.gen {
		c.content = mirror[models.ContentItem]{items: items, gen: gen}
		applied++
	}
	if gen > c.categories.gen {
		c.categories = mirror[models.Category]{items: categories, gen: gen}
		applied++
	}
	if applied > 0 {
		c.loaded = true
	}
	c.updateGauges()
	c.mu.Unlock()

	if applied < 2 {
		metrics.CatalogStaleLoads.Inc()
		logging.Ctx(ctx).Debug().Uint64("generation", gen).Msg("Discarded stale catalog load")
		return nil
	}
	logging.Ctx(ctx).Info().
		Int("content", len(items)).
		Int("categories", len(categories)).
		Msg("Catalog loaded")
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeReload})
	return nil
}

// Loaded reports whether any load has been applied.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Content returns a copy of every item in mirror order.
func (c *Catalog) Content() []models.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ContentItem, len(c.content.items))
	for i := range c.content.items {
		out[i] = cloneItem(c.content.items[i])
	}
	return out
}

// Categories returns a copy of every category in mirror order.
func (c *Catalog) Categories() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Category, len(c.categories.items))
	for i := range c.categories.items {
		out[i] = cloneCategory(c.categories.items[i])
	}
	return out
}

// Item returns a copy of the item with the given id.
func (c *Catalog) Item(id string) (models.ContentItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOfItem(id); i >= 0 {
		return cloneItem(c.content.items[i]), true
	}
	return models.ContentItem{}, false
}

// Category returns a copy of the category with the given id.
func (c *Catalog) Category(id string) (models.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOfCategory(id); i >= 0 {
		return cloneCategory(c.categories.items[i]), true
	}
	return models.Category{}, false
}

func (c *Catalog) indexOfItem(id string) int {
	return slices.IndexFunc(c.content.items, func(it models.ContentItem) bool { return it.ID == id })
}

func (c *Catalog) indexOfCategory(id string) int {
	return slices.IndexFunc(c.categories.items, func(cat models.Category) bool { return cat.ID == id })
}

// updateGauges must be called with mu held.
func (c *Catalog) updateGauges() {
	metrics.CatalogItems.WithLabelValues(models.CollectionContent).Set(float64(len(c.content.items)))
	metrics.CatalogItems.WithLabelValues(models.CollectionCategories).Set(float64(len(c.categories.items)))
}

func (c *Catalog) notify(ctx context.Context, change models.CatalogChange) {
	if c.notifier == nil {
		return
	}
	if change.At.IsZero() {
		change.At = c.now().UTC()
	}
	c.notifier.CatalogChanged(ctx, change)
}

func cloneItem(it models.ContentItem) models.ContentItem {
	it.Tags = slices.Clone(it.Tags)
	return it
}

func cloneCategory(cat models.Category) models.Category {
	cat.Subcategories = slices.Clone(cat.Subcategories)
	return cat
}
