// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biozilla/internal/gallery"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
)

// ContentInput is the admin content form. An empty ID creates a new item.
type ContentInput struct {
	ID          string
	Text        string
	Category    string
	Subcategory string
	Featured    bool
}

// CategoryInput is the admin category form. An empty ID creates a new category.
type CategoryInput struct {
	ID            string
	Name          string
	Subtitle      string
	Icon          models.IconKind
	Premium       bool
	Subcategories []models.Subcategory
}

// fail wraps a store error with the admin-facing message and records it.
func fail(ctx context.Context, op, message string, err error) error {
	metrics.RecordCatalogMutation(op, err, false)
	logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("Catalog mutation failed")
	return &ActionError{Op: op, Message: message, Err: err}
}

func rejected(op string, err error) error {
	metrics.RecordCatalogMutation(op, nil, true)
	return err
}

func (c *Catalog) validateContent(in *ContentInput) error {
	in.Text = strings.TrimSpace(in.Text)
	in.Category = strings.TrimSpace(in.Category)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	if in.Text == "" || in.Category == "" {
		return invalid(MessageContentRequired)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOfCategory(in.Category)
	if i < 0 {
		return invalid(MessageUnknownCategory)
	}
	if in.Subcategory != "" {
		if _, ok := c.categories.items[i].FindSubcategory(in.Subcategory); !ok {
			return invalid(MessageUnknownSubcategory)
		}
	}
	return nil
}

// SaveContent creates or updates a content item. New items start with zero
// counters, the current time as createdAt, and are placed first in the mirror.
// Updates merge text, tags and featured into the stored document.
func (c *Catalog) SaveContent(ctx context.Context, in ContentInput) (models.ContentItem, error) {
	const op = "save_content"
	if err := c.validateContent(&in); err != nil {
		return models.ContentItem{}, rejected(op, err)
	}
	tags := []string{in.Category}
	if in.Subcategory != "" {
		tags = append(tags, in.Subcategory)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if in.ID == "" {
		item := models.ContentItem{
			Tags:      tags,
			Text:      in.Text,
			CreatedAt: models.FormatTimestamp(c.now()),
			Featured:  in.Featured,
		}
		data, err := json.Marshal(item)
		if err != nil {
			return models.ContentItem{}, fail(ctx, op, MessageSaveContentFailed, err)
		}
		id, err := c.store.Add(ctx, models.CollectionContent, data)
		if err != nil {
			return models.ContentItem{}, fail(ctx, op, MessageSaveContentFailed, err)
		}
		item.ID = id

		c.mu.Lock()
		c.content.items = slices.Insert(c.content.items, 0, cloneItem(item))
		c.content.gen = c.generation()
		c.updateGauges()
		c.mu.Unlock()

		metrics.RecordCatalogMutation(op, nil, false)
		c.notify(ctx, models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeCreate, IDs: []string{id}})
		return item, nil
	}

	fields := map[string]any{
		"text":     in.Text,
		"tags":     tags,
		"featured": in.Featured,
	}
	if err := c.store.Update(ctx, models.CollectionContent, in.ID, fields); err != nil {
		return models.ContentItem{}, fail(ctx, op, MessageSaveContentFailed, err)
	}

	c.mu.Lock()
	item := models.ContentItem{ID: in.ID}
	i := c.indexOfItem(in.ID)
	if i >= 0 {
		item = c.content.items[i]
	}
	item.Text = in.Text
	item.Tags = tags
	item.Featured = in.Featured
	if i >= 0 {
		c.content.items[i] = cloneItem(item)
	} else {
		c.content.items = slices.Insert(c.content.items, 0, cloneItem(item))
	}
	c.content.gen = c.generation()
	c.updateGauges()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeUpdate, IDs: []string{in.ID}})
	return cloneItem(item), nil
}

// DeleteContent removes one item.
func (c *Catalog) DeleteContent(ctx context.Context, id string) error {
	const op = "delete_content"
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.store.Delete(ctx, models.CollectionContent, id); err != nil {
		return fail(ctx, op, MessageDeleteContentFailed, err)
	}

	c.mu.Lock()
	c.content.items = slices.DeleteFunc(c.content.items, func(it models.ContentItem) bool { return it.ID == id })
	c.content.gen = c.generation()
	c.updateGauges()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeDelete, IDs: []string{id}})
	return nil
}

// selection dedupes ids while keeping their order.
func selection(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BulkDelete removes every selected item in one atomic batch. The mirror is
// untouched when the batch fails.
func (c *Catalog) BulkDelete(ctx context.Context, ids []string) (int, error) {
	const op = "bulk_delete"
	ids = selection(ids)
	if len(ids) == 0 {
		return 0, rejected(op, invalid(MessageNothingSelected))
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	b := store.NewBatch()
	for _, id := range ids {
		b.Delete(models.CollectionContent, id)
	}
	if err := c.store.Commit(ctx, b); err != nil {
		return 0, fail(ctx, op, MessageBulkDeleteFailed, err)
	}

	c.mu.Lock()
	c.content.items = slices.DeleteFunc(c.content.items, func(it models.ContentItem) bool { return slices.Contains(ids, it.ID) })
	c.content.gen = c.generation()
	c.updateGauges()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeDelete, IDs: ids})
	return len(ids), nil
}

// BulkSetFeatured sets featured on every selected item in one atomic batch.
// A missing item fails the whole batch.
func (c *Catalog) BulkSetFeatured(ctx context.Context, ids []string, featured bool) (int, error) {
	const op = "bulk_feature"
	ids = selection(ids)
	if len(ids) == 0 {
		return 0, rejected(op, invalid(MessageNothingSelected))
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	b := store.NewBatch()
	for _, id := range ids {
		b.Update(models.CollectionContent, id, map[string]any{"featured": featured})
	}
	if err := c.store.Commit(ctx, b); err != nil {
		return 0, fail(ctx, op, MessageBulkUpdateFailed, err)
	}

	c.mu.Lock()
	for i := range c.content.items {
		if slices.Contains(ids, c.content.items[i].ID) {
			c.content.items[i].Featured = featured
		}
	}
	c.content.gen = c.generation()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionContent, Op: models.ChangeUpdate, IDs: ids})
	return len(ids), nil
}

// normalizeSubcategories fills missing ids from names and rejects duplicates.
func normalizeSubcategories(subs []models.Subcategory) ([]models.Subcategory, error) {
	out := make([]models.Subcategory, 0, len(subs))
	for _, sc := range subs {
		sc.Name = strings.TrimSpace(sc.Name)
		if sc.Name == "" {
			continue
		}
		if sc.ID == "" {
			sc.ID = gallery.Slugify(sc.Name)
		}
		if slices.ContainsFunc(out, func(o models.Subcategory) bool { return o.ID == sc.ID }) {
			return nil, invalid(MessageDuplicateSubcategory)
		}
		out = append(out, sc)
	}
	return out, nil
}

// SaveCategory creates or updates a category. Count starts at 0 and is never
// changed by an edit.
func (c *Catalog) SaveCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	const op = "save_category"
	in.Name = strings.TrimSpace(in.Name)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	if in.Name == "" || in.Subtitle == "" || !in.Icon.Valid() {
		return models.Category{}, rejected(op, invalid(MessageCategoryRequired))
	}
	subs, err := normalizeSubcategories(in.Subcategories)
	if err != nil {
		return models.Category{}, rejected(op, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if in.ID == "" {
		cat := models.Category{
			Name:          in.Name,
			Subtitle:      in.Subtitle,
			Icon:          in.Icon,
			Premium:       in.Premium,
			Subcategories: subs,
		}
		data, err := json.Marshal(cat)
		if err != nil {
			return models.Category{}, fail(ctx, op, MessageSaveCategoryFailed, err)
		}
		id, err := c.store.Add(ctx, models.CollectionCategories, data)
		if err != nil {
			return models.Category{}, fail(ctx, op, MessageSaveCategoryFailed, err)
		}
		cat.ID = id

		c.mu.Lock()
		c.categories.items = slices.Insert(c.categories.items, 0, cloneCategory(cat))
		c.categories.gen = c.generation()
		c.updateGauges()
		c.mu.Unlock()

		metrics.RecordCatalogMutation(op, nil, false)
		c.notify(ctx, models.CatalogChange{Collection: models.CollectionCategories, Op: models.ChangeCreate, IDs: []string{id}})
		return cat, nil
	}

	fields := map[string]any{
		"name":          in.Name,
		"subtitle":      in.Subtitle,
		"icon":          in.Icon,
		"premium":       in.Premium,
		"subcategories": subs,
	}
	if err := c.store.Update(ctx, models.CollectionCategories, in.ID, fields); err != nil {
		return models.Category{}, fail(ctx, op, MessageSaveCategoryFailed, err)
	}

	c.mu.Lock()
	cat := models.Category{ID: in.ID}
	i := c.indexOfCategory(in.ID)
	if i >= 0 {
		cat.Count = c.categories.items[i].Count
	}
	cat.Name = in.Name
	cat.Subtitle = in.Subtitle
	cat.Icon = in.Icon
	cat.Premium = in.Premium
	cat.Subcategories = subs
	if i >= 0 {
		c.categories.items[i] = cloneCategory(cat)
	} else {
		c.categories.items = slices.Insert(c.categories.items, 0, cloneCategory(cat))
	}
	c.categories.gen = c.generation()
	c.updateGauges()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionCategories, Op: models.ChangeUpdate, IDs: []string{in.ID}})
	return cloneCategory(cat), nil
}

// DeleteCategory removes a category. Items tagged with it are kept.
func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	const op = "delete_category"
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.store.Delete(ctx, models.CollectionCategories, id); err != nil {
		return fail(ctx, op, MessageDeleteCategoryFailed, err)
	}

	c.mu.Lock()
	c.categories.items = slices.DeleteFunc(c.categories.items, func(cat models.Category) bool { return cat.ID == id })
	c.categories.gen = c.generation()
	c.updateGauges()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionCategories, Op: models.ChangeDelete, IDs: []string{id}})
	return nil
}

// AddSubcategory appends a subcategory whose id is the slug of name.
func (c *Catalog) AddSubcategory(ctx context.Context, categoryID, name string) (models.Category, error) {
	const op = "add_subcategory"
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, rejected(op, invalid(MessageSubcategoryRequired))
	}
	sub := models.Subcategory{ID: gallery.Slugify(name), Name: name}

	return c.editSubcategories(ctx, op, categoryID, func(subs []models.Subcategory) ([]models.Subcategory, error) {
		if slices.ContainsFunc(subs, func(sc models.Subcategory) bool { return sc.ID == sub.ID }) {
			return nil, invalid(MessageDuplicateSubcategory)
		}
		return append(subs, sub), nil
	})
}

// RemoveSubcategory drops a subcategory. Removing an unknown id is a no-op write.
func (c *Catalog) RemoveSubcategory(ctx context.Context, categoryID, subcategoryID string) (models.Category, error) {
	return c.editSubcategories(ctx, "remove_subcategory", categoryID, func(subs []models.Subcategory) ([]models.Subcategory, error) {
		return slices.DeleteFunc(subs, func(sc models.Subcategory) bool { return sc.ID == subcategoryID }), nil
	})
}

func (c *Catalog) editSubcategories(ctx context.Context, op, categoryID string, edit func([]models.Subcategory) ([]models.Subcategory, error)) (models.Category, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cat, ok := c.Category(categoryID)
	if !ok {
		return models.Category{}, fail(ctx, op, MessageSaveCategoryFailed, fmt.Errorf("category %q: %w", categoryID, store.ErrNotFound))
	}
	subs, err := edit(slices.Clone(cat.Subcategories))
	if err != nil {
		return models.Category{}, rejected(op, err)
	}
	if err := c.store.Update(ctx, models.CollectionCategories, categoryID, map[string]any{"subcategories": subs}); err != nil {
		return models.Category{}, fail(ctx, op, MessageSaveCategoryFailed, err)
	}
	cat.Subcategories = subs

	c.mu.Lock()
	if i := c.indexOfCategory(categoryID); i >= 0 {
		c.categories.items[i].Subcategories = slices.Clone(subs)
	}
	c.categories.gen = c.generation()
	c.mu.Unlock()

	metrics.RecordCatalogMutation(op, nil, false)
	c.notify(ctx, models.CatalogChange{Collection: models.CollectionCategories, Op: models.ChangeUpdate, IDs: []string{categoryID}})
	return cat, nil
}
