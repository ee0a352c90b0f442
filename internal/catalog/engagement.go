// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package catalog

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biozilla/internal/metrics"
	"github.com/tomtom215/biozilla/internal/models"
)

// Action is a visitor interaction counted on a content item.
type Action string

// Engagement actions.
const (
	ActionView  Action = "view"
	ActionLike  Action = "like"
	ActionShare Action = "share"
)

// field returns the counter document field for a.
func (a Action) field() (string, bool) {
	switch a {
	case ActionView:
		return "views", true
	case ActionLike:
		return "likes", true
	case ActionShare:
		return "shares", true
	default:
		return "", false
	}
}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := a.field(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// RecordEngagement increments one counter of an item in the store and then in
// the mirror. Engagement does not emit change notifications; statistics pick
// it up when their cache expires.
func (c *Catalog) RecordEngagement(ctx context.Context, id string, action Action) (models.ContentItem, error) {
	field, ok := action.field()
	if !ok {
		return models.ContentItem{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	doc, err := c.store.Get(ctx, models.CollectionContent, id)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("get content %q: %w", id, err)
	}
	var item models.ContentItem
	if err := json.Unmarshal(doc.Data, &item); err != nil {
		return models.ContentItem{}, fmt.Errorf("decode content %q: %w", id, err)
	}
	item.ID = id

	var value int64
	switch action {
	case ActionView:
		item.Views++
		value = item.Views
	case ActionLike:
		item.Likes++
		value = item.Likes
	case ActionShare:
		item.Shares++
		value = item.Shares
	}
	if err := c.store.Update(ctx, models.CollectionContent, id, map[string]any{field: value}); err != nil {
		return models.ContentItem{}, fmt.Errorf("update %s of %q: %w", field, id, err)
	}
	metrics.EngagementTotal.WithLabelValues(string(action)).Inc()

	c.mu.Lock()
	if i := c.indexOfItem(id); i >= 0 {
		c.content.items[i].Views = item.Views
		c.content.items[i].Likes = item.Likes
		c.content.items[i].Shares = item.Shares
	}
	c.content.gen = c.generation()
	c.mu.Unlock()

	return cloneItem(item), nil
}
