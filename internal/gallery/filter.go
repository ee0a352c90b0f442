// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package gallery

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/biozilla/internal/models"
)

// FilterMode selects how featured items are ordered.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterTrending FilterMode = "trending"
	FilterRecent   FilterMode = "recent"
	FilterPopular  FilterMode = "popular"
)

// Trending score weights.
const (
	trendingLikesWeight = 0.7
	trendingViewsWeight = 0.3
)

// ParseFilterMode parses a mode name case-insensitively. Empty input means FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch mode := FilterMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return FilterAll, nil
	case FilterAll, FilterTrending, FilterRecent, FilterPopular:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, trending, recent or popular)", s)
	}
}

// TrendingScore weights likes over views.
func TrendingScore(item *models.ContentItem) float64 {
	return trendingLikesWeight*float64(item.Likes) + trendingViewsWeight*float64(item.Views)
}

// Featured returns the featured items in input order.
func Featured(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for i := range items {
		if items[i].Featured {
			out = append(out, items[i])
		}
	}
	return out
}

// Filter restricts items to featured ones and orders them by mode.
//
// Trending, Recent and Popular are stable descending sorts. All is a uniform
// Fisher–Yates permutation drawn from rng; a nil rng uses the global source, so
// every call reshuffles.
func Filter(items []models.ContentItem, mode FilterMode, rng *rand.Rand) []models.ContentItem {
	out := Featured(items)

	switch mode {
	case FilterTrending:
		slices.SortStableFunc(out, func(a, b models.ContentItem) int {
			return cmp.Compare(TrendingScore(&b), TrendingScore(&a))
		})
	case FilterRecent:
		sortRecent(out)
	case FilterPopular:
		slices.SortStableFunc(out, func(a, b models.ContentItem) int {
			return cmp.Compare(b.Views, a.Views)
		})
	default:
		shuffle(out, rng)
	}

	return out
}

// sortRecent orders newest first. Items whose timestamp does not parse are
// treated as older than any parsed one.
func sortRecent(items []models.ContentItem) {
	type keyed struct {
		at time.Time
		ok bool
	}
	idx := make([]int, len(items))
	parsed := make([]keyed, len(items))
	for i := range items {
		idx[i] = i
		at, ok := items[i].CreatedTime()
		parsed[i] = keyed{at: at, ok: ok}
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		ka, kb := parsed[a], parsed[b]
		switch {
		case ka.ok && !kb.ok:
			return -1
		case !ka.ok && kb.ok:
			return 1
		case !ka.ok && !kb.ok:
			return 0
		default:
			return kb.at.Compare(ka.at)
		}
	})

	sorted := make([]models.ContentItem, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}

func shuffle(items []models.ContentItem, rng *rand.Rand) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	if rng == nil {
		rand.Shuffle(len(items), swap)
		return
	}
	rng.Shuffle(len(items), swap)
}
