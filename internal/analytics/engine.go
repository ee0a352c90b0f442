// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/tomtom215/biozilla/internal/models"
)

// SeriesDays is the length of the trailing activity window.
const SeriesDays = 7

// DefaultTopN bounds the top content and popular category rankings.
const DefaultTopN = 5

// Ranking weights for TopContent.
const (
	viewsWeight  = 1
	likesWeight  = 2
	sharesWeight = 3
)

// defaultCategoryColor is used for categories without an entry in categoryColors.
const defaultCategoryColor = "#6b7280"

// UnknownCategoryName labels counts whose primary tag matches no category.
const UnknownCategoryName = "Unknown"

var categoryColors = map[string]string{
	"bio":         "#ec4899",
	"shayari":     "#a855f7",
	"love-quotes": "#ef4444",
	"fun-facts":   "#22c55e",
	"captions":    "#f59e0b",
}

// CategoryColor returns the dashboard color for a category id.
func CategoryColor(id string) string {
	if c, ok := categoryColors[id]; ok {
		return c
	}
	return defaultCategoryColor
}

// Engine computes time-dependent statistics against an injected clock.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// NewEngine returns an Engine. A nil clock uses time.Now and a nil location
// uses time.Local.
func NewEngine(now func() time.Time, loc *time.Location) *Engine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{now: now, loc: loc}
}

// DayStarts returns SeriesDays+1 boundaries: the local midnight starting each
// bucket, oldest first, followed by the midnight ending today.
func (e *Engine) DayStarts() []time.Time {
	today := e.now().In(e.loc)
	y, m, d := today.Date()

	bounds := make([]time.Time, SeriesDays+1)
	for i := range bounds {
		// time.Date normalizes day overflow and follows DST transitions.
		bounds[i] = time.Date(y, m, d-(SeriesDays-1)+i, 0, 0, 0, 0, e.loc)
	}
	return bounds
}

// Labels returns the short weekday name of each bucket, oldest first.
func (e *Engine) Labels() []string {
	bounds := e.DayStarts()
	labels := make([]string, SeriesDays)
	for i := range labels {
		labels[i] = bounds[i].Format("Mon")
	}
	return labels
}

// WeeklySeries sums metric per local calendar day over the trailing week.
// Index 0 is six days ago and index 6 is today. Zone-less createdAt values
// are wall clock time in the engine's location. Items whose createdAt does
// not parse or falls outside the window are ignored.
func (e *Engine) WeeklySeries(items []models.ContentItem, metric Metric) []int64 {
	bounds := e.DayStarts()
	series := make([]int64, SeriesDays)

	for i := range items {
		at, ok := items[i].CreatedTimeIn(e.loc)
		if !ok || at.Before(bounds[0]) || !at.Before(bounds[SeriesDays]) {
			continue
		}
		// first boundary strictly after at, minus one, is the bucket
		idx, _ := slices.BinarySearchFunc(bounds, at, func(b, t time.Time) int {
			if b.After(t) {
				return 1
			}
			return -1
		})
		series[idx-1] += metric.Value(&items[i])
	}
	return series
}

// Change is a rounded percentage and its direction.
type Change struct {
	Value    int64 `json:"value"`
	Positive bool  `json:"is_positive"`
}

// PercentChange compares the last value of series with the first.
//
// A zero first value reports +100 when the last is positive and +0 when it is
// zero. Otherwise the magnitude is |round((last-first)/first*100)| and the
// direction is last >= first.
func PercentChange(series []int64) Change {
	if len(series) < 2 {
		return Change{Value: 0, Positive: true}
	}
	first, last := series[0], series[len(series)-1]
	if first == 0 {
		if last > 0 {
			return Change{Value: 100, Positive: true}
		}
		return Change{Value: 0, Positive: true}
	}

	change := float64(last-first) / float64(first) * 100
	return Change{
		Value:    absInt(roundHalfUp(change)),
		Positive: change >= 0,
	}
}

// RankedItem pairs an item with its ranking score.
type RankedItem struct {
	Item  models.ContentItem `json:"item"`
	Score int64              `json:"score"`
}

// Score is the TopContent ranking weight.
func Score(item *models.ContentItem) int64 {
	return viewsWeight*item.Views + likesWeight*item.Likes + sharesWeight*item.Shares
}

// TopContent returns the n highest scoring items. Equal scores keep input order.
func TopContent(items []models.ContentItem, n int) []RankedItem {
	if n <= 0 {
		n = DefaultTopN
	}
	ranked := make([]RankedItem, len(items))
	for i := range items {
		ranked[i] = RankedItem{Item: items[i], Score: Score(&items[i])}
	}
	slices.SortStableFunc(ranked, func(a, b RankedItem) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked[:min(n, len(ranked))]
}

// CategoryPopularity is one row of the popular categories panel.
type CategoryPopularity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Count      int64  `json:"count"`
	Percentage int64  `json:"percentage"`
	Color      string `json:"color"`
}

// PopularCategories counts items by primary tag and returns the top n.
// Percentages are relative to the largest count, which is always 100.
// Equal counts keep the order in which the category first appeared.
func PopularCategories(items []models.ContentItem, categories []models.Category, n int) []CategoryPopularity {
	if n <= 0 {
		n = DefaultTopN
	}

	counts := make(map[string]int64)
	var order []string
	for i := range items {
		id := items[i].PrimaryCategory()
		if id == "" {
			continue
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}

	var maxCount int64 = 1
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	names := make(map[string]string, len(categories))
	for i := range categories {
		names[categories[i].ID] = categories[i].Name
	}

	rows := make([]CategoryPopularity, 0, len(order))
	for _, id := range order {
		name := names[id]
		if name == "" {
			name = UnknownCategoryName
		}
		rows = append(rows, CategoryPopularity{
			ID:         id,
			Name:       name,
			Count:      counts[id],
			Percentage: roundHalfUp(float64(counts[id]) / float64(maxCount) * 100),
			Color:      CategoryColor(id),
		})
	}

	slices.SortStableFunc(rows, func(a, b CategoryPopularity) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return rows[:min(n, len(rows))]
}

// Totals are the headline counters of the stats tab.
type Totals struct {
	Views  int64 `json:"total_views"`
	Likes  int64 `json:"total_likes"`
	Shares int64 `json:"total_shares"`
}

// ComputeTotals sums every counter over items.
func ComputeTotals(items []models.ContentItem) Totals {
	var t Totals
	for i := range items {
		t.Views += items[i].Views
		t.Likes += items[i].Likes
		t.Shares += items[i].Shares
	}
	return t
}

// roundHalfUp matches the dashboard's rounding: halves go toward +Inf.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
