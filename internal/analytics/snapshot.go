// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package analytics

import (
	"time"

	"github.com/tomtom215/biozilla/internal/models"
)

// Series is one metric over the trailing week.
type Series struct {
	Metric Metric   `json:"metric"`
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
	Color  string   `json:"color"`
	Change Change   `json:"change"`
}

// Snapshot is everything the stats tab renders.
type Snapshot struct {
	GeneratedAt       time.Time            `json:"generated_at"`
	Totals            Totals               `json:"totals"`
	TopContent        []RankedItem         `json:"top_content"`
	PopularCategories []CategoryPopularity `json:"popular_categories"`
	Activity          []Series             `json:"activity"`
}

// Series builds the weekly series for one metric.
func (e *Engine) Series(items []models.ContentItem, metric Metric) Series {
	data := e.WeeklySeries(items, metric)
	return Series{
		Metric: metric,
		Labels: e.Labels(),
		Data:   data,
		Color:  metric.Color(),
		Change: PercentChange(data),
	}
}

// Build computes the full dashboard snapshot.
func (e *Engine) Build(items []models.ContentItem, categories []models.Category) Snapshot {
	activity := make([]Series, 0, len(Metrics))
	for _, m := range Metrics {
		activity = append(activity, e.Series(items, m))
	}

	return Snapshot{
		GeneratedAt:       e.now(),
		Totals:            ComputeTotals(items),
		TopContent:        TopContent(items, DefaultTopN),
		PopularCategories: PopularCategories(items, categories, DefaultTopN),
		Activity:          activity,
	}
}
