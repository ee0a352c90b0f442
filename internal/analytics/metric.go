// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package analytics

import (
	"fmt"
	"strings"

	"github.com/tomtom215/biozilla/internal/models"
)

// Metric selects which engagement counter a series sums.
type Metric string

const (
	MetricViews  Metric = "views"
	MetricLikes  Metric = "likes"
	MetricShares Metric = "shares"
)

// Metrics lists the metrics in dashboard order.
var Metrics = []Metric{MetricViews, MetricLikes, MetricShares}

// seriesColors are the chart line colors per metric.
var seriesColors = map[Metric]string{
	MetricViews:  "#3b82f6",
	MetricLikes:  "#ec4899",
	MetricShares: "#22c55e",
}

// ParseMetric parses a metric name case-insensitively. Empty means views.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MetricViews, nil
	case MetricViews, MetricLikes, MetricShares:
		return m, nil
	default:
		return "", fmt.Errorf("unknown metric %q (want views, likes or shares)", s)
	}
}

// Value extracts the metric from an item.
func (m Metric) Value(item *models.ContentItem) int64 {
	switch m {
	case MetricLikes:
		return item.Likes
	case MetricShares:
		return item.Shares
	default:
		return item.Views
	}
}

// Color returns the chart color for the metric.
func (m Metric) Color() string {
	if c, ok := seriesColors[m]; ok {
		return c
	}
	return seriesColors[MetricViews]
}

// Label is the y-axis unit shown in the chart tooltip.
func (m Metric) Label() string {
	return string(m)
}
