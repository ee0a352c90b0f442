// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/tomtom215/biozilla/internal/analytics"
)

// Tooltip box geometry.
const (
	TooltipWidth   = 100.0
	TooltipPadding = 10.0
	tooltipHeight  = 40.0
	tooltipLift    = 55.0
)

// Tick is one horizontal gridline.
type Tick struct {
	Value int64   `json:"value"`
	Y     float64 `json:"y"`
}

// Tooltip describes the hover box for one point.
type Tooltip struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Value int64   `json:"value"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	// OffsetX shifts the box so it stays inside the canvas.
	OffsetX float64 `json:"offset_x"`
}

// Tooltip returns the hover box for points[index], or false when index is
// out of range.
func (l Layout) Tooltip(points []Point, labels []string, unit string, index int) (Tooltip, bool) {
	if index < 0 || index >= len(points) {
		return Tooltip{}, false
	}
	p := points[index]

	half := TooltipWidth / 2
	var offset float64
	switch {
	case p.X < half+TooltipPadding:
		offset = half + TooltipPadding - p.X
	case p.X > l.Width-half-TooltipPadding:
		offset = l.Width - half - TooltipPadding - p.X
	}

	var label string
	if index < len(labels) {
		label = labels[index]
	}
	return Tooltip{
		Index:   index,
		Label:   label,
		Value:   p.Value,
		Text:    fmt.Sprintf("%d %s", p.Value, unit),
		X:       p.X,
		Y:       p.Y,
		OffsetX: offset,
	}, true
}

// Chart is the computed geometry of one series, ready to draw.
type Chart struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Metric  string   `json:"metric"`
	Color   string   `json:"color"`
	YMax    int64    `json:"y_max"`
	Ticks   []Tick   `json:"ticks"`
	Labels  []string `json:"labels"`
	Points  []Point  `json:"points"`
	Line    string   `json:"line_path"`
	Area    string   `json:"area_path"`
	Tooltip *Tooltip `json:"tooltip,omitempty"`
}

// Build computes the chart for series. hover selects the highlighted point;
// a negative value means none.
func (l Layout) Build(series analytics.Series, hover int) Chart {
	yMax, values := Scale(series.Data)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Y: l.Y(v, yMax)}
	}

	points := l.Points(series.Data)
	c := Chart{
		Width:  l.Width,
		Height: Height,
		Metric: string(series.Metric),
		Color:  series.Color,
		YMax:   yMax,
		Ticks:  ticks,
		Labels: series.Labels,
		Points: points,
		Line:   SmoothPath(points),
		Area:   l.AreaPath(points),
	}
	if tip, ok := l.Tooltip(points, series.Labels, series.Metric.Label(), hover); ok {
		c.Tooltip = &tip
	}
	return c
}

func escape(s string) string {
	var b bytes.Buffer
	// EscapeText only fails on writer errors, which bytes.Buffer never returns.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// RenderSVG draws series as a standalone SVG document.
func (l Layout) RenderSVG(series analytics.Series, hover int) []byte {
	c := l.Build(series, hover)
	color := escape(c.Color)

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" font-family="sans-serif">`, num(c.Width), num(c.Height))
	fmt.Fprintf(&b, `<defs><linearGradient id="chartGradient" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="5%%" stop-color="%s" stop-opacity="0.4"/><stop offset="95%%" stop-color="%s" stop-opacity="0.05"/>`+
		`</linearGradient></defs>`, color, color)

	for _, t := range c.Ticks {
		fmt.Fprintf(&b, `<line x1="%s" y1="%.2f" x2="%s" y2="%.2f" stroke="#e5e7eb" stroke-dasharray="4" stroke-width="1"/>`,
			num(XPadding), t.Y, num(c.Width-XPadding), t.Y)
		fmt.Fprintf(&b, `<text x="%s" y="%.2f" text-anchor="end" font-size="12" fill="#9ca3af">%d</text>`,
			num(XPadding-8), t.Y+4, t.Value)
	}

	fmt.Fprintf(&b, `<path d="%s" fill="url(#chartGradient)"/>`, c.Area)
	fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="3" stroke-linecap="round" stroke-linejoin="round"/>`, c.Line, color)

	for i, p := range c.Points {
		if i >= len(c.Labels) {
			break
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%s" text-anchor="middle" font-size="12" fill="#6b7280">%s</text>`,
			p.X, num(Height-BottomPadding/2), escape(c.Labels[i]))
	}

	if tip := c.Tooltip; tip != nil {
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%s" stroke="%s" stroke-width="1.5" stroke-dasharray="3"/>`,
			tip.X, tip.Y, tip.X, num(l.Baseline()), color)
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="6" fill="#ffffff" stroke="%s" stroke-width="2.5"/>`, tip.X, tip.Y, color)
		fmt.Fprintf(&b, `<g transform="translate(%.2f,%.2f)">`, tip.X+tip.OffsetX, tip.Y-tooltipLift)
		fmt.Fprintf(&b, `<rect x="%s" y="0" width="%s" height="%s" rx="8" fill="#111827"/>`,
			num(-TooltipWidth/2), num(TooltipWidth), num(tooltipHeight))
		fmt.Fprintf(&b, `<text x="0" y="16" text-anchor="middle" font-size="14" font-weight="bold" fill="#ffffff">%s</text>`, escape(tip.Text))
		fmt.Fprintf(&b, `<text x="0" y="30" text-anchor="middle" font-size="11" fill="#9ca3af">%s</text>`, escape(tip.Label))
		b.WriteString(`</g>`)
	}

	b.WriteString(`</svg>`)
	return b.Bytes()
}
