// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package chart

import (
	"math"
	"slices"
)

// Canvas geometry.
const (
	Height        = 320.0
	TopPadding    = 60.0
	BottomPadding = 30.0
	XPadding      = 40.0
	DefaultWidth  = 600.0

	// TickCount is the number of horizontal gridlines including zero.
	TickCount = 5
)

// Layout is the chart geometry for one render width.
type Layout struct {
	Width float64
}

// DefaultLayout returns a Layout at DefaultWidth.
func DefaultLayout() Layout {
	return Layout{Width: DefaultWidth}
}

// WithWidth returns a Layout of the given width. Widths that leave no room
// for the plot fall back to DefaultWidth.
func WithWidth(width float64) Layout {
	if width <= 2*XPadding || math.IsNaN(width) || math.IsInf(width, 0) {
		return DefaultLayout()
	}
	return Layout{Width: width}
}

// DrawHeight is the vertical extent of the plot area.
func (l Layout) DrawHeight() float64 {
	return Height - TopPadding - BottomPadding
}

// Baseline is the y coordinate of the zero line.
func (l Layout) Baseline() float64 {
	return Height - BottomPadding
}

// Point is one data point in canvas coordinates.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value int64   `json:"value"`
}

// Scale returns the y axis maximum and the TickCount tick values.
// The maximum is the largest value (at least 1) rounded up to a multiple of 4.
func Scale(data []int64) (yMax int64, ticks []int64) {
	top := int64(1)
	if len(data) > 0 {
		top = max(top, slices.Max(data))
	}
	yMax = (top + TickCount - 2) / (TickCount - 1) * (TickCount - 1)
	step := yMax / (TickCount - 1)

	ticks = make([]int64, TickCount)
	for i := range ticks {
		ticks[i] = int64(i) * step
	}
	return yMax, ticks
}

// Y maps a value onto the canvas for the given axis maximum.
func (l Layout) Y(v, yMax int64) float64 {
	if yMax <= 0 {
		yMax = 1
	}
	h := l.DrawHeight()
	return TopPadding + h - float64(v)/float64(yMax)*h
}

// Points places data on the canvas. A single value is centered horizontally.
func (l Layout) Points(data []int64) []Point {
	yMax, _ := Scale(data)
	points := make([]Point, len(data))
	for i, d := range data {
		x := l.Width / 2
		if len(data) > 1 {
			x = XPadding + float64(i)*(l.Width-2*XPadding)/float64(len(data)-1)
		}
		points[i] = Point{X: x, Y: l.Y(d, yMax), Value: d}
	}
	return points
}

// NearestIndex returns the column closest to canvas x for n evenly spaced
// points, clamped into [0, n-1]. It returns -1 when n is zero.
func (l Layout) NearestIndex(x float64, n int) int {
	switch {
	case n <= 0:
		return -1
	case n == 1:
		return 0
	}
	step := (l.Width - 2*XPadding) / float64(n-1)
	idx := int(math.Floor((x-XPadding)/step + 0.5))
	return min(max(idx, 0), n-1)
}
