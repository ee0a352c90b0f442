// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// smoothing scales the neighbour distance into the control point length.
const smoothing = 0.2

// controlPoint derives a Bézier control point for current from the line
// joining its neighbours. Missing neighbours default to current. reverse
// flips the direction for the control point that ends a segment.
func controlPoint(current Point, previous, next *Point, reverse bool) (float64, float64) {
	p, n := current, current
	if previous != nil {
		p = *previous
	}
	if next != nil {
		n = *next
	}

	dx, dy := n.X-p.X, n.Y-p.Y
	angle := math.Atan2(dy, dx)
	if reverse {
		angle += math.Pi
	}
	length := math.Hypot(dx, dy) * smoothing
	return current.X + math.Cos(angle)*length, current.Y + math.Sin(angle)*length
}

func at(points []Point, i int) *Point {
	if i < 0 || i >= len(points) {
		return nil
	}
	return &points[i]
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SmoothPath returns the SVG path data of a smoothed line through points.
// It is empty for no points and a bare move for a single point.
func SmoothPath(points []Point) string {
	switch len(points) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("M %s %s", num(points[0].X), num(points[0].Y))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s,%s", num(points[0].X), num(points[0].Y))
	for i := 1; i < len(points); i++ {
		sx, sy := controlPoint(points[i-1], at(points, i-2), &points[i], false)
		ex, ey := controlPoint(points[i], at(points, i-1), at(points, i+1), true)
		fmt.Fprintf(&b, " C %.2f,%.2f %.2f,%.2f %.2f,%.2f", sx, sy, ex, ey, points[i].X, points[i].Y)
	}
	return b.String()
}

// AreaPath closes the smoothed line down to the baseline.
func (l Layout) AreaPath(points []Point) string {
	var first, last float64
	if len(points) > 0 {
		first, last = points[0].X, points[len(points)-1].X
	}
	base := num(l.Baseline())
	line := SmoothPath(points)
	if line == "" {
		line = "M 0 0"
	}
	return fmt.Sprintf("%s L %s %s L %s %s Z", line, num(last), base, num(first), base)
}
