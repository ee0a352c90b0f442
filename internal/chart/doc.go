// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package chart lays out and renders the admin activity line chart.

The geometry is fixed: a 320 unit tall canvas with 60 units of headroom for
the tooltip, 30 units below the plot for the weekday labels and 40 units of
horizontal padding. Width defaults to 600 and is supplied by the caller when
the client reports its viewport.

Usage:

	layout := chart.DefaultLayout()
	c := layout.Build(series, -1)
	svg := layout.RenderSVG(series, 3)

The y axis always spans a multiple of four so the five gridlines land on
integers. Line and area paths are cubic Béziers whose control points are
derived from each point's neighbours, which keeps the curve smooth without
overshooting flat stretches.
*/
package chart
