// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package gallery

import (
	"github.com/tomtom215/biozilla/internal/models"
)

// DefaultPageSize is the admin table page size.
const DefaultPageSize = 8

// maxVisiblePages is the pager width below which every page number is listed.
const maxVisiblePages = 7

// Ellipsis marks a gap in the PageNumbers sequence.
const Ellipsis = 0

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (n + size - 1) / size
}

// ClampPage moves page into [1, max(total,1)].
func ClampPage(page, total int) int {
	if total < 1 {
		return 1
	}
	if page > total {
		return total
	}
	if page < 1 {
		return 1
	}
	return page
}

// Paginate slices items into the requested page after clamping it.
// The returned Page.Items covers [(p-1)*size, p*size).
func Paginate(items []models.ContentItem, page, size int) models.Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	end := min(start+size, len(items))

	slice := make([]models.ContentItem, end-start)
	copy(slice, items[start:end])

	return models.Page{
		Items:       slice,
		Page:        page,
		PageSize:    size,
		TotalItems:  len(items),
		TotalPages:  total,
		PageNumbers: PageNumbers(page, total),
	}
}

// PageNumbers returns the pager buttons for the admin table.
//
// Up to seven pages are all listed. Beyond that the sequence is the first page,
// the current page with its neighbours and the last page, with Ellipsis
// standing in for each gap.
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	if total <= maxVisiblePages {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	pages := []int{1}
	if current > 3 {
		pages = append(pages, Ellipsis)
	}
	if current > 2 {
		pages = append(pages, current-1)
	}
	if current != 1 && current != total {
		pages = append(pages, current)
	}
	if current < total-1 {
		pages = append(pages, current+1)
	}
	if current < total-2 {
		pages = append(pages, Ellipsis)
	}
	pages = append(pages, total)

	return dedupePages(pages)
}

// dedupePages drops repeated page numbers, keeping every ellipsis.
func dedupePages(pages []int) []int {
	seen := make(map[int]bool, len(pages))
	out := pages[:0]
	for _, p := range pages {
		if p != Ellipsis {
			if seen[p] {
				continue
			}
			seen[p] = true
		}
		out = append(out, p)
	}
	return out
}
