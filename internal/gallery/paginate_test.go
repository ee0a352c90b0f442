// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package gallery

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/biozilla/internal/models"
)

func numbered(n int) []models.ContentItem {
	items := make([]models.ContentItem, n)
	for i := range items {
		items[i] = models.ContentItem{ID: fmt.Sprintf("%02d", i)}
	}
	return items
}

func TestPaginate_NineItems(t *testing.T) {
	t.Parallel()

	items := numbered(9)

	first := Paginate(items, 1, DefaultPageSize)
	if first.TotalPages != 2 || len(first.Items) != 8 {
		t.Fatalf("page 1: TotalPages = %d, len = %d, want 2, 8", first.TotalPages, len(first.Items))
	}

	second := Paginate(items, 2, DefaultPageSize)
	if diff := cmp.Diff([]string{"08"}, ids(second.Items)); diff != "" {
		t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginate_SliceBounds(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 30; n++ {
		items := numbered(n)
		total := TotalPages(n, DefaultPageSize)
		if want := (n + 7) / 8; total != want {
			t.Fatalf("TotalPages(%d) = %d, want %d", n, total, want)
		}
		for p := 1; p <= total; p++ {
			page := Paginate(items, p, DefaultPageSize)
			start := (p - 1) * 8
			end := min(p*8, n)
			if diff := cmp.Diff(ids(items[start:end]), ids(page.Items)); diff != "" {
				t.Errorf("n=%d page=%d mismatch (-want +got):\n%s", n, p, diff)
			}
		}
	}
}

func TestPaginate_Clamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		page     int
		wantPage int
		wantLen  int
	}{
		{name: "beyond last clamps to last", n: 17, page: 9, wantPage: 3, wantLen: 1},
		{name: "zero clamps to first", n: 17, page: 0, wantPage: 1, wantLen: 8},
		{name: "negative clamps to first", n: 17, page: -4, wantPage: 1, wantLen: 8},
		{name: "empty result is page one", n: 0, page: 5, wantPage: 1, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Paginate(numbered(tt.n), tt.page, 0)
			if got.Page != tt.wantPage || len(got.Items) != tt.wantLen {
				t.Errorf("Paginate() page = %d len = %d, want %d, %d", got.Page, len(got.Items), tt.wantPage, tt.wantLen)
			}
			if got.PageSize != DefaultPageSize {
				t.Errorf("PageSize = %d, want %d", got.PageSize, DefaultPageSize)
			}
		})
	}
}

func TestPageNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current int
		total   int
		want    []int
	}{
		{current: 1, total: 0, want: []int{}},
		{current: 1, total: 1, want: []int{1}},
		{current: 4, total: 7, want: []int{1, 2, 3, 4, 5, 6, 7}},
		{current: 1, total: 10, want: []int{1, 2, Ellipsis, 10}},
		{current: 3, total: 10, want: []int{1, 2, 3, 4, Ellipsis, 10}},
		{current: 5, total: 10, want: []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{current: 9, total: 10, want: []int{1, Ellipsis, 8, 9, 10}},
		{current: 10, total: 10, want: []int{1, Ellipsis, 9, 10}},
	}

	for _, tt := range tests {
		got := PageNumbers(tt.current, tt.total)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("PageNumbers(%d, %d) mismatch (-want +got):\n%s", tt.current, tt.total, diff)
		}
	}
}
