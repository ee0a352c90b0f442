// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package route

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fragment string
		want     Route
	}{
		{fragment: "", want: Route{Kind: Home}},
		{fragment: "#", want: Route{Kind: Home}},
		{fragment: "#/unknown", want: Route{Kind: Home}},
		{fragment: "#/category/bios", want: Route{Kind: Category, ID: "bios"}},
		{fragment: "/category/bios", want: Route{Kind: Category, ID: "bios"}},
		{fragment: "#/category/", want: Route{Kind: Category}},
		{fragment: "#/support/faq", want: Route{Kind: Support, ID: "faq"}},
		{fragment: "#/admin-login", want: Route{Kind: AdminLogin}},
		{fragment: "#/admin-login?next=x", want: Route{Kind: AdminLogin}},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			t.Parallel()
			if got := Parse(tt.fragment); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestFragmentRoundTrip(t *testing.T) {
	t.Parallel()

	for _, fragment := range []string{"#", "#/category/love-quotes", "#/support/contact-us", "#/admin-login"} {
		if got := Parse(fragment).Fragment(); got != fragment {
			t.Errorf("Parse(%q).Fragment() = %q", fragment, got)
		}
	}
}

func TestSupportPages(t *testing.T) {
	t.Parallel()

	pages := SupportPages()
	if len(pages) != 8 || pages[0].ID != "faq" {
		t.Fatalf("SupportPages() = %+v", pages)
	}
	pages[0].ID = "changed"
	if p, ok := LookupSupportPage("faq"); !ok || p.Title != "FAQ" {
		t.Errorf("LookupSupportPage(faq) = %+v, %v", p, ok)
	}
	if _, ok := LookupSupportPage("careers"); ok {
		t.Error("LookupSupportPage(careers) found a page")
	}
}
