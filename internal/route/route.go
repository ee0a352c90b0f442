// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package route maps URL fragments such as "#/category/bios" to pages and back.
package route

import (
	"strings"
)

// Kind is the page a fragment selects.
type Kind int

const (
	Home Kind = iota
	Category
	Support
	AdminLogin
)

func (k Kind) String() string {
	switch k {
	case Category:
		return "category"
	case Support:
		return "support"
	case AdminLogin:
		return "admin-login"
	default:
		return "home"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

const (
	categoryPrefix   = "#/category/"
	supportPrefix    = "#/support/"
	adminLoginPrefix = "#/admin-login"
)

// Route is a parsed fragment. ID is the category or support page id.
type Route struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// Parse resolves a fragment. The leading "#" is optional; anything that is not
// a category, support or admin login fragment is the home page.
func Parse(fragment string) Route {
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	switch {
	case strings.HasPrefix(fragment, categoryPrefix):
		return Route{Kind: Category, ID: strings.TrimPrefix(fragment, categoryPrefix)}
	case strings.HasPrefix(fragment, supportPrefix):
		return Route{Kind: Support, ID: strings.TrimPrefix(fragment, supportPrefix)}
	case strings.HasPrefix(fragment, adminLoginPrefix):
		return Route{Kind: AdminLogin}
	default:
		return Route{Kind: Home}
	}
}

// Fragment renders r back to its fragment.
func (r Route) Fragment() string {
	switch r.Kind {
	case Category:
		return categoryPrefix + r.ID
	case Support:
		return supportPrefix + r.ID
	case AdminLogin:
		return adminLoginPrefix
	default:
		return "#"
	}
}

// SupportPage is a static informational page.
type SupportPage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SitemapXMLPage is the support page showing the XML sitemap itself.
const SitemapXMLPage = "sitemap-xml"

var supportPages = []SupportPage{
	{ID: "faq", Title: "FAQ"},
	{ID: "contact-us", Title: "Contact Us"},
	{ID: "sitemap", Title: "Sitemap"},
	{ID: "terms-of-service", Title: "Terms of Service"},
	{ID: "privacy-policy", Title: "Privacy Policy"},
	{ID: "disclaimer", Title: "Disclaimer"},
	{ID: "about-us", Title: "About Us"},
	{ID: SitemapXMLPage, Title: "XML Sitemap for Search Engines"},
}

// SupportPages returns every support page in menu order.
func SupportPages() []SupportPage {
	out := make([]SupportPage, len(supportPages))
	copy(out, supportPages)
	return out
}

// LookupSupportPage finds a support page by id.
func LookupSupportPage(id string) (SupportPage, bool) {
	for _, p := range supportPages {
		if p.ID == id {
			return p, true
		}
	}
	return SupportPage{}, false
}
