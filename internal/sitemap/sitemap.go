// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package sitemap renders the search engine sitemap of the public pages.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/route"
)

// Namespace is the sitemaps.org schema.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one <url> entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// URLSet is the document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Entries lists the home page, every non-premium category and every support
// page except the XML sitemap page, all stamped with today's date.
func Entries(baseURL string, categories []models.Category, today time.Time) []URL {
	base := strings.TrimRight(baseURL, "/") + "/"
	lastmod := today.Format(time.DateOnly)

	urls := []URL{{Loc: base, LastMod: lastmod, ChangeFreq: "daily", Priority: "1.0"}}
	for _, c := range categories {
		if c.Premium {
			continue
		}
		urls = append(urls, URL{
			Loc:        base + route.Route{Kind: route.Category, ID: c.ID}.Fragment(),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, p := range route.SupportPages() {
		if p.ID == route.SitemapXMLPage {
			continue
		}
		urls = append(urls, URL{
			Loc:        base + route.Route{Kind: route.Support, ID: p.ID}.Fragment(),
			LastMod:    lastmod,
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}
	return urls
}

// Build renders the sitemap document.
func Build(baseURL string, categories []models.Category, today time.Time) ([]byte, error) {
	set := URLSet{Xmlns: Namespace, URLs: Entries(baseURL, categories, today)}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
