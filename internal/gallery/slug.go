// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package gallery

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// The whitespace class of JavaScript regular expressions: ASCII space
	// characters, vertical tab, Unicode separators and the BOM.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
)

// Slugify derives a subcategory id from its display name: lower-cased,
// whitespace runs replaced by a single hyphen, and anything outside
// [A-Za-z0-9_-] removed. Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	s := cases.Lower(language.Und).String(name)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}
