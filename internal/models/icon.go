// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// IconKind is the closed set of category icons the frontend knows how to draw.
// The zero value is IconNone and is never valid on a stored category.
type IconKind int

const (
	IconNone IconKind = iota
	IconInstagram
	IconShayari
	IconLoveQuote
	IconFunFacts
	IconSocialCaptions
	IconPremium
)

type iconInfo struct {
	name  string
	label string
}

// iconTable maps each kind to its wire name and a human label.
var iconTable = map[IconKind]iconInfo{
	IconInstagram:      {name: "InstagramIcon", label: "Instagram"},
	IconShayari:        {name: "ShayariIcon", label: "Shayari"},
	IconLoveQuote:      {name: "LoveQuoteIcon", label: "Love Quote"},
	IconFunFacts:       {name: "FunFactsIcon", label: "Fun Facts"},
	IconSocialCaptions: {name: "SocialCaptionsIcon", label: "Social Captions"},
	IconPremium:        {name: "PremiumIcon", label: "Premium"},
}

// AllIcons returns every valid icon kind in declaration order.
func AllIcons() []IconKind {
	return []IconKind{IconInstagram, IconShayari, IconLoveQuote, IconFunFacts, IconSocialCaptions, IconPremium}
}

// ParseIconKind resolves a wire name such as "ShayariIcon".
func ParseIconKind(name string) (IconKind, error) {
	for kind, info := range iconTable {
		if info.name == name {
			return kind, nil
		}
	}
	return IconNone, fmt.Errorf("unknown icon %q", name)
}

// Valid reports whether k is one of the known icons.
func (k IconKind) Valid() bool {
	_, ok := iconTable[k]
	return ok
}

// String returns the wire name, or "" for IconNone and unknown values.
func (k IconKind) String() string {
	return iconTable[k].name
}

// Label returns the display label for the icon.
func (k IconKind) Label() string {
	return iconTable[k].label
}

// MarshalJSON encodes the icon as its wire name.
func (k IconKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts a wire name. An empty string decodes to IconNone so that
// validation, not decoding, reports missing icons.
func (k *IconKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("icon must be a string: %w", err)
	}
	if name == "" {
		*k = IconNone
		return nil
	}
	kind, err := ParseIconKind(name)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
