// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package models

// SiteNamePlaceholder is replaced by the configured site name in SEO fields.
const SiteNamePlaceholder = "{siteName}"

// SocialLinks holds the footer social profile URLs. Empty means "#".
type SocialLinks struct {
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	YouTube   string `json:"youtube"`
}

// DesignConfig is the singleton theming, branding and SEO record.
// LogoURL and FaviconURL are nil until an image has been uploaded.
type DesignConfig struct {
	SiteName        string      `json:"siteName" validate:"required,max=80"`
	HeroTitle       string      `json:"heroTitle" validate:"max=200"`
	HeroSubtitle    string      `json:"heroSubtitle" validate:"max=500"`
	FooterSubtitle  string      `json:"footerSubtitle" validate:"max=500"`
	PrimaryColor    string      `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor  string      `json:"secondaryColor" validate:"omitempty,hexcolor"`
	AccentColor     string      `json:"accentColor" validate:"omitempty,hexcolor"`
	LogoURL         *string     `json:"logoUrl"`
	FaviconURL      *string     `json:"faviconUrl"`
	MetaTitle       string      `json:"metaTitle" validate:"max=200"`
	MetaDescription string      `json:"metaDescription" validate:"max=500"`
	MetaKeywords    string      `json:"metaKeywords" validate:"max=500"`
	SocialLinks     SocialLinks `json:"socialLinks"`
}
