// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package design loads, resolves and saves the site's branding and SEO settings.
package design

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biozilla/internal/blob"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
	"github.com/tomtom215/biozilla/internal/validation"
)

// MessageSaveFailed is shown when the design document cannot be written.
const MessageSaveFailed = "Failed to save design settings."

// ErrSave wraps store failures of Save and UploadAsset.
var ErrSave = errors.New(MessageSaveFailed)

// ErrUnknownAsset is returned for asset kinds other than logo and favicon.
var ErrUnknownAsset = errors.New("unknown design asset")

// Default values of the design document.
const (
	DefaultSiteName        = "Biozilla"
	DefaultHeroTitle       = "Welcome to Biozilla"
	DefaultHeroSubtitle    = "Your ultimate destination for Instagram bios, shayari, love quotes, fun facts, and social media captions"
	DefaultFooterSubtitle  = "Your ultimate destination for social media content. Create amazing bios, shayari, quotes, fun facts and captions for Instagram, Facebook, and more."
	DefaultPrimaryColor    = "#8B5CF6"
	DefaultSecondaryColor  = "#EC4899"
	DefaultAccentColor     = "#8B5CF6"
	DefaultMetaTitle       = models.SiteNamePlaceholder + " – Best Instagram Bios, Quotes & Captions"
	DefaultMetaDescription = "Discover the perfect Instagram bios, shayari, love quotes, fun facts, and social media captions. " + models.SiteNamePlaceholder + " is your ultimate source for creative content."
	DefaultMetaKeywords    = "instagram bio, shayari, love quotes, fun facts, social media captions, bio for instagram"
	DefaultSocialLink      = "#"
)

// Defaults returns the design used before anything has been saved.
func Defaults() models.DesignConfig {
	return models.DesignConfig{
		SiteName:        DefaultSiteName,
		HeroTitle:       DefaultHeroTitle,
		HeroSubtitle:    DefaultHeroSubtitle,
		FooterSubtitle:  DefaultFooterSubtitle,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		AccentColor:     DefaultAccentColor,
		MetaTitle:       DefaultMetaTitle,
		MetaDescription: DefaultMetaDescription,
		MetaKeywords:    DefaultMetaKeywords,
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

// WithDefaults fills every empty field of cfg from Defaults.
func WithDefaults(cfg models.DesignConfig) models.DesignConfig {
	d := Defaults()
	return models.DesignConfig{
		SiteName:        orDefault(cfg.SiteName, d.SiteName),
		HeroTitle:       orDefault(cfg.HeroTitle, d.HeroTitle),
		HeroSubtitle:    orDefault(cfg.HeroSubtitle, d.HeroSubtitle),
		FooterSubtitle:  orDefault(cfg.FooterSubtitle, d.FooterSubtitle),
		PrimaryColor:    orDefault(cfg.PrimaryColor, d.PrimaryColor),
		SecondaryColor:  orDefault(cfg.SecondaryColor, d.SecondaryColor),
		AccentColor:     orDefault(cfg.AccentColor, d.AccentColor),
		LogoURL:         orNil(cfg.LogoURL),
		FaviconURL:      orNil(cfg.FaviconURL),
		MetaTitle:       orDefault(cfg.MetaTitle, d.MetaTitle),
		MetaDescription: orDefault(cfg.MetaDescription, d.MetaDescription),
		MetaKeywords:    orDefault(cfg.MetaKeywords, d.MetaKeywords),
		SocialLinks:     cfg.SocialLinks,
	}
}

// Resolve substitutes the site name into the SEO fields and points empty
// social links at "#".
func Resolve(cfg models.DesignConfig) models.DesignConfig {
	cfg.MetaTitle = strings.Replace(cfg.MetaTitle, models.SiteNamePlaceholder, cfg.SiteName, 1)
	cfg.MetaDescription = strings.Replace(cfg.MetaDescription, models.SiteNamePlaceholder, cfg.SiteName, 1)
	cfg.SocialLinks = models.SocialLinks{
		Twitter:   orDefault(cfg.SocialLinks.Twitter, DefaultSocialLink),
		Instagram: orDefault(cfg.SocialLinks.Instagram, DefaultSocialLink),
		Facebook:  orDefault(cfg.SocialLinks.Facebook, DefaultSocialLink),
		YouTube:   orDefault(cfg.SocialLinks.YouTube, DefaultSocialLink),
	}
	return cfg
}

// Notifier is told when the design document changed.
type Notifier interface {
	CatalogChanged(ctx context.Context, change models.CatalogChange)
}

// Service holds the current design and writes changes through to the store.
type Service struct {
	store    store.Store
	blobs    blob.Store
	notifier Notifier

	mu      sync.RWMutex
	current models.DesignConfig

	// writeMu serializes Save and the read-modify-write of UploadAsset.
	writeMu sync.Mutex
}

// New returns a service serving Defaults until Load succeeds. blobs and
// notifier may be nil.
func New(s store.Store, blobs blob.Store, notifier Notifier) *Service {
	return &Service{
		store:    s,
		blobs:    blobs,
		notifier: notifier,
		current:  Defaults(),
	}
}

// Load reads the design document. A missing document keeps the defaults.
func (s *Service) Load(ctx context.Context) error {
	doc, err := s.store.Get(ctx, models.CollectionSettings, models.DesignConfigDocID)
	if errors.Is(err, store.ErrNotFound) {
		s.set(Defaults())
		logging.Ctx(ctx).Debug().Msg("No design document stored, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load design: %w", err)
	}

	var cfg models.DesignConfig
	if err := json.Unmarshal(doc.Data, &cfg); err != nil {
		return fmt.Errorf("decode design: %w", err)
	}
	s.set(WithDefaults(cfg))
	return nil
}

func (s *Service) set(cfg models.DesignConfig) {
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
}

// Current returns the design with placeholders left in place, as edited by the admin.
func (s *Service) Current() models.DesignConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.current
	cfg.LogoURL = orNil(cfg.LogoURL)
	cfg.FaviconURL = orNil(cfg.FaviconURL)
	return cfg
}

// Resolved returns the design as the public site renders it.
func (s *Service) Resolved() models.DesignConfig {
	return Resolve(s.Current())
}

// Save validates cfg, overwrites the stored document and reloads it.
func (s *Service) Save(ctx context.Context, cfg models.DesignConfig) (models.DesignConfig, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.save(ctx, cfg)
}

// save must be called with writeMu held.
func (s *Service) save(ctx context.Context, cfg models.DesignConfig) (models.DesignConfig, error) {
	if verr := validation.ValidateStruct(&cfg); verr != nil {
		return models.DesignConfig{}, verr
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return models.DesignConfig{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := s.store.Set(ctx, models.CollectionSettings, models.DesignConfigDocID, data); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to save design settings")
		return models.DesignConfig{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := s.Load(ctx); err != nil {
		return models.DesignConfig{}, err
	}

	if s.notifier != nil {
		s.notifier.CatalogChanged(ctx, models.CatalogChange{
			Collection: models.CollectionSettings,
			Op:         models.ChangeUpdate,
			IDs:        []string{models.DesignConfigDocID},
			At:         time.Now().UTC(),
		})
	}
	return s.Current(), nil
}

// AssetKind names an uploadable design image.
type AssetKind string

// Uploadable assets.
const (
	AssetLogo    AssetKind = "logo"
	AssetFavicon AssetKind = "favicon"
)

// dir returns the blob directory of the asset.
func (k AssetKind) dir() (string, bool) {
	switch k {
	case AssetLogo:
		return "logos", true
	case AssetFavicon:
		return "favicons", true
	default:
		return "", false
	}
}

// UploadAsset stores an image and saves its URL as the logo or favicon.
// Type and size are checked before anything is read. The image is uploaded
// before writeMu is taken; only the document update is serialized.
func (s *Service) UploadAsset(ctx context.Context, kind AssetKind, name, contentType string, size int64, r io.Reader) (models.DesignConfig, error) {
	dir, ok := kind.dir()
	if !ok {
		return models.DesignConfig{}, fmt.Errorf("%w: %q", ErrUnknownAsset, kind)
	}
	if err := blob.ValidateImage(contentType, size); err != nil {
		return models.DesignConfig{}, err
	}
	if s.blobs == nil {
		return models.DesignConfig{}, errors.New("no blob store configured")
	}

	url, err := s.blobs.Upload(ctx, dir, name, contentType, size, r)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("asset", string(kind)).Msg("Image upload failed")
		return models.DesignConfig{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cfg := s.Current()
	switch kind {
	case AssetLogo:
		cfg.LogoURL = &url
	case AssetFavicon:
		cfg.FaviconURL = &url
	}
	return s.save(ctx, cfg)
}
