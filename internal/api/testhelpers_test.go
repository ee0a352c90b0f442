// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/biozilla/internal/analytics"
	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/authz"
	"github.com/tomtom215/biozilla/internal/blob"
	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/config"
	"github.com/tomtom215/biozilla/internal/design"
	"github.com/tomtom215/biozilla/internal/inbox"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
)

const (
	testEmail    = "admin@biozilla.test"
	testPassword = "correct-horse-battery"
	testSecret   = "Zt4wQ9pLm2Xv7Rk0Bn5Yc8Hd3Fg6Js1Ae"
)

var (
	hashOnce sync.Once
	testHash string
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		testHash = string(h)
	})
	return &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		API: config.APIConfig{
			PageSize:      8,
			StatsCacheTTL: time.Minute,
			MaxBodyBytes:  64 << 10,
		},
		Security: config.SecurityConfig{
			JWTSecret:            testSecret,
			SessionTimeout:       time.Hour,
			AdminEmail:           testEmail,
			AdminPasswordHash:    testHash,
			LoginRateLimitReqs:   10,
			LoginRateLimitWindow: time.Minute,
			RateLimitReqs:        1000,
			RateLimitWindow:      time.Minute,
		},
		Blob: config.BlobConfig{Dir: t.TempDir(), URLPrefix: "/media"},
		Site: config.SiteConfig{BaseURL: "https://biozilla.test", Timezone: "UTC"},
	}
}

// testEnv is a full router over an in-memory store.
type testEnv struct {
	router  http.Handler
	handler *Handler
	catalog *catalog.Catalog
	store   *store.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig(t)

	mem := store.NewMemory()
	cat := catalog.New(mem)
	if err := cat.Load(ctx); err != nil {
		t.Fatalf("catalog Load() error = %v", err)
	}

	blobs, err := blob.NewFS(cfg.Blob.Dir, cfg.Blob.URLPrefix)
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	t.Cleanup(func() { _ = blobs.Close() })

	designs := design.New(mem, blobs, nil)
	if err := designs.Load(ctx); err != nil {
		t.Fatalf("design Load() error = %v", err)
	}

	provider, err := auth.NewProvider(&cfg.Security, nil)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	clientIP := auth.NewClientIP(nil)
	authn := auth.NewMiddleware(provider, clientIP, WriteAuthError)

	enforcer, err := authz.NewEnforcer(authz.Config{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)

	handler := NewHandler(Deps{
		Config:   cfg,
		Store:    mem,
		Catalog:  cat,
		Inbox:    inbox.New(mem, nil),
		Design:   designs,
		Auth:     provider,
		Engine:   analytics.NewEngine(time.Now, time.UTC),
		ClientIP: clientIP.Resolve,
	})
	chiMW := NewChiMiddleware(NewChiMiddlewareConfig(&cfg.Security, clientIP.Resolve))
	router := NewRouter(handler, chiMW, authn,
		authz.NewMiddleware(enforcer, clientIP.Resolve, WriteAuthError),
		WithMedia(cfg.Blob.URLPrefix, blobs.Handler()),
	)

	return &testEnv{router: router.Setup(), handler: handler, catalog: cat, store: mem}
}

// envelope mirrors models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

// login signs the admin in and returns the bearer token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: testEmail, Password: testPassword}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var session SessionResponse
	decodeEnvelope(t, w, &session)
	if session.Token == "" {
		t.Fatal("login returned no token")
	}
	return session.Token
}

// seedCategory creates a category through the catalog.
func (e *testEnv) seedCategory(t *testing.T, name string, premium bool, subs ...models.Subcategory) models.Category {
	t.Helper()
	cat, err := e.catalog.SaveCategory(context.Background(), catalog.CategoryInput{
		Name:          name,
		Subtitle:      name + " subtitle",
		Icon:          models.IconShayari,
		Premium:       premium,
		Subcategories: subs,
	})
	if err != nil {
		t.Fatalf("SaveCategory(%q) error = %v", name, err)
	}
	return cat
}

// seedItem creates a content item through the catalog.
func (e *testEnv) seedItem(t *testing.T, text, category string, featured bool) models.ContentItem {
	t.Helper()
	item, err := e.catalog.SaveContent(context.Background(), catalog.ContentInput{
		Text:     text,
		Category: category,
		Featured: featured,
	})
	if err != nil {
		t.Fatalf("SaveContent(%q) error = %v", text, err)
	}
	return item
}
