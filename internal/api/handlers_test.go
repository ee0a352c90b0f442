// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/biozilla/internal/analytics"
	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/blob"
	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/chart"
	"github.com/tomtom215/biozilla/internal/design"
	"github.com/tomtom215/biozilla/internal/inbox"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/sitemap"
	"github.com/tomtom215/biozilla/internal/store"
)

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/metrics", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, nil, "")
			if w.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.want)
			}
		})
	}

	var health HealthStatus
	decodeEnvelope(t, env.do(t, http.MethodGet, "/health", nil, ""), &health)
	if health.Status != "healthy" || !health.StoreConnected || !health.CatalogLoaded {
		t.Errorf("Health = %+v, want healthy with store and catalog up", health)
	}
}

func TestHealthReadyBeforeLoad(t *testing.T) {
	t.Parallel()

	mem := store.NewMemory()
	h := NewHandler(Deps{Config: testConfig(t), Store: mem, Catalog: catalog.New(mem)})

	w := httptest.NewRecorder()
	h.HealthReady(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("HealthReady() = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/nope", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if e := decodeEnvelope(t, w, nil); e.Error == nil || e.Error.Code != CodeNotFound {
		t.Errorf("error = %+v, want code %s", e.Error, CodeNotFound)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name     string
		req      any
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{
			name:     "wrong password",
			req:      LoginRequest{Email: testEmail, Password: "nope"},
			wantCode: http.StatusUnauthorized,
			wantErr:  auth.CodeWrongPassword,
			wantMsg:  auth.MessageInvalidCredentials,
		},
		{
			name:     "unknown user",
			req:      LoginRequest{Email: "someone@biozilla.test", Password: testPassword},
			wantCode: http.StatusUnauthorized,
			wantErr:  auth.CodeUserNotFound,
			wantMsg:  auth.MessageInvalidCredentials,
		},
		{
			name:     "malformed email",
			req:      LoginRequest{Email: "not-an-email", Password: testPassword},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeValidation,
		},
		{
			name:     "invalid json",
			req:      "{",
			wantCode: http.StatusBadRequest,
			wantErr:  CodeInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/auth/login", tt.req, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			e := decodeEnvelope(t, w, nil)
			if e.Error == nil || e.Error.Code != tt.wantErr {
				t.Fatalf("error = %+v, want code %q", e.Error, tt.wantErr)
			}
			if tt.wantMsg != "" && e.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", e.Error.Message, tt.wantMsg)
			}
		})
	}

	t.Run("success sets cookie", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: testEmail, Password: testPassword}, "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var cookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.TokenCookieName {
				cookie = c
			}
		}
		if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
			t.Fatalf("session cookie = %+v, want a non-empty HttpOnly cookie", cookie)
		}

		var session SessionResponse
		decodeEnvelope(t, w, &session)
		if !session.SignedIn || session.Email != testEmail || session.Role != auth.RoleAdmin {
			t.Errorf("session = %+v", session)
		}
	})
}

func TestMeAndLogout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var me SessionResponse
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/auth/me", nil, ""), &me)
	if me.SignedIn {
		t.Fatal("anonymous /auth/me reports signed in")
	}

	token := env.login(t)
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/auth/me", nil, token), &me)
	if !me.SignedIn || me.Email != testEmail {
		t.Fatalf("/auth/me = %+v, want signed in as %s", me, testEmail)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/admin/content", nil, token); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", w.Code)
	}
}

func TestAdminRequiresAuthentication(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	paths := []string{"/api/v1/admin/content", "/api/v1/admin/stats", "/api/v1/admin/messages"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := env.do(t, http.MethodGet, path, nil, "")
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if e := decodeEnvelope(t, w, nil); e.Error == nil || e.Error.Code != "AUTHENTICATION_ERROR" {
				t.Errorf("error = %+v", e.Error)
			}
		})
	}
}

func TestAdminContentLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)
	cat := env.seedCategory(t, "Shayari", false, models.Subcategory{ID: "sad", Name: "Sad"})

	// Create rejects incomplete input with the form message.
	w := env.do(t, http.MethodPost, "/api/v1/admin/content", ContentRequest{Category: cat.ID}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty text status = %d, want 400", w.Code)
	}
	if e := decodeEnvelope(t, w, nil); e.Error.Message != catalog.MessageContentRequired {
		t.Errorf("message = %q, want %q", e.Error.Message, catalog.MessageContentRequired)
	}

	var created models.ContentItem
	w = env.do(t, http.MethodPost, "/api/v1/admin/content",
		ContentRequest{Text: "Stars fall quietly", Category: cat.ID, Subcategory: "sad"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", w.Code, w.Body.String())
	}
	decodeEnvelope(t, w, &created)
	if diff := cmp.Diff([]string{cat.ID, "sad"}, created.Tags); diff != "" {
		t.Errorf("created tags mismatch (-want +got):\n%s", diff)
	}

	var updated models.ContentItem
	w = env.do(t, http.MethodPut, "/api/v1/admin/content/"+created.ID,
		ContentRequest{Text: "Stars fall loudly", Category: cat.ID, Featured: true}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", w.Code, w.Body.String())
	}
	decodeEnvelope(t, w, &updated)
	if updated.Text != "Stars fall loudly" || !updated.Featured {
		t.Errorf("updated = %+v", updated)
	}

	if w := env.do(t, http.MethodPut, "/api/v1/admin/content/missing", ContentRequest{Text: "x", Category: cat.ID}, token); w.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", w.Code)
	}

	var page models.Page
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/content?q=LOUDLY", nil, token), &page)
	if page.TotalItems != 1 || len(page.Items) != 1 || page.Items[0].ID != created.ID {
		t.Errorf("admin search page = %+v", page)
	}

	if w := env.do(t, http.MethodDelete, "/api/v1/admin/content/"+created.ID, nil, token); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if _, ok := env.catalog.Item(created.ID); ok {
		t.Error("deleted item still in catalog")
	}
}

func TestAdminContentPagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)
	cat := env.seedCategory(t, "Quotes", false)
	for i := range 9 {
		env.seedItem(t, fmt.Sprintf("quote %d", i), cat.ID, false)
	}

	tests := []struct {
		query     string
		wantPage  int
		wantItems int
	}{
		{"", 1, 8},
		{"?page=2", 2, 1},
		{"?page=99", 2, 1},
		{"?page=abc", 1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var page models.Page
			decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/content"+tt.query, nil, token), &page)
			if page.Page != tt.wantPage || len(page.Items) != tt.wantItems || page.TotalPages != 2 {
				t.Errorf("page = %d items = %d total = %d, want %d/%d/2",
					page.Page, len(page.Items), page.TotalPages, tt.wantPage, tt.wantItems)
			}
		})
	}
}

func TestBulkActions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)
	cat := env.seedCategory(t, "Facts", false)
	a := env.seedItem(t, "a", cat.ID, false)
	b := env.seedItem(t, "b", cat.ID, false)

	var res BulkResult
	w := env.do(t, http.MethodPost, "/api/v1/admin/content/bulk-feature",
		BulkFeatureRequest{IDs: []string{a.ID, b.ID}, Featured: true}, token)
	decodeEnvelope(t, w, &res)
	if w.Code != http.StatusOK || res.Affected != 2 {
		t.Fatalf("bulk-feature = %d affected %d", w.Code, res.Affected)
	}

	var featured []models.ContentItem
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/content/featured?filter=popular", nil, ""), &featured)
	if len(featured) != 2 {
		t.Errorf("featured = %d items, want 2", len(featured))
	}

	w = env.do(t, http.MethodPost, "/api/v1/admin/content/bulk-delete", BulkRequest{}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty bulk-delete status = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/admin/content/bulk-delete", BulkRequest{IDs: []string{a.ID, b.ID}}, token)
	decodeEnvelope(t, w, &res)
	if w.Code != http.StatusOK || res.Affected != 2 {
		t.Fatalf("bulk-delete = %d affected %d", w.Code, res.Affected)
	}
	if n := len(env.catalog.Content()); n != 0 {
		t.Errorf("catalog has %d items after bulk delete", n)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)

	var cat models.Category
	w := env.do(t, http.MethodPost, "/api/v1/admin/categories",
		map[string]any{"name": "Love Quotes", "subtitle": "Sweet lines", "icon": "LoveQuoteIcon"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create category status = %d (body %s)", w.Code, w.Body.String())
	}
	decodeEnvelope(t, w, &cat)

	w = env.do(t, http.MethodPost, "/api/v1/admin/categories", map[string]any{"name": "No icon", "subtitle": "x"}, token)
	if e := decodeEnvelope(t, w, nil); w.Code != http.StatusBadRequest || e.Error.Message != catalog.MessageCategoryRequired {
		t.Errorf("missing icon = %d %+v", w.Code, e.Error)
	}

	w = env.do(t, http.MethodPost, "/api/v1/admin/categories/"+cat.ID+"/subcategories", SubcategoryRequest{Name: "First Love"}, token)
	decodeEnvelope(t, w, &cat)
	if w.Code != http.StatusCreated || len(cat.Subcategories) != 1 || cat.Subcategories[0].ID != "first-love" {
		t.Fatalf("add subcategory = %d %+v", w.Code, cat.Subcategories)
	}

	w = env.do(t, http.MethodPost, "/api/v1/admin/categories/"+cat.ID+"/subcategories", SubcategoryRequest{Name: "first love"}, token)
	if e := decodeEnvelope(t, w, nil); w.Code != http.StatusBadRequest || e.Error.Message != catalog.MessageDuplicateSubcategory {
		t.Errorf("duplicate subcategory = %d %+v", w.Code, e.Error)
	}

	env.seedItem(t, "a love line", cat.ID, true)

	var page CategoryPage
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/categories/"+cat.ID+"/content", nil, ""), &page)
	if page.Category.ID != cat.ID || len(page.Items) != 1 {
		t.Errorf("category page = %+v", page)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/categories/missing/content", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("missing category status = %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/admin/categories/"+cat.ID+"/subcategories/first-love", nil, token)
	decodeEnvelope(t, w, &cat)
	if w.Code != http.StatusOK || len(cat.Subcategories) != 0 {
		t.Errorf("remove subcategory = %d %+v", w.Code, cat.Subcategories)
	}

	if w := env.do(t, http.MethodDelete, "/api/v1/admin/categories/"+cat.ID, nil, token); w.Code != http.StatusOK {
		t.Fatalf("delete category status = %d", w.Code)
	}
	if n := len(env.catalog.Content()); n != 1 {
		t.Errorf("items after category delete = %d, want 1", n)
	}
}

func TestPublicSearch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Captions", false)
	env.seedItem(t, "Sunset vibes only", cat.ID, false)
	env.seedItem(t, "Morning coffee", cat.ID, false)

	var blank SearchResponse
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/content/search?q=", nil, ""), &blank)
	if blank.Count != 0 {
		t.Errorf("blank query count = %d, want 0", blank.Count)
	}

	var res SearchResponse
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/content/search?q=sunset", nil, ""), &res)
	if res.Count != 1 {
		t.Fatalf("count = %d, want 1", res.Count)
	}
	segs := res.Results[0].Segments
	if len(segs) == 0 || !segs[0].Match || segs[0].Text != "Sunset" {
		t.Errorf("segments = %+v, want leading match on Sunset", segs)
	}
}

func TestFeaturedRejectsUnknownFilter(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/v1/content/featured?filter=hot", nil, ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRecordEngagement(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Bios", false)
	item := env.seedItem(t, "bio", cat.ID, true)

	tests := []struct {
		name   string
		id     string
		action string
		want   int
	}{
		{"like", item.ID, "like", http.StatusOK},
		{"unknown action", item.ID, "poke", http.StatusBadRequest},
		{"missing item", "missing", "view", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/content/"+tt.id+"/engagement", EngagementRequest{Action: tt.action}, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	got, _ := env.catalog.Item(item.ID)
	if got.Likes != 1 {
		t.Errorf("likes = %d, want 1", got.Likes)
	}
}

func TestMessagesFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPost, "/api/v1/messages", MessageRequest{Name: "Ana", Email: "bad", Message: "hi"}, "")
	if e := decodeEnvelope(t, w, nil); w.Code != http.StatusBadRequest || e.Error.Message != inbox.MessageInvalidEmail {
		t.Fatalf("invalid email = %d %+v", w.Code, e.Error)
	}

	var msg models.Message
	w = env.do(t, http.MethodPost, "/api/v1/messages", MessageRequest{Name: "Ana", Email: "ana@example.com", Message: "hi"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d (body %s)", w.Code, w.Body.String())
	}
	decodeEnvelope(t, w, &msg)

	var box InboxResponse
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/messages", nil, token), &box)
	if len(box.Messages) != 1 || box.Unread != 1 {
		t.Fatalf("inbox = %+v, want one unread", box)
	}

	if w := env.do(t, http.MethodPut, "/api/v1/admin/messages/"+msg.ID+"/read", ReadRequest{Read: true}, token); w.Code != http.StatusOK {
		t.Fatalf("mark read status = %d", w.Code)
	}
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/messages", nil, token), &box)
	if box.Unread != 0 {
		t.Errorf("unread after mark read = %d", box.Unread)
	}

	if w := env.do(t, http.MethodDelete, "/api/v1/admin/messages/"+msg.ID, nil, token); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/messages", nil, token), &box)
	if len(box.Messages) != 0 {
		t.Errorf("inbox after delete = %d messages", len(box.Messages))
	}
}

func TestStatsAreCachedAndInvalidated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)
	cat := env.seedCategory(t, "Fun Facts", false)
	env.seedItem(t, "octopuses have three hearts", cat.ID, false)

	var stats StatsResponse
	e := decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/stats", nil, token), &stats)
	if e.Metadata.Cached {
		t.Error("first stats call reported cached")
	}
	if stats.GeneratedAt.IsZero() || len(stats.Activity) != len(analytics.Metrics) {
		t.Errorf("stats = %+v", stats)
	}

	e = decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/stats", nil, token), nil)
	if !e.Metadata.Cached {
		t.Error("second stats call was not cached")
	}

	if err := env.handler.InvalidateStats(context.Background(), models.CatalogChange{Collection: models.CollectionContent}); err != nil {
		t.Fatalf("InvalidateStats() error = %v", err)
	}
	e = decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/stats", nil, token), nil)
	if e.Metadata.Cached {
		t.Error("stats still cached after invalidation")
	}
}

func TestStatsSnapshotBuiltBeforeInvalidationIsNotCached(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := env.handler

	epoch := h.statsEpoch.Load()
	stale := h.engine.Build(env.catalog.Content(), env.catalog.Categories())

	cat := env.seedCategory(t, "Late Arrivals", false)
	env.seedItem(t, "written while stats were computing", cat.ID, false)
	if err := h.InvalidateStats(context.Background(), models.CatalogChange{Collection: models.CollectionContent}); err != nil {
		t.Fatalf("InvalidateStats() error = %v", err)
	}

	if h.cacheSnapshot(stale, epoch) {
		t.Error("cacheSnapshot() stored a snapshot built before the invalidation")
	}
	if _, ok := h.stats.Get(statsCacheKey); ok {
		t.Fatal("stale snapshot is cached")
	}

	if _, cached := h.snapshot(); cached {
		t.Error("first snapshot after invalidation reported cached")
	}
	if _, cached := h.snapshot(); !cached {
		t.Error("fresh snapshot was not cached")
	}
}

func TestChartEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/stats/chart.svg?metric=likes", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("svg status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Errorf("body does not start with <svg: %.40q", w.Body.String())
	}

	var c chart.Chart
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/stats/chart?metric=views&hover=3&width=800", nil, token), &c)
	if c.Width != 800 || c.Metric != string(analytics.MetricViews) || c.Tooltip == nil {
		t.Errorf("chart = width %v metric %q tooltip %v", c.Width, c.Metric, c.Tooltip)
	}

	if w := env.do(t, http.MethodGet, "/api/v1/admin/stats/chart?metric=saves", nil, token); w.Code != http.StatusBadRequest {
		t.Errorf("unknown metric status = %d, want 400", w.Code)
	}
}

func TestSitemaps(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)
	open := env.seedCategory(t, "Open", false)
	hidden := env.seedCategory(t, "Hidden", true)

	w := env.do(t, http.MethodGet, "/sitemap.xml", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("sitemap.xml status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "#/category/"+open.ID) || strings.Contains(body, hidden.ID) {
		t.Errorf("sitemap.xml categories wrong:\n%s", body)
	}

	var entries []sitemap.URL
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/admin/sitemap", nil, token), &entries)
	if len(entries) == 0 || entries[0].Loc != "https://biozilla.test/" {
		t.Errorf("first sitemap entry = %+v", entries)
	}
}

func TestResolveRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Bios", false)

	tests := []struct {
		fragment  string
		wantKind  string
		wantFound bool
	}{
		{"#/category/" + cat.ID, "category", true},
		{"#/category/missing", "category", false},
		{"#/support/faq", "support", true},
		{"#/admin-login", "admin-login", true},
		{"", "home", true},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			var resp struct {
				Route struct {
					Kind string `json:"kind"`
				} `json:"route"`
				Found bool `json:"found"`
			}
			decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/route?fragment="+strings.ReplaceAll(tt.fragment, "#", "%23"), nil, ""), &resp)
			if resp.Route.Kind != tt.wantKind || resp.Found != tt.wantFound {
				t.Errorf("route = %+v, want kind %q found %v", resp, tt.wantKind, tt.wantFound)
			}
		})
	}
}

func TestDesignEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)

	var cfg models.DesignConfig
	decodeEnvelope(t, env.do(t, http.MethodGet, "/api/v1/design", nil, ""), &cfg)
	if cfg.SiteName != design.DefaultSiteName || strings.Contains(cfg.MetaTitle, models.SiteNamePlaceholder) {
		t.Fatalf("default design = %+v", cfg)
	}

	cfg.SiteName = "Glowzilla"
	cfg.MetaTitle = models.SiteNamePlaceholder + " home"
	w := env.do(t, http.MethodPut, "/api/v1/admin/design", cfg, token)
	decodeEnvelope(t, w, &cfg)
	if w.Code != http.StatusOK || cfg.MetaTitle != "Glowzilla home" {
		t.Fatalf("save design = %d %q", w.Code, cfg.MetaTitle)
	}

	cfg.PrimaryColor = "blue"
	if w := env.do(t, http.MethodPut, "/api/v1/admin/design", cfg, token); w.Code != http.StatusBadRequest {
		t.Errorf("invalid color status = %d, want 400", w.Code)
	}
}

// multipartUpload builds a one-file form with an explicit part content type.
func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFormField, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadDesignAsset(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t)
	png := []byte("\x89PNG\r\n\x1a\nfake image body")

	upload := func(kind, filename, contentType string) *httptest.ResponseRecorder {
		body, ct := multipartUpload(t, filename, contentType, png)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/design/assets/"+kind, body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := upload("logo", "logo.png", "image/png")
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d (body %s)", w.Code, w.Body.String())
	}
	var cfg models.DesignConfig
	decodeEnvelope(t, w, &cfg)
	if cfg.LogoURL == nil || !strings.HasPrefix(*cfg.LogoURL, "/media/logos/") {
		t.Fatalf("LogoURL = %v, want /media/logos/ prefix", cfg.LogoURL)
	}

	if got := env.do(t, http.MethodGet, *cfg.LogoURL, nil, ""); got.Code != http.StatusOK || !bytes.Equal(got.Body.Bytes(), png) {
		t.Errorf("GET %s = %d, body mismatch", *cfg.LogoURL, got.Code)
	}

	w = upload("logo", "notes.txt", "text/plain")
	if e := decodeEnvelope(t, w, nil); w.Code != http.StatusBadRequest || e.Error.Message != blob.Message(blob.ErrNotImage) {
		t.Errorf("text upload = %d %+v", w.Code, e.Error)
	}

	if w := upload("banner", "b.png", "image/png"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown asset status = %d, want 400", w.Code)
	}
}

func TestRespondDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "catalog validation",
			err:      fmt.Errorf("save: %w", &catalog.ValidationError{Message: catalog.MessageContentRequired}),
			wantCode: http.StatusBadRequest,
			wantMsg:  catalog.MessageContentRequired,
		},
		{
			name:     "catalog action failure",
			err:      &catalog.ActionError{Op: "delete_content", Message: catalog.MessageDeleteContentFailed, Err: errors.New("disk full")},
			wantCode: http.StatusInternalServerError,
			wantMsg:  catalog.MessageDeleteContentFailed,
		},
		{
			name:     "inbox failure",
			err:      &inbox.Error{Message: inbox.MessageSendFailed, Err: errors.New("offline")},
			wantCode: http.StatusInternalServerError,
			wantMsg:  inbox.MessageSendFailed,
		},
		{
			name:     "design save",
			err:      fmt.Errorf("%w: %w", design.ErrSave, errors.New("offline")),
			wantCode: http.StatusInternalServerError,
			wantMsg:  design.MessageSaveFailed,
		},
		{
			name:     "not found",
			err:      fmt.Errorf("get: %w", store.ErrNotFound),
			wantCode: http.StatusNotFound,
			wantMsg:  "Not found",
		},
		{
			name:     "too large",
			err:      blob.ErrTooLarge,
			wantCode: http.StatusBadRequest,
			wantMsg:  blob.Message(blob.ErrTooLarge),
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			respondDomainError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if e := decodeEnvelope(t, w, nil); e.Error == nil || e.Error.Message != tt.wantMsg {
				t.Errorf("message = %+v, want %q", e.Error, tt.wantMsg)
			}
		})
	}
}
