package inkwell

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eringen/inkwell/content"
)

const testKey = "s3cret"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSnapshot() *content.Snapshot {
	updated := date(2024, 3, 10)
	return &content.Snapshot{
		Posts: []content.Post{
			{
				ID: "go-generics", Slug: "go-generics", Title: "Go Generics", Description: "Type parameters in practice.",
				PubDate: date(2024, 3, 1), UpdatedDate: &updated, Status: content.StatusPublished,
				Author: "jane", Category: "go", Tags: []content.Ref{"tutorial", "generics"},
				Image: &content.Image{Src: "/images/generics.png", Alt: "Generics"}, Featured: true,
				Body: "# Generics\n\nType parameters let functions work over many types.",
			},
			{
				ID: "go-errors", Slug: "go-errors", Title: "Errors in Go", Description: "Wrapping and sentinels.",
				PubDate: date(2024, 2, 1), Status: content.StatusPublished,
				Author: "jane", Category: "go", Tags: []content.Ref{"tutorial"},
				Body: "Use `fmt.Errorf` with `%w`.",
			},
			{
				ID: "rust-intro", Slug: "rust-intro", Title: "Intro to Rust", Description: "Ownership basics.",
				PubDate: date(2024, 1, 1), Status: content.StatusPublished,
				Author: "sam", Category: "rust", Tags: []content.Ref{"tutorial"},
				Body: "Ownership is the core idea.",
			},
			{
				ID: "draft", Slug: "draft", Title: "Upcoming", Description: "Not yet.",
				PubDate: date(2024, 4, 1), Status: content.StatusDraft,
				Author: "jane", Category: "go",
				Body: "Work in progress.",
			},
		},
		Authors: []content.Author{
			{ID: "jane", Slug: "jane", Name: "Jane Doe", Bio: "Writes about Go."},
			{ID: "sam", Slug: "sam", Name: "Sam Roe"},
		},
		Categories: []content.Category{
			{ID: "go", Slug: "golang", Name: "Go", Description: "The Go language"},
			{ID: "rust", Slug: "rust", Name: "Rust"},
			{ID: "python", Slug: "python", Name: "Python"},
		},
		Tags: []content.Tag{
			{ID: "tutorial", Slug: "tutorial", Name: "Tutorial"},
			{ID: "generics", Slug: "generics", Name: "Generics"},
		},
		Pages: []content.Page{
			{ID: "privacy", Slug: "privacy", Title: "Privacy Policy", Type: "legal", Status: content.StatusPublished, LastUpdated: date(2024, 5, 1), Body: "We keep nothing."},
			{ID: "about", Slug: "about", Title: "About", Type: "page", Status: content.StatusDraft, Body: "About us."},
		},
		AffiliateCategories: []content.AffiliateCategory{
			{ID: "keyboards", Slug: "keyboards", Name: "Keyboards", Featured: true},
			{ID: "mice", Slug: "mice", Name: "Mice"},
		},
		AffiliateProducts: []content.AffiliateProduct{
			{ID: "k1", Slug: "k1", Name: "K1", Category: "keyboards", Brand: "Keychron", Price: 99, Rating: 4.5, Status: content.StatusActive, Specs: map[string]string{"switches": "brown"}},
			{ID: "k2", Slug: "k2", Name: "K2", Category: "keyboards", Brand: "Keychron", Price: 79, Rating: 4.8, Status: content.StatusActive, Specs: map[string]string{"layout": "75%"}},
			{ID: "k3", Slug: "k3", Name: "Old", Category: "keyboards", Brand: "Acme", Price: 20, Rating: 2, Status: content.StatusInactive},
		},
		Settings: content.Settings{
			SiteName:        "Inkwell",
			SiteURL:         "https://example.com",
			SiteDescription: "Notes on programming.",
			Language:        "en",
			RSS:             content.RSSSettings{Enabled: true},
		},
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.API.Key = testKey
	cfg.Content.CacheTTL = 0
	cfg.Content.Watch = false
	cfg.Site.PublicDir = "testdata/public"
	return cfg
}

// newTestApp returns an initialized App serving snap.
func newTestApp(t *testing.T, src content.Source, mutate ...func(*Config)) *App {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	a := New(cfg, WithSource(src), WithLogger(zap.NewNop()))
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

func staticSource(s *content.Snapshot) *content.StaticSource {
	return &content.StaticSource{Data: content.Snapshot{
		Posts:               s.Posts,
		Authors:             s.Authors,
		Categories:          s.Categories,
		Tags:                s.Tags,
		Pages:               s.Pages,
		AffiliateCategories: s.AffiliateCategories,
		AffiliateProducts:   s.AffiliateProducts,
		Settings:            s.Settings,
	}}
}

func doGet(a *App, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func apiGet(a *App, target string) *httptest.ResponseRecorder {
	return doGet(a, target, "Authorization", "Bearer "+testKey)
}

// envelope is the decoded form of Envelope with a typed payload.
type envelope[T any] struct {
	Success    bool           `json:"success"`
	Data       T              `json:"data"`
	Pagination *Pagination    `json:"pagination"`
	Filters    map[string]any `json:"filters"`
	Timestamp  int64          `json:"timestamp"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env
}
