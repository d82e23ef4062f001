package seo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/eringen/inkwell/content"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settings = content.Settings{
	SiteName:        "Inkwell",
	SiteURL:         "https://example.com",
	SiteDescription: "Notes on Go.",
	DefaultOGImage:  "/images/og.png",
}

func source() *content.StaticSource {
	return &content.StaticSource{Data: content.Snapshot{
		Settings: settings,
		Posts: []content.Post{{
			ID: "hello", Slug: "hello-world", Title: "Hello", Status: content.StatusPublished,
			PubDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Author: "jane", Category: "go",
			Image: &content.Image{Src: "/images/hello.webp"},
		}},
		Authors:    []content.Author{{ID: "jane", Slug: "jane", Name: "Jane", Avatar: "https://cdn.example.com/jane.png"}},
		Categories: []content.Category{{ID: "go", Slug: "golang", Name: "Go"}},
		Tags: []content.Tag{
			{ID: "tutorial", Slug: "tutorial", Name: "Tutorial", Description: "Step by step guides"},
			{ID: "bare", Slug: "bare", Name: "Bare"},
			{ID: "custom", Slug: "custom", Name: "Custom", Description: "ignored", SEO: &content.SEOOverride{Title: "Custom Title", Description: "From override"}},
		},
		Pages: []content.Page{{ID: "privacy", Slug: "privacy", Title: "Privacy", Status: content.StatusPublished}},
	}}
}

func TestTagDescriptionWithoutOverride(t *testing.T) {
	g := &Generator{Source: source()}
	m, err := g.Tag(context.Background(), "tutorial")
	require.NoError(t, err)
	assert.Equal(t, "Step by step guides", m.Description)
	assert.Equal(t, "Tutorial | Inkwell", m.Title)
	assert.Equal(t, "https://example.com/tag/tutorial/", m.Canonical)
	assert.Equal(t, "https://example.com/images/og.png", m.OGImage)
}

func TestTagFallsBackToTemplateThenOverride(t *testing.T) {
	g := &Generator{Source: source()}

	m, err := g.Tag(context.Background(), "bare")
	require.NoError(t, err)
	assert.Equal(t, "Posts tagged Bare on Inkwell.", m.Description)

	m, err = g.Tag(context.Background(), "custom")
	require.NoError(t, err)
	assert.Equal(t, "From override", m.Description)
	assert.Equal(t, "Custom Title | Inkwell", m.Title)
}

func TestPostMetadata(t *testing.T) {
	g := &Generator{Source: source()}
	m, err := g.Post(context.Background(), "hello-world")
	require.NoError(t, err)

	assert.Equal(t, "Hello | Inkwell", m.Title)
	assert.Equal(t, "Hello by Jane in Go on Inkwell.", m.Description)
	assert.Equal(t, "https://example.com/blog/hello-world/", m.Canonical)
	assert.Equal(t, "https://example.com/images/hello.webp", m.OGImage)
	assert.Equal(t, TypeArticle, m.OGType)
	assert.Equal(t, []string{"Go"}, m.Keywords)
	assert.False(t, m.NoIndex)
	require.Len(t, m.Schema, 2)
	assert.Equal(t, "BlogPosting", m.Schema[0]["@type"])
	assert.Equal(t, "Go", m.Schema[0]["articleSection"])
}

func TestAuthorUsesAvatarAsImage(t *testing.T) {
	g := &Generator{Source: source()}
	m, err := g.Author(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/jane.png", m.OGImage)
	assert.Equal(t, "Articles written by Jane on Inkwell.", m.Description)
	assert.Equal(t, TypeProfile, m.OGType)
}

func TestCategoryBySlug(t *testing.T) {
	g := &Generator{Source: source()}
	m, err := g.Category(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/category/golang/", m.Canonical)
	assert.Equal(t, "Articles about Go on Inkwell.", m.Description)
}

func TestHomeHasNoSuffix(t *testing.T) {
	g := &Generator{Source: source()}
	m, err := g.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Inkwell", m.Title)
	assert.Equal(t, "https://example.com/", m.Canonical)
	require.Len(t, m.Schema, 1)
	assert.Equal(t, "WebSite", m.Schema[0]["@type"])
}

func TestLenientModeFallsBack(t *testing.T) {
	ctx := context.Background()
	g := &Generator{Source: source()}

	m, err := g.Post(ctx, "nope")
	require.NoError(t, err)
	want := Metadata{Title: "Inkwell", Description: "Notes on Go.", Canonical: "https://example.com", OGType: TypeWebsite}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}

	broken := &Generator{Source: &content.StaticSource{Err: errors.New("disk gone")}}
	m, err = broken.Page(ctx, "privacy")
	require.NoError(t, err)
	assert.Equal(t, FallbackTitle, m.Title)
	assert.Equal(t, "/", m.Canonical)
}

func TestStrictModePropagates(t *testing.T) {
	ctx := context.Background()
	g := &Generator{Source: source(), Strict: true}

	_, err := g.Tag(ctx, "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	boom := errors.New("disk gone")
	strict := &Generator{Source: &content.StaticSource{Err: boom}, Strict: true}
	_, err = strict.Author(ctx, "jane")
	assert.ErrorIs(t, err, boom)
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		site, path, want string
	}{
		{"https://example.com", "/blog/a", "https://example.com/blog/a/"},
		{"https://example.com/", "/", "https://example.com/"},
		{"https://example.com/sub", "/tag/x", "https://example.com/sub/tag/x/"},
		{"", "/tag/x", "/tag/x/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.site, tt.path), "%s + %s", tt.site, tt.path)
	}
}

func TestAbsURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.png", AbsURL("https://example.com/", "/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", AbsURL("https://example.com", "https://cdn.example.com/a.png"))
	assert.Equal(t, "/a.png", AbsURL("", "/a.png"))
	assert.Equal(t, "", AbsURL("https://example.com", ""))
}

func TestThingJSON(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(WebSite(settings).JSON()), &decoded))
	assert.Equal(t, "https://schema.org", decoded["@context"])
	assert.Equal(t, "Inkwell", decoded["name"])

	assert.Equal(t, "{}", Thing{"bad": make(chan int)}.JSON())
}

func TestBreadcrumbList(t *testing.T) {
	b := BreadcrumbList(settings, Crumb{Name: "Home", Path: "/"}, Crumb{Name: "Tag", Path: "/tag/x"})
	items := b["itemListElement"].([]map[string]any)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[1]["position"])
	assert.Equal(t, "https://example.com/tag/x/", items[1]["item"])
}
