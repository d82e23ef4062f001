// Package seo derives page titles, descriptions, canonical URLs, Open Graph
// images and schema.org JSON-LD for inkwell content.
//
// Every field is chosen in the same order: the entry's own SEO override,
// then the entry's description (or bio), then a generated sentence, then the
// site defaults from Settings.
package seo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/inkwell/content"
)

// FallbackTitle is the title used when neither an entry nor the settings
// provide one.
const FallbackTitle = "Blog"

// Open Graph object types.
const (
	TypeWebsite = "website"
	TypeArticle = "article"
	TypeProfile = "profile"
)

// Metadata is the SEO record of one page.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Canonical   string   `json:"canonical"`
	OGImage     string   `json:"ogImage,omitempty"`
	OGType      string   `json:"ogType,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	NoIndex     bool     `json:"noIndex,omitempty"`
	Schema      []Thing  `json:"schema,omitempty"`
}

// Fallback is the minimal record returned when metadata cannot be derived.
func Fallback(s content.Settings) Metadata {
	canonical := s.SiteURL
	if canonical == "" {
		canonical = "/"
	}
	return Metadata{
		Title:       orDefault(s.SiteName, FallbackTitle),
		Description: s.SiteDescription,
		Canonical:   canonical,
		OGType:      TypeWebsite,
	}
}

// ForHome builds the metadata of the home page. The home title carries no
// site name suffix.
func ForHome(s content.Settings) Metadata {
	return Metadata{
		Title:       orDefault(s.SiteName, FallbackTitle),
		Description: s.SiteDescription,
		Canonical:   Canonical(s.SiteURL, "/"),
		OGImage:     AbsURL(s.SiteURL, s.DefaultOGImage),
		OGType:      TypeWebsite,
		Schema:      []Thing{WebSite(s)},
	}
}

// ForPost builds the metadata of a post. author and category are the
// resolved references of the post; zero values are allowed.
func ForPost(s content.Settings, p content.Post, author content.Author, category content.Category) Metadata {
	o := override(p.SEO)
	var image string
	if p.Image != nil {
		image = p.Image.Src
	}
	m := Metadata{
		Title:       title(s, first(o.Title, p.Title)),
		Description: first(o.Description, p.Description, postTemplate(s, p, author, category), s.SiteDescription),
		Canonical:   Canonical(s.SiteURL, content.PostPath(p)),
		OGImage:     AbsURL(s.SiteURL, first(o.OGImage, image, s.DefaultOGImage)),
		OGType:      TypeArticle,
		Keywords:    o.Keywords,
		NoIndex:     o.NoIndex || !p.Published(),
	}
	if len(m.Keywords) == 0 && category.Name != "" {
		m.Keywords = []string{category.Name}
	}
	m.Schema = []Thing{
		BlogPosting(s, p, author, category),
		BreadcrumbList(s,
			Crumb{Name: "Home", Path: "/"},
			Crumb{Name: FallbackTitle, Path: content.BlogPath},
			Crumb{Name: p.Title, Path: content.PostPath(p)},
		),
	}
	return m
}

func postTemplate(s content.Settings, p content.Post, author content.Author, category content.Category) string {
	if p.Title == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Title)
	if author.Name != "" {
		fmt.Fprintf(&b, " by %s", author.Name)
	}
	if category.Name != "" {
		fmt.Fprintf(&b, " in %s", category.Name)
	}
	if s.SiteName != "" {
		fmt.Fprintf(&b, " on %s", s.SiteName)
	}
	return b.String() + "."
}

// ForCategory builds the metadata of a category listing.
func ForCategory(s content.Settings, c content.Category) Metadata {
	o := override(c.SEO)
	var generated string
	if c.Name != "" {
		generated = fmt.Sprintf("Articles about %s%s.", c.Name, onSite(s))
	}
	listing := content.CategoryPath(c)
	return Metadata{
		Title:       title(s, first(o.Title, c.Name)),
		Description: first(o.Description, c.Description, generated, s.SiteDescription),
		Canonical:   Canonical(s.SiteURL, listing),
		OGImage:     AbsURL(s.SiteURL, first(o.OGImage, s.DefaultOGImage)),
		OGType:      TypeWebsite,
		Keywords:    keywords(o, c.Name),
		NoIndex:     o.NoIndex,
		Schema:      []Thing{CollectionPage(s, c.Name, first(o.Description, c.Description, generated), listing)},
	}
}

// ForTag builds the metadata of a tag listing.
func ForTag(s content.Settings, t content.Tag) Metadata {
	o := override(t.SEO)
	var generated string
	if t.Name != "" {
		generated = fmt.Sprintf("Posts tagged %s%s.", t.Name, onSite(s))
	}
	listing := content.TagPath(t)
	return Metadata{
		Title:       title(s, first(o.Title, t.Name)),
		Description: first(o.Description, t.Description, generated, s.SiteDescription),
		Canonical:   Canonical(s.SiteURL, listing),
		OGImage:     AbsURL(s.SiteURL, first(o.OGImage, s.DefaultOGImage)),
		OGType:      TypeWebsite,
		Keywords:    keywords(o, t.Name),
		NoIndex:     o.NoIndex,
		Schema:      []Thing{CollectionPage(s, t.Name, first(o.Description, t.Description, generated), listing)},
	}
}

// ForAuthor builds the metadata of an author profile.
func ForAuthor(s content.Settings, a content.Author) Metadata {
	o := override(a.SEO)
	var generated string
	if a.Name != "" {
		generated = fmt.Sprintf("Articles written by %s%s.", a.Name, onSite(s))
	}
	return Metadata{
		Title:       title(s, first(o.Title, a.Name)),
		Description: first(o.Description, a.Bio, generated, s.SiteDescription),
		Canonical:   Canonical(s.SiteURL, content.AuthorPath(a)),
		OGImage:     AbsURL(s.SiteURL, first(o.OGImage, a.Avatar, s.DefaultOGImage)),
		OGType:      TypeProfile,
		Keywords:    keywords(o, a.Name),
		NoIndex:     o.NoIndex,
		Schema:      []Thing{Person(s, a)},
	}
}

// ForPage builds the metadata of a standalone page.
func ForPage(s content.Settings, p content.Page) Metadata {
	o := override(p.SEO)
	var generated string
	if p.Title != "" {
		generated = fmt.Sprintf("%s%s.", p.Title, onSite(s))
	}
	return Metadata{
		Title:       title(s, first(o.Title, p.Title)),
		Description: first(o.Description, p.Description, generated, s.SiteDescription),
		Canonical:   Canonical(s.SiteURL, content.PagePath(p)),
		OGImage:     AbsURL(s.SiteURL, first(o.OGImage, s.DefaultOGImage)),
		OGType:      TypeWebsite,
		Keywords:    o.Keywords,
		NoIndex:     o.NoIndex || p.Status == content.StatusDraft,
	}
}

// Generator derives metadata by reading entries from a content source.
//
// In the default lenient mode every failure (unreadable settings, a missing
// entry, a collection that fails to load) produces Fallback and a nil
// error, which is what public pages want. With Strict set the underlying
// error is returned instead; a missing entry wraps content.ErrNotFound.
type Generator struct {
	Source content.Source
	Strict bool
	// Logger receives lenient-mode failures at debug level. Optional.
	Logger *zap.Logger
}

// Home returns the metadata of the home page.
func (g *Generator) Home(ctx context.Context) (Metadata, error) {
	s, err := g.settings(ctx)
	if err != nil {
		return g.fail(s, "home", err)
	}
	return ForHome(s), nil
}

// Post returns the metadata of the post whose slug or id is key.
func (g *Generator) Post(ctx context.Context, key string) (Metadata, error) {
	s, err := g.settings(ctx)
	if err != nil {
		return g.fail(s, "post", err)
	}

	var (
		posts      []content.Post
		authors    []content.Author
		categories []content.Category
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		posts, err = g.Source.Posts(ectx)
		return err
	})
	eg.Go(func() (err error) {
		authors, err = g.Source.Authors(ectx)
		return err
	})
	eg.Go(func() (err error) {
		categories, err = g.Source.Categories(ectx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return g.fail(s, "post", err)
	}

	p, ok := content.FindPost(posts, key)
	if !ok {
		return g.fail(s, "post", notFound("post", key))
	}
	author, _ := content.FindAuthor(authors, p.Author.String())
	category, _ := content.FindCategory(categories, p.Category.String())
	return ForPost(s, p, author, category), nil
}

// Category returns the metadata of the category whose id or slug is key.
func (g *Generator) Category(ctx context.Context, key string) (Metadata, error) {
	s, err := g.settings(ctx)
	if err != nil {
		return g.fail(s, "category", err)
	}
	categories, err := g.Source.Categories(ctx)
	if err != nil {
		return g.fail(s, "category", err)
	}
	c, ok := content.FindCategory(categories, key)
	if !ok {
		return g.fail(s, "category", notFound("category", key))
	}
	return ForCategory(s, c), nil
}

// Tag returns the metadata of the tag whose id or slug is key.
func (g *Generator) Tag(ctx context.Context, key string) (Metadata, error) {
	s, err := g.settings(ctx)
	if err != nil {
		return g.fail(s, "tag", err)
	}
	tags, err := g.Source.Tags(ctx)
	if err != nil {
		return g.fail(s, "tag", err)
	}
	t, ok := content.FindTag(tags, key)
	if !ok {
		return g.fail(s, "tag", notFound("tag", key))
	}
	return ForTag(s, t), nil
}

// Author returns the metadata of the author whose id or slug is key.
func (g *Generator) Author(ctx context.Context, key string) (Metadata, error) {
	s, err := g.settings(ctx)
	if err != nil {
		return g.fail(s, "author", err)
	}
	authors, err := g.Source.Authors(ctx)
	if err != nil {
		return g.fail(s, "author", err)
	}
	a, ok := content.FindAuthor(authors, key)
	if !ok {
		return g.fail(s, "author", notFound("author", key))
	}
	return ForAuthor(s, a), nil
}

// Page returns the metadata of the standalone page whose slug or id is key.
func (g *Generator) Page(ctx context.Context, key string) (Metadata, error) {
	s, err := g.settings(ctx)
	if err != nil {
		return g.fail(s, "page", err)
	}
	pages, err := g.Source.Pages(ctx)
	if err != nil {
		return g.fail(s, "page", err)
	}
	p, ok := content.FindPage(pages, key)
	if !ok {
		return g.fail(s, "page", notFound("page", key))
	}
	return ForPage(s, p), nil
}

func (g *Generator) settings(ctx context.Context) (content.Settings, error) {
	s, err := g.Source.Settings(ctx)
	if err != nil {
		return content.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return s, nil
}

func (g *Generator) fail(s content.Settings, kind string, err error) (Metadata, error) {
	if g.Strict {
		return Metadata{}, fmt.Errorf("seo %s: %w", kind, err)
	}
	if g.Logger != nil {
		g.Logger.Debug("seo fallback", zap.String("kind", kind), zap.Error(err))
	}
	return Fallback(s), nil
}

func notFound(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, content.ErrNotFound)
}

// IsNotFound reports whether err came from a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, content.ErrNotFound)
}

// Canonical joins siteURL and p and ensures a trailing slash.
func Canonical(siteURL, p string) string {
	u, err := url.Parse(siteURL)
	if err != nil {
		return siteURL
	}
	u.Path = path.Join("/", u.Path, p)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsURL resolves a site-relative asset path against siteURL. Absolute
// URLs and empty values are returned unchanged.
func AbsURL(siteURL, src string) string {
	if src == "" || siteURL == "" || strings.Contains(src, "://") || strings.HasPrefix(src, "//") {
		return src
	}
	return strings.TrimRight(siteURL, "/") + "/" + strings.TrimLeft(src, "/")
}

func title(s content.Settings, t string) string {
	switch {
	case t == "":
		return orDefault(s.SiteName, FallbackTitle)
	case s.SiteName == "" || t == s.SiteName:
		return t
	}
	return t + " | " + s.SiteName
}

func onSite(s content.Settings) string {
	if s.SiteName == "" {
		return ""
	}
	return " on " + s.SiteName
}

func keywords(o content.SEOOverride, name string) []string {
	if len(o.Keywords) > 0 {
		return o.Keywords
	}
	if name != "" {
		return []string{name}
	}
	return nil
}

func override(o *content.SEOOverride) content.SEOOverride {
	if o == nil {
		return content.SEOOverride{}
	}
	return *o
}

func first(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
