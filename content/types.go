// Package content holds the collections of an inkwell site (posts, authors,
// categories, tags, pages, affiliate products and the settings singleton)
// together with the queries the site and the API run over them.
package content

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entry does not exist.
var ErrNotFound = errors.New("content: not found")

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Affiliate product statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// SEOOverride is an optional per-entry block that takes precedence over
// generated metadata.
type SEOOverride struct {
	Title       string   `json:"title,omitempty" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords"`
	OGImage     string   `json:"ogImage,omitempty" yaml:"ogImage"`
	NoIndex     bool     `json:"noIndex,omitempty" yaml:"noIndex"`
}

// Image is a post or product image. A bare string decodes into Src.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Post is a blog post loaded from posts/*.md.
type Post struct {
	ID          string       `json:"id"`
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PubDate     time.Time    `json:"pubDate"`
	UpdatedDate *time.Time   `json:"updatedDate,omitempty"`
	Status      string       `json:"status"`
	Author      Ref          `json:"author"`
	Category    Ref          `json:"category"`
	Tags        []Ref        `json:"tags"`
	Image       *Image       `json:"image,omitempty"`
	Featured    bool         `json:"featured"`
	SEO         *SEOOverride `json:"seo,omitempty"`
	Body        string       `json:"body,omitempty"`
}

// Published reports whether the post is publicly visible.
func (p Post) Published() bool {
	return p.Status == StatusPublished
}

// LastModified returns the updated date when set, else the publish date.
func (p Post) LastModified() time.Time {
	if p.UpdatedDate != nil && !p.UpdatedDate.IsZero() {
		return *p.UpdatedDate
	}
	return p.PubDate
}

// Social holds profile links.
type Social struct {
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// Author is a post author loaded from authors/*.json.
type Author struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Slug    string       `json:"slug"`
	Bio     string       `json:"bio,omitempty"`
	Avatar  string       `json:"avatar,omitempty"`
	Email   string       `json:"email,omitempty"`
	Website string       `json:"website,omitempty"`
	Social  Social       `json:"social"`
	SEO     *SEOOverride `json:"seo,omitempty"`
}

// Category groups posts; each post references exactly one.
type Category struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	SEO         *SEOOverride `json:"seo,omitempty"`
}

// Tag labels posts; a post references any number of tags.
type Tag struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	SEO         *SEOOverride `json:"seo,omitempty"`
}

// Page is a standalone page such as a privacy policy or terms of service.
type Page struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type"`
	Status      string       `json:"status"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Body        string       `json:"content,omitempty"`
	SEO         *SEOOverride `json:"seo,omitempty"`
}

// AffiliateCategory groups affiliate products.
type AffiliateCategory struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Icon        string       `json:"icon,omitempty"`
	Featured    bool         `json:"featured"`
	SEO         *SEOOverride `json:"seo,omitempty"`
}

// AffiliateProduct is a reviewed product with an outbound affiliate link.
type AffiliateProduct struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Category    Ref               `json:"category"`
	Brand       string            `json:"brand,omitempty"`
	Description string            `json:"description,omitempty"`
	Price       float64           `json:"price"`
	Currency    string            `json:"currency,omitempty"`
	Rating      float64           `json:"rating"`
	URL         string            `json:"url"`
	Image       *Image            `json:"image,omitempty"`
	Pros        []string          `json:"pros,omitempty"`
	Cons        []string          `json:"cons,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
	Featured    bool              `json:"featured"`
	Status      string            `json:"status"`
}

// Active reports whether the product is listed.
func (p AffiliateProduct) Active() bool {
	return p.Status != StatusInactive
}

// RSSSettings controls the /rss.xml feed.
type RSSSettings struct {
	Enabled     bool   `json:"enabled"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	FullContent bool   `json:"fullContent,omitempty"`
}

// ThemeSettings is carried as data for the dashboard; nothing here renders it.
type ThemeSettings struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	AccentColor  string `json:"accentColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

// Settings is the site-wide singleton loaded from settings/settings.json.
type Settings struct {
	SiteName        string        `json:"siteName"`
	SiteURL         string        `json:"siteUrl"`
	SiteDescription string        `json:"siteDescription"`
	Language        string        `json:"language,omitempty"`
	DefaultOGImage  string        `json:"defaultOgImage,omitempty"`
	PostsPerPage    int           `json:"postsPerPage,omitempty"`
	Social          Social        `json:"social"`
	RSS             RSSSettings   `json:"rss"`
	Theme           ThemeSettings `json:"theme"`
}

// PerPage returns the configured listing page size, defaulting to 10.
func (s Settings) PerPage() int {
	if s.PostsPerPage > 0 {
		return s.PostsPerPage
	}
	return 10
}
