package seo

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/eringen/inkwell/content"
)

// Thing is a schema.org JSON-LD object.
type Thing map[string]any

// JSON returns t as a JSON-LD string, or "{}" if it cannot be encoded.
func (t Thing) JSON() string {
	b, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func newThing(typ string) Thing {
	return Thing{"@context": "https://schema.org", "@type": typ}
}

// WebSite returns the WebSite schema of the site.
func WebSite(s content.Settings) Thing {
	t := newThing("WebSite")
	t["name"] = orDefault(s.SiteName, FallbackTitle)
	t["url"] = Canonical(s.SiteURL, "/")
	if s.SiteDescription != "" {
		t["description"] = s.SiteDescription
	}
	if s.Language != "" {
		t["inLanguage"] = s.Language
	}
	return t
}

// BlogPosting returns the BlogPosting schema of a post.
func BlogPosting(s content.Settings, p content.Post, author content.Author, category content.Category) Thing {
	postURL := Canonical(s.SiteURL, content.PostPath(p))
	t := newThing("BlogPosting")
	t["headline"] = p.Title
	t["description"] = p.Description
	t["url"] = postURL
	t["datePublished"] = p.PubDate.Format(time.RFC3339)
	t["dateModified"] = p.LastModified().Format(time.RFC3339)
	t["mainEntityOfPage"] = map[string]string{
		"@type": "WebPage",
		"@id":   postURL,
	}
	if author.Name != "" {
		t["author"] = map[string]string{
			"@type": "Person",
			"name":  author.Name,
			"url":   Canonical(s.SiteURL, content.AuthorPath(author)),
		}
	}
	if s.SiteName != "" {
		t["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  s.SiteName,
		}
	}
	if category.Name != "" {
		t["articleSection"] = category.Name
	}
	if p.Image != nil && p.Image.Src != "" {
		t["image"] = AbsURL(s.SiteURL, p.Image.Src)
	}
	if p.SEO != nil && len(p.SEO.Keywords) > 0 {
		t["keywords"] = strings.Join(p.SEO.Keywords, ", ")
	}
	return t
}

// Person returns the Person schema of an author.
func Person(s content.Settings, a content.Author) Thing {
	t := newThing("Person")
	t["name"] = a.Name
	t["url"] = Canonical(s.SiteURL, content.AuthorPath(a))
	if a.Bio != "" {
		t["description"] = a.Bio
	}
	if a.Avatar != "" {
		t["image"] = AbsURL(s.SiteURL, a.Avatar)
	}
	var sameAs []string
	for _, link := range []string{a.Website, a.Social.Twitter, a.Social.GitHub, a.Social.LinkedIn} {
		if link != "" {
			sameAs = append(sameAs, link)
		}
	}
	if len(sameAs) > 0 {
		t["sameAs"] = sameAs
	}
	return t
}

// CollectionPage returns the CollectionPage schema of a listing at path.
func CollectionPage(s content.Settings, name, description, path string) Thing {
	t := newThing("CollectionPage")
	t["name"] = name
	t["url"] = Canonical(s.SiteURL, path)
	if description != "" {
		t["description"] = description
	}
	if s.SiteName != "" {
		t["isPartOf"] = map[string]string{
			"@type": "WebSite",
			"name":  s.SiteName,
			"url":   Canonical(s.SiteURL, "/"),
		}
	}
	return t
}

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	Name string
	Path string
}

// BreadcrumbList returns the BreadcrumbList schema of crumbs, in order.
func BreadcrumbList(s content.Settings, crumbs ...Crumb) Thing {
	items := make([]map[string]any, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     Canonical(s.SiteURL, c.Path),
		})
	}
	t := newThing("BreadcrumbList")
	t["itemListElement"] = items
	return t
}
