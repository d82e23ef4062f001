package inkwell

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/seo"
)

const sitemapDate = "2006-01-02"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// handleSitemap handles GET /sitemap.xml: every path of the public site,
// including taxonomy listings without posts.
func (a *App) handleSitemap(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(s))
}

func (a *App) buildSitemap(s *content.Snapshot) sitemapURLSet {
	base := a.siteURL(s)
	posts := s.PublishedPosts()
	var newest time.Time
	if len(posts) > 0 {
		newest = posts[0].LastModified()
	}
	bySlug := make(map[string]content.Post, len(posts))
	for _, p := range posts {
		bySlug[p.Slug] = p
	}
	pages := make(map[string]content.Page, len(s.Pages))
	for _, p := range s.Pages {
		pages[p.Slug] = p
	}

	paths := content.AllPaths(s, s.Settings.PerPage())
	urls := make([]sitemapURL, 0, len(paths))
	for _, entry := range paths {
		var mod time.Time
		switch entry.Kind {
		case content.KindHome, content.KindBlog:
			mod = newest
		case content.KindPost:
			mod = bySlug[entry.Key].LastModified()
		case content.KindPage:
			mod = pages[entry.Key].LastUpdated
		}
		u := sitemapURL{Loc: seo.Canonical(base, entry.Path)}
		if !mod.IsZero() {
			u.LastMod = mod.Format(sitemapDate)
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

// handleRobots handles GET /robots.txt.
func (a *App) handleRobots(c echo.Context) error {
	base := a.Config.Site.URL
	if base == "" {
		s, err := a.snapshot(c)
		if err != nil {
			return err
		}
		base = s.Settings.SiteURL
	}
	return c.String(http.StatusOK, robotsTxt(base))
}

func robotsTxt(siteURL string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", trimSlash(siteURL))
}
