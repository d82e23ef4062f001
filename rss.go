package inkwell

import (
	"encoding/xml"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/markdown"
	"github.com/eringen/inkwell/media"
	"github.com/eringen/inkwell/seo"
)

const defaultFeedLimit = 20

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	XMLNSDC   string     `xml:"xmlns:dc,attr"`
	XMLNSCont string     `xml:"xmlns:content,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        rssGUID       `xml:"guid"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	Creator     string        `xml:"dc:creator,omitempty"`
	Categories  []string      `xml:"category"`
	Enclosure   *rssEnclosure `xml:"enclosure"`
	Content     *cdata        `xml:"content:encoded"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// handleRSS handles GET /rss.xml. The feed exists only when settings enable it.
func (a *App) handleRSS(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return err
	}
	if !s.Settings.RSS.Enabled {
		return echo.ErrNotFound
	}
	feed, err := a.buildFeed(c, s)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

func (a *App) buildFeed(c echo.Context, s *content.Snapshot) (rssXML, error) {
	settings := s.Settings
	base := a.siteURL(s)
	limit := settings.RSS.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	posts := top(s.PublishedPosts(), limit)
	idx := s.Index()

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		rp := idx.Resolve(p)
		postURL := seo.Canonical(base, content.PostPath(p))
		description := p.Description
		if description == "" {
			description = markdown.Excerpt(p.Body, 2*excerptLength)
		}
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			GUID:        rssGUID{IsPermaLink: true, Value: postURL},
			Description: description,
			PubDate:     p.PubDate.Format(time.RFC1123Z),
			Creator:     rp.AuthorEntry.Name,
			Enclosure:   a.enclosure(base, p.Image),
		}
		if !p.Category.IsZero() {
			item.Categories = append(item.Categories, rp.CategoryEntry.Name)
		}
		for _, t := range rp.TagEntries {
			item.Categories = append(item.Categories, t.Name)
		}
		if settings.RSS.FullContent {
			html, err := RenderString(c.Request().Context(), markdown.Markdown(p.Body))
			if err != nil {
				return rssXML{}, err
			}
			item.Content = &cdata{Text: html}
		}
		items = append(items, item)
	}

	channel := rssChannel{
		Title:       firstNonEmpty(settings.RSS.Title, settings.SiteName, seo.FallbackTitle),
		Link:        seo.Canonical(base, "/"),
		Description: firstNonEmpty(settings.RSS.Description, settings.SiteDescription),
		Language:    settings.Language,
		Items:       items,
	}
	if len(posts) > 0 {
		channel.LastBuildDate = posts[0].LastModified().Format(time.RFC1123Z)
	}
	return rssXML{
		Version:   "2.0",
		XMLNSDC:   "http://purl.org/dc/elements/1.1/",
		XMLNSCont: "http://purl.org/rss/1.0/modules/content/",
		Channel:   channel,
	}, nil
}

// enclosure describes a post image. Local files report their real size
// and type; remote or unreadable images fall back to the extension.
func (a *App) enclosure(base string, img *content.Image) *rssEnclosure {
	if img == nil || img.Src == "" {
		return nil
	}
	enc := &rssEnclosure{URL: seo.AbsURL(base, img.Src), Type: media.TypeByExtension(img.Src)}
	info, err := media.InspectSrc(a.Config.Site.PublicDir, img.Src)
	switch {
	case err == nil:
		enc.Length = info.Length
		enc.Type = info.MIME
	case !errors.Is(err, media.ErrRemote):
		a.Logger.Debug("feed image not inspected", zap.String("src", img.Src), zap.Error(err))
	}
	if enc.Type == "" {
		enc.Type = "application/octet-stream"
	}
	return enc
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
