package inkwell

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/markdown"
	"github.com/eringen/inkwell/seo"
)

// Machine-readable error codes.
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeNotFound          = "NOT_FOUND"
	CodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternalError     = "INTERNAL_ERROR"
	excerptLength         = 160
	relatedPostsLimit     = 3
	defaultComparisonSize = 5
	statsTopN             = 5
)

// Envelope wraps every successful API response.
type Envelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data"`
	Pagination *Pagination    `json:"pagination,omitempty"`
	Filters    map[string]any `json:"filters,omitempty"`
	Timestamp  int64          `json:"timestamp"`
}

// Pagination describes the page of a list response.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ErrorResponse is the body of every failed API response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PostSummary is a post with its references resolved, as listed by the API.
type PostSummary struct {
	content.ResolvedPost
	ReadingTime int    `json:"readingTime"`
	Excerpt     string `json:"excerpt,omitempty"`
	URL         string `json:"url"`
}

// PostDetail adds the rendered body, related posts and SEO metadata.
type PostDetail struct {
	PostSummary
	ContentHTML string        `json:"contentHtml"`
	Related     []PostSummary `json:"related"`
	SEO         seo.Metadata  `json:"seo"`
}

type CategoryItem struct {
	content.Category
	PostCount int    `json:"postCount"`
	URL       string `json:"url"`
}

type TagItem struct {
	content.Tag
	PostCount int    `json:"postCount"`
	URL       string `json:"url"`
}

type AuthorItem struct {
	content.Author
	PostCount int    `json:"postCount"`
	URL       string `json:"url"`
}

type PageItem struct {
	content.Page
	URL string `json:"url"`
}

type AffiliateCategoryItem struct {
	content.AffiliateCategory
	ProductCount int `json:"productCount"`
}

// Stats summarizes the site for the dashboard home.
type Stats struct {
	Posts               PostStats                            `json:"posts"`
	Authors             int                                  `json:"authors"`
	Categories          int                                  `json:"categories"`
	Tags                int                                  `json:"tags"`
	Pages               int                                  `json:"pages"`
	AffiliateCategories int                                  `json:"affiliateCategories"`
	AffiliateProducts   ProductStats                         `json:"affiliateProducts"`
	TopCategories       []content.Counted[content.Category] `json:"topCategories"`
	TopTags             []content.Counted[content.Tag]      `json:"topTags"`
	LatestPost          *PostSummary                         `json:"latestPost,omitempty"`
	DanglingRefs        []content.DanglingRef                `json:"danglingRefs"`
}

type PostStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
	Featured  int `json:"featured"`
}

type ProductStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

func (a *App) handleError(c echo.Context, err error, status int, code, message string) error {
	resp := ErrorResponse{Error: message, Code: code}
	if status >= http.StatusInternalServerError {
		a.Logger.Error("handleError", zap.Error(err), zap.Int("status", status), zap.String("message", message),
			zap.String("uri", c.Request().RequestURI))
		if err != nil {
			resp.Details = err.Error()
		}
	} else {
		a.Logger.Debug("handleError", zap.Error(err), zap.Int("status", status), zap.String("message", message))
	}
	return c.JSON(status, resp)
}

func (a *App) internalError(c echo.Context, err error) error {
	return a.handleError(c, err, http.StatusInternalServerError, CodeInternalError, "Internal server error")
}

func respond(c echo.Context, data any, pagination *Pagination, filters map[string]any) error {
	return c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Data:       data,
		Pagination: pagination,
		Filters:    filters,
		Timestamp:  time.Now().UnixMilli(),
	})
}

func (a *App) summarize(s *content.Snapshot, p content.Post) PostSummary {
	rp := s.Index().Resolve(p)
	body := rp.Body
	rp.Body = ""
	return PostSummary{
		ResolvedPost: rp,
		ReadingTime:  content.ReadingTime(markdown.PlainText(body)),
		Excerpt:      markdown.Excerpt(body, excerptLength),
		URL:          seo.Canonical(a.siteURL(s), content.PostPath(p)),
	}
}

// handlePosts handles GET /api/posts.json
// @Summary List posts
// @Description Lists posts with search, taxonomy, featured and status filters. Drafts are included unless status is set.
// @Tags posts
// @Produce json
// @Param search query string false "Match title or description"
// @Param category query string false "Category id or slug"
// @Param tag query string false "Tag id or slug"
// @Param author query string false "Author id or slug"
// @Param featured query bool false "Featured flag"
// @Param status query string false "published, draft or all (default all)"
// @Param sortBy query string false "pubDate (default), title or updatedDate"
// @Param sortOrder query string false "asc or desc (default desc)"
// @Param page query int false "Page number (default: 1)"
// @Param perPage query int false "Page size (default: 10)"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/posts.json [get]
func (a *App) handlePosts(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	p := a.listParams(c, true, "pubDate", "title", "updatedDate")
	f := content.PostFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
		Author:   c.QueryParam("author"),
		Featured: queryBool(c, "featured"),
		Status:   c.QueryParam("status"),
	}
	if f.Status == "" {
		f.Status = "all"
	}

	posts := f.Apply(s, s.Posts)
	content.SortPosts(posts, p.SortBy, p.Desc)
	page, pagination := paginate(posts, p)

	data := make([]PostSummary, 0, len(page))
	for _, post := range page {
		data = append(data, a.summarize(s, post))
	}

	filters := p.filters()
	setFilter(filters, "search", f.Search)
	setFilter(filters, "category", f.Category)
	setFilter(filters, "tag", f.Tag)
	setFilter(filters, "author", f.Author)
	setFilter(filters, "featured", f.Featured)
	setFilter(filters, "status", f.Status)
	return respond(c, data, pagination, filters)
}

// handlePost handles GET /api/posts/{slug}.json
// @Summary Get a post
// @Description Returns one post (published or draft) by slug or id, with resolved references, rendered HTML, related posts and SEO metadata
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,404,429,500 {object} inkwell.ErrorResponse
// @Router /api/posts/{slug}.json [get]
func (a *App) handlePost(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	key := trimJSON(c.Param("slug"))
	post, ok := content.FindPost(s.Posts, key)
	if !ok {
		return a.handleError(c, nil, http.StatusNotFound, CodeNotFound, "Post not found")
	}

	html, err := RenderString(c.Request().Context(), markdown.Markdown(post.Body))
	if err != nil {
		return a.internalError(c, err)
	}

	detail := PostDetail{
		PostSummary: a.summarize(s, post),
		ContentHTML: html,
		Related:     []PostSummary{},
	}
	detail.Body = post.Body
	for _, r := range content.RelatedPosts(post, s.PublishedPosts(), relatedPostsLimit) {
		detail.Related = append(detail.Related, a.summarize(s, r))
	}
	settings := s.Settings
	if u := a.siteURL(s); u != "" {
		settings.SiteURL = u
	}
	detail.SEO = seo.ForPost(settings, post, detail.AuthorEntry, detail.CategoryEntry)
	return respond(c, detail, nil, nil)
}

// handleCategories handles GET /api/categories.json
// @Summary List categories
// @Description Lists every category, including those without published posts. Pass hasPosts=true to drop empty ones.
// @Tags taxonomy
// @Produce json
// @Param search query string false "Match name or description"
// @Param hasPosts query bool false "Only categories with (or without) published posts"
// @Param sortBy query string false "name (default), postCount or slug"
// @Param sortOrder query string false "asc (default) or desc"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/categories.json [get]
func (a *App) handleCategories(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	p := a.listParams(c, false, "name", "postCount", "slug")
	search := c.QueryParam("search")
	hasPosts := queryBool(c, "hasPosts")
	idx := s.Index()
	site := a.siteURL(s)

	items := make([]CategoryItem, 0, len(s.Categories))
	for _, cat := range s.Categories {
		n := len(idx.PostsByCategory(cat.ID))
		if hasPosts != nil && (n > 0) != *hasPosts {
			continue
		}
		if search != "" && !content.MatchesSearch(search, cat.Name, cat.Description) {
			continue
		}
		items = append(items, CategoryItem{Category: cat, PostCount: n, URL: seo.Canonical(site, content.CategoryPath(cat))})
	}
	switch p.SortBy {
	case "postCount":
		sortItems(items, p.Desc, func(a, b CategoryItem) bool { return a.PostCount < b.PostCount })
	case "slug":
		sortItems(items, p.Desc, func(a, b CategoryItem) bool { return a.Slug < b.Slug })
	default:
		sortItems(items, p.Desc, func(a, b CategoryItem) bool { return lower(a.Name) < lower(b.Name) })
	}
	page, pagination := paginate(items, p)

	filters := p.filters()
	setFilter(filters, "search", search)
	setFilter(filters, "hasPosts", hasPosts)
	return respond(c, page, pagination, filters)
}

// handleTags handles GET /api/tags.json
// @Summary List tags
// @Description Lists every tag, including those without published posts. Pass hasPosts=true to drop empty ones.
// @Tags taxonomy
// @Produce json
// @Param search query string false "Match name or description"
// @Param hasPosts query bool false "Only tags with (or without) published posts"
// @Param sortBy query string false "name (default), postCount or slug"
// @Param sortOrder query string false "asc (default) or desc"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/tags.json [get]
func (a *App) handleTags(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	p := a.listParams(c, false, "name", "postCount", "slug")
	search := c.QueryParam("search")
	hasPosts := queryBool(c, "hasPosts")
	idx := s.Index()
	site := a.siteURL(s)

	items := make([]TagItem, 0, len(s.Tags))
	for _, t := range s.Tags {
		n := len(idx.PostsByTag(t.ID))
		if hasPosts != nil && (n > 0) != *hasPosts {
			continue
		}
		if search != "" && !content.MatchesSearch(search, t.Name, t.Description) {
			continue
		}
		items = append(items, TagItem{Tag: t, PostCount: n, URL: seo.Canonical(site, content.TagPath(t))})
	}
	switch p.SortBy {
	case "postCount":
		sortItems(items, p.Desc, func(a, b TagItem) bool { return a.PostCount < b.PostCount })
	case "slug":
		sortItems(items, p.Desc, func(a, b TagItem) bool { return a.Slug < b.Slug })
	default:
		sortItems(items, p.Desc, func(a, b TagItem) bool { return lower(a.Name) < lower(b.Name) })
	}
	page, pagination := paginate(items, p)

	filters := p.filters()
	setFilter(filters, "search", search)
	setFilter(filters, "hasPosts", hasPosts)
	return respond(c, page, pagination, filters)
}

// handleAuthors handles GET /api/authors.json
// @Summary List authors
// @Tags authors
// @Produce json
// @Param search query string false "Match name or bio"
// @Param sortBy query string false "name (default) or postCount"
// @Param sortOrder query string false "asc (default) or desc"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/authors.json [get]
func (a *App) handleAuthors(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	p := a.listParams(c, false, "name", "postCount")
	search := c.QueryParam("search")
	idx := s.Index()
	site := a.siteURL(s)

	items := make([]AuthorItem, 0, len(s.Authors))
	for _, au := range s.Authors {
		if search != "" && !content.MatchesSearch(search, au.Name, au.Bio) {
			continue
		}
		items = append(items, AuthorItem{Author: au, PostCount: len(idx.PostsByAuthor(au.ID)), URL: seo.Canonical(site, content.AuthorPath(au))})
	}
	if p.SortBy == "postCount" {
		sortItems(items, p.Desc, func(a, b AuthorItem) bool { return a.PostCount < b.PostCount })
	} else {
		sortItems(items, p.Desc, func(a, b AuthorItem) bool { return lower(a.Name) < lower(b.Name) })
	}
	page, pagination := paginate(items, p)

	filters := p.filters()
	setFilter(filters, "search", search)
	return respond(c, page, pagination, filters)
}

// handlePages handles GET /api/pages.json
// @Summary List standalone pages
// @Tags pages
// @Produce json
// @Param search query string false "Match title or description"
// @Param type query string false "Page type, e.g. legal"
// @Param status query string false "published or draft"
// @Param sortBy query string false "title (default) or lastUpdated"
// @Param sortOrder query string false "asc (default) or desc"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/pages.json [get]
func (a *App) handlePages(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	p := a.listParams(c, false, "title", "lastUpdated")
	search := c.QueryParam("search")
	typ := c.QueryParam("type")
	status := c.QueryParam("status")
	site := a.siteURL(s)

	items := make([]PageItem, 0, len(s.Pages))
	for _, pg := range s.Pages {
		if typ != "" && !strings.EqualFold(pg.Type, typ) {
			continue
		}
		if status != "" && status != "all" && pg.Status != status {
			continue
		}
		if search != "" && !content.MatchesSearch(search, pg.Title, pg.Description) {
			continue
		}
		items = append(items, PageItem{Page: pg, URL: seo.Canonical(site, content.PagePath(pg))})
	}
	if p.SortBy == "lastUpdated" {
		sortItems(items, p.Desc, func(a, b PageItem) bool { return a.LastUpdated.Before(b.LastUpdated) })
	} else {
		sortItems(items, p.Desc, func(a, b PageItem) bool { return lower(a.Title) < lower(b.Title) })
	}
	page, pagination := paginate(items, p)

	filters := p.filters()
	setFilter(filters, "search", search)
	setFilter(filters, "type", typ)
	setFilter(filters, "status", status)
	return respond(c, page, pagination, filters)
}

// handleAffiliateCategories handles GET /api/affiliate-categories.json
// @Summary List affiliate categories
// @Tags affiliate
// @Produce json
// @Param search query string false "Match name or description"
// @Param featured query bool false "Featured flag"
// @Param sortBy query string false "name (default) or productCount"
// @Param sortOrder query string false "asc (default) or desc"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/affiliate-categories.json [get]
func (a *App) handleAffiliateCategories(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	p := a.listParams(c, false, "name", "productCount")
	search := c.QueryParam("search")
	featured := queryBool(c, "featured")

	items := make([]AffiliateCategoryItem, 0, len(s.AffiliateCategories))
	for _, cc := range content.AffiliateCategoriesWithCounts(s) {
		if featured != nil && cc.Item.Featured != *featured {
			continue
		}
		if search != "" && !content.MatchesSearch(search, cc.Item.Name, cc.Item.Description) {
			continue
		}
		items = append(items, AffiliateCategoryItem{AffiliateCategory: cc.Item, ProductCount: cc.Count})
	}
	if p.SortBy == "productCount" {
		sortItems(items, p.Desc, func(a, b AffiliateCategoryItem) bool { return a.ProductCount < b.ProductCount })
	} else {
		sortItems(items, p.Desc, func(a, b AffiliateCategoryItem) bool { return lower(a.Name) < lower(b.Name) })
	}
	page, pagination := paginate(items, p)

	filters := p.filters()
	setFilter(filters, "search", search)
	setFilter(filters, "featured", featured)
	return respond(c, page, pagination, filters)
}

// handleAffiliateProducts handles GET /api/affiliate-products/{category}.json
// @Summary List the active products of an affiliate category
// @Tags affiliate
// @Produce json
// @Param category path string true "Affiliate category id or slug"
// @Param search query string false "Match name, brand or description"
// @Param brand query string false "Brand, case-insensitive"
// @Param featured query bool false "Featured flag"
// @Param minRating query number false "Minimum rating"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param sortBy query string false "rating (default), price or name"
// @Param sortOrder query string false "asc or desc (default desc)"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,404,429,500 {object} inkwell.ErrorResponse
// @Router /api/affiliate-products/{category}.json [get]
func (a *App) handleAffiliateProducts(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	key := trimJSON(c.Param("category"))
	cat, ok := s.Index().AffiliateCategory(key)
	if !ok {
		return a.handleError(c, nil, http.StatusNotFound, CodeCategoryNotFound, "Affiliate category not found")
	}

	p := a.listParams(c, true, "rating", "price", "name")
	f := content.ProductFilter{
		Search:   c.QueryParam("search"),
		Brand:    c.QueryParam("brand"),
		Featured: queryBool(c, "featured"),
		MinPrice: queryFloat(c, "minPrice"),
		MaxPrice: queryFloat(c, "maxPrice"),
	}
	minRating := queryFloat(c, "minRating")
	if minRating != nil {
		f.MinRating = *minRating
	}

	products := f.Apply(s.Index().ProductsByCategory(cat.ID))
	content.SortProducts(products, p.SortBy, p.Desc)
	page, pagination := paginate(products, p)

	filters := p.filters()
	filters["category"] = cat.Slug
	setFilter(filters, "search", f.Search)
	setFilter(filters, "brand", f.Brand)
	setFilter(filters, "featured", f.Featured)
	setFilter(filters, "minRating", minRating)
	setFilter(filters, "minPrice", f.MinPrice)
	setFilter(filters, "maxPrice", f.MaxPrice)
	return respond(c, page, pagination, filters)
}

// handleAffiliateComparison handles GET /api/affiliate-comparisons/{category}.json
// @Summary Compare the best rated products of an affiliate category
// @Tags affiliate
// @Produce json
// @Param category path string true "Affiliate category id or slug"
// @Param limit query int false "Number of products (default: 5)"
// @Success 200 {object} inkwell.Envelope
// @Failure 401,404,429,500 {object} inkwell.ErrorResponse
// @Router /api/affiliate-comparisons/{category}.json [get]
func (a *App) handleAffiliateComparison(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	key := trimJSON(c.Param("category"))
	cat, ok := s.Index().AffiliateCategory(key)
	if !ok {
		return a.handleError(c, nil, http.StatusNotFound, CodeCategoryNotFound, "Affiliate category not found")
	}
	limit := queryInt(c, "limit", defaultComparisonSize)
	if limit > a.Config.API.MaxPerPage {
		limit = a.Config.API.MaxPerPage
	}
	return respond(c, content.Compare(s, cat, limit), nil, map[string]any{"category": cat.Slug, "limit": limit})
}

// handleSettings handles GET /api/settings.json
// @Summary Get site settings
// @Tags settings
// @Produce json
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/settings.json [get]
func (a *App) handleSettings(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	return respond(c, s.Settings, nil, nil)
}

// handleStats handles GET /api/stats.json
// @Summary Dashboard totals
// @Tags stats
// @Produce json
// @Success 200 {object} inkwell.Envelope
// @Failure 401,429,500 {object} inkwell.ErrorResponse
// @Router /api/stats.json [get]
func (a *App) handleStats(c echo.Context) error {
	s, err := a.snapshot(c)
	if err != nil {
		return a.internalError(c, err)
	}
	st := Stats{
		Authors:             len(s.Authors),
		Categories:          len(s.Categories),
		Tags:                len(s.Tags),
		Pages:               len(s.Pages),
		AffiliateCategories: len(s.AffiliateCategories),
		TopCategories:       top(content.CategoriesWithCounts(s), statsTopN),
		TopTags:             top(content.TagsWithCounts(s), statsTopN),
		DanglingRefs:        s.Index().DanglingRefs(s.Posts),
	}
	for _, p := range s.Posts {
		st.Posts.Total++
		if p.Published() {
			st.Posts.Published++
		} else {
			st.Posts.Drafts++
		}
		if p.Featured {
			st.Posts.Featured++
		}
	}
	for _, p := range s.AffiliateProducts {
		st.AffiliateProducts.Total++
		if p.Active() {
			st.AffiliateProducts.Active++
		}
	}
	if published := s.PublishedPosts(); len(published) > 0 {
		latest := a.summarize(s, published[0])
		st.LatestPost = &latest
	}
	if st.DanglingRefs == nil {
		st.DanglingRefs = []content.DanglingRef{}
	}
	return respond(c, st, nil, nil)
}

func top[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func lower(s string) string { return strings.ToLower(s) }
