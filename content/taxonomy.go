package content

import "sort"

// Public route prefixes. Listing pages beyond the first append "/{n}".
const (
	BlogPath     = "/blog"
	CategoryBase = "/category"
	TagBase      = "/tag"
	AuthorBase   = "/author"
)

// CategoryPath returns the listing path of a category.
func CategoryPath(c Category) string { return CategoryBase + "/" + c.Slug }

// TagPath returns the listing path of a tag.
func TagPath(t Tag) string { return TagBase + "/" + t.Slug }

// AuthorPath returns the listing path of an author.
func AuthorPath(a Author) string { return AuthorBase + "/" + a.Slug }

// PostPath returns the path of a post.
func PostPath(p Post) string { return BlogPath + "/" + p.Slug }

// PagePath returns the path of a standalone page.
func PagePath(p Page) string { return "/" + p.Slug }

// Counted pairs an entry with the number of published posts referencing it.
type Counted[T any] struct {
	Item  T   `json:"item"`
	Count int `json:"count"`
}

// CategoriesWithCounts returns the categories that have published posts,
// most posts first. Ties keep collection order.
func CategoriesWithCounts(s *Snapshot) []Counted[Category] {
	idx := s.Index()
	return withCounts(s.Categories, func(c Category) int { return len(idx.PostsByCategory(c.ID)) }, true)
}

// TagsWithCounts returns the tags that have published posts, most posts
// first. Ties keep collection order.
func TagsWithCounts(s *Snapshot) []Counted[Tag] {
	idx := s.Index()
	return withCounts(s.Tags, func(t Tag) int { return len(idx.PostsByTag(t.ID)) }, true)
}

// AuthorsWithCounts returns every author with their published post count,
// most posts first. Authors without posts are kept.
func AuthorsWithCounts(s *Snapshot) []Counted[Author] {
	idx := s.Index()
	return withCounts(s.Authors, func(a Author) int { return len(idx.PostsByAuthor(a.ID)) }, false)
}

// AffiliateCategoriesWithCounts returns every affiliate category with its
// active product count, in collection order.
func AffiliateCategoriesWithCounts(s *Snapshot) []Counted[AffiliateCategory] {
	idx := s.Index()
	out := make([]Counted[AffiliateCategory], 0, len(s.AffiliateCategories))
	for _, c := range s.AffiliateCategories {
		out = append(out, Counted[AffiliateCategory]{Item: c, Count: len(idx.ProductsByCategory(c.ID))})
	}
	return out
}

func withCounts[T any](items []T, count func(T) int, skipEmpty bool) []Counted[T] {
	out := make([]Counted[T], 0, len(items))
	for _, it := range items {
		n := count(it)
		if skipEmpty && n == 0 {
			continue
		}
		out = append(out, Counted[T]{Item: it, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Path kinds reported by the path listings.
const (
	KindHome     = "home"
	KindBlog     = "blog"
	KindPost     = "post"
	KindCategory = "category"
	KindTag      = "tag"
	KindAuthor   = "author"
	KindPage     = "page"
)

// PathEntry is one route a static build of the site emits.
type PathEntry struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Key      string `json:"key,omitempty"`
	PageNum  int    `json:"page,omitempty"`
	Total    int    `json:"total"`
	LastPage int    `json:"lastPage,omitempty"`
}

// listingPaths emits one entry per page of a listing. An empty listing
// still gets its first page.
func listingPaths(kind, key, base string, total, perPage int) []PathEntry {
	last := TotalPages(total, perPage)
	pages := last
	if pages == 0 {
		pages = 1
	}
	out := make([]PathEntry, 0, pages)
	for n := 1; n <= pages; n++ {
		out = append(out, PathEntry{Path: PageURL(base, n), Kind: kind, Key: key, PageNum: n, Total: total, LastPage: last})
	}
	return out
}

// CategoryPaths lists every page of every category listing, including
// categories without posts.
func CategoryPaths(s *Snapshot, perPage int) []PathEntry {
	idx := s.Index()
	var out []PathEntry
	for _, c := range s.Categories {
		out = append(out, listingPaths(KindCategory, c.Slug, CategoryPath(c), len(idx.PostsByCategory(c.ID)), perPage)...)
	}
	return out
}

// TagPaths lists every page of every tag listing, including tags without
// posts.
func TagPaths(s *Snapshot, perPage int) []PathEntry {
	idx := s.Index()
	var out []PathEntry
	for _, t := range s.Tags {
		out = append(out, listingPaths(KindTag, t.Slug, TagPath(t), len(idx.PostsByTag(t.ID)), perPage)...)
	}
	return out
}

// AuthorPaths lists every page of every author listing.
func AuthorPaths(s *Snapshot, perPage int) []PathEntry {
	idx := s.Index()
	var out []PathEntry
	for _, a := range s.Authors {
		out = append(out, listingPaths(KindAuthor, a.Slug, AuthorPath(a), len(idx.PostsByAuthor(a.ID)), perPage)...)
	}
	return out
}

// AllPaths lists every route of the public site: home, blog pages, posts,
// taxonomy pages and published standalone pages.
func AllPaths(s *Snapshot, perPage int) []PathEntry {
	posts := s.PublishedPosts()
	out := []PathEntry{{Path: "/", Kind: KindHome, Total: len(posts)}}
	out = append(out, listingPaths(KindBlog, "", BlogPath, len(posts), perPage)...)
	for _, p := range posts {
		out = append(out, PathEntry{Path: PostPath(p), Kind: KindPost, Key: p.Slug, Total: 1})
	}
	out = append(out, CategoryPaths(s, perPage)...)
	out = append(out, TagPaths(s, perPage)...)
	out = append(out, AuthorPaths(s, perPage)...)
	for _, p := range s.Pages {
		if p.Status == StatusPublished {
			out = append(out, PathEntry{Path: PagePath(p), Kind: KindPage, Key: p.Slug, Total: 1})
		}
	}
	return out
}
