package content

import (
	"sort"
	"strings"
)

// Fallback names used when a post reference does not resolve.
const (
	UnknownAuthorName = "Unknown"
	UncategorizedName = "Uncategorized"
	uncategorizedID   = "uncategorized"
	unknownAuthorID   = "unknown"
)

// Index is built once per snapshot and maps ids to entries and to the
// published posts that reference them, so lookups do not rescan the
// collections.
type Index struct {
	published []Post

	authors    map[string]Author
	categories map[string]Category
	tags       map[string]Tag
	affCats    map[string]AffiliateCategory

	byAuthor   map[string][]Post
	byCategory map[string][]Post
	byTag      map[string][]Post
	products   map[string][]AffiliateProduct
}

// NewIndex indexes the snapshot's collections.
func NewIndex(s *Snapshot) *Index {
	idx := &Index{
		published:  AllPosts(s.Posts),
		authors:    make(map[string]Author, len(s.Authors)),
		categories: make(map[string]Category, len(s.Categories)),
		tags:       make(map[string]Tag, len(s.Tags)),
		affCats:    make(map[string]AffiliateCategory, len(s.AffiliateCategories)),
		byAuthor:   make(map[string][]Post),
		byCategory: make(map[string][]Post),
		byTag:      make(map[string][]Post),
		products:   make(map[string][]AffiliateProduct),
	}
	for _, a := range s.Authors {
		idx.authors[a.ID] = a
	}
	for _, c := range s.Categories {
		idx.categories[c.ID] = c
	}
	for _, t := range s.Tags {
		idx.tags[t.ID] = t
	}
	for _, c := range s.AffiliateCategories {
		idx.affCats[c.ID] = c
	}
	for _, p := range idx.published {
		if !p.Author.IsZero() {
			idx.byAuthor[p.Author.String()] = append(idx.byAuthor[p.Author.String()], p)
		}
		if !p.Category.IsZero() {
			idx.byCategory[p.Category.String()] = append(idx.byCategory[p.Category.String()], p)
		}
		seen := make(map[Ref]bool, len(p.Tags))
		for _, t := range p.Tags {
			if t.IsZero() || seen[t] {
				continue
			}
			seen[t] = true
			idx.byTag[t.String()] = append(idx.byTag[t.String()], p)
		}
	}
	for _, p := range s.AffiliateProducts {
		if p.Active() {
			idx.products[p.Category.String()] = append(idx.products[p.Category.String()], p)
		}
	}
	return idx
}

// Author looks up an author by id.
func (idx *Index) Author(id Ref) (Author, bool) {
	a, ok := idx.authors[id.String()]
	return a, ok
}

// Category looks up a category by id.
func (idx *Index) Category(id Ref) (Category, bool) {
	c, ok := idx.categories[id.String()]
	return c, ok
}

// Tag looks up a tag by id.
func (idx *Index) Tag(id Ref) (Tag, bool) {
	t, ok := idx.tags[id.String()]
	return t, ok
}

// AffiliateCategory looks up an affiliate category by id or slug.
func (idx *Index) AffiliateCategory(key string) (AffiliateCategory, bool) {
	if c, ok := idx.affCats[key]; ok {
		return c, true
	}
	for _, c := range idx.affCats {
		if strings.EqualFold(c.Slug, key) {
			return c, true
		}
	}
	return AffiliateCategory{}, false
}

// PostsByAuthor returns the published posts written by id, newest first.
func (idx *Index) PostsByAuthor(id string) []Post { return idx.byAuthor[id] }

// PostsByCategory returns the published posts in category id, newest first.
func (idx *Index) PostsByCategory(id string) []Post { return idx.byCategory[id] }

// PostsByTag returns the published posts tagged id, newest first.
func (idx *Index) PostsByTag(id string) []Post { return idx.byTag[id] }

// ProductsByCategory returns the active products in affiliate category id.
func (idx *Index) ProductsByCategory(id string) []AffiliateProduct { return idx.products[id] }

// ResolvedPost is a post with its references looked up. Unresolvable
// references are replaced by fallback values rather than reported.
type ResolvedPost struct {
	Post
	AuthorEntry   Author   `json:"authorEntry"`
	CategoryEntry Category `json:"categoryEntry"`
	TagEntries    []Tag    `json:"tagEntries"`
}

// Resolve looks up the author, category and tags of p.
func (idx *Index) Resolve(p Post) ResolvedPost {
	rp := ResolvedPost{Post: p, TagEntries: make([]Tag, 0, len(p.Tags))}

	if a, ok := idx.Author(p.Author); ok {
		rp.AuthorEntry = a
	} else {
		rp.AuthorEntry = Author{ID: orDefault(p.Author.String(), unknownAuthorID), Name: UnknownAuthorName, Slug: unknownAuthorID}
	}
	if c, ok := idx.Category(p.Category); ok {
		rp.CategoryEntry = c
	} else {
		rp.CategoryEntry = Category{ID: orDefault(p.Category.String(), uncategorizedID), Name: UncategorizedName, Slug: uncategorizedID}
	}
	for _, ref := range p.Tags {
		if t, ok := idx.Tag(ref); ok {
			rp.TagEntries = append(rp.TagEntries, t)
			continue
		}
		rp.TagEntries = append(rp.TagEntries, Tag{ID: ref.String(), Name: ref.String(), Slug: ref.String()})
	}
	return rp
}

// FindPost returns the post whose slug or id equals key.
func FindPost(posts []Post, key string) (Post, bool) {
	for _, p := range posts {
		if p.Slug == key || p.ID == key {
			return p, true
		}
	}
	return Post{}, false
}

// FindCategory returns the category whose id or slug equals key.
func FindCategory(categories []Category, key string) (Category, bool) {
	for _, c := range categories {
		if c.ID == key || c.Slug == key {
			return c, true
		}
	}
	return Category{}, false
}

// FindTag returns the tag whose id or slug equals key.
func FindTag(tags []Tag, key string) (Tag, bool) {
	for _, t := range tags {
		if t.ID == key || t.Slug == key {
			return t, true
		}
	}
	return Tag{}, false
}

// FindAuthor returns the author whose id or slug equals key.
func FindAuthor(authors []Author, key string) (Author, bool) {
	for _, a := range authors {
		if a.ID == key || a.Slug == key {
			return a, true
		}
	}
	return Author{}, false
}

// FindPage returns the page whose slug or id equals key.
func FindPage(pages []Page, key string) (Page, bool) {
	for _, p := range pages {
		if p.Slug == key || p.ID == key {
			return p, true
		}
	}
	return Page{}, false
}

// DanglingRef describes a reference that points at nothing.
type DanglingRef struct {
	Post       string `json:"post"`
	Collection string `json:"collection"`
	Ref        string `json:"ref"`
}

// DanglingRefs lists every post reference (published or draft) that does
// not resolve, ordered by post id.
func (idx *Index) DanglingRefs(posts []Post) []DanglingRef {
	var out []DanglingRef
	for _, p := range posts {
		if _, ok := idx.Author(p.Author); !ok {
			out = append(out, DanglingRef{Post: p.ID, Collection: DirAuthors, Ref: p.Author.String()})
		}
		if _, ok := idx.Category(p.Category); !ok {
			out = append(out, DanglingRef{Post: p.ID, Collection: DirCategories, Ref: p.Category.String()})
		}
		for _, t := range p.Tags {
			if _, ok := idx.Tag(t); !ok {
				out = append(out, DanglingRef{Post: p.ID, Collection: DirTags, Ref: t.String()})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Post < out[j].Post })
	return out
}
