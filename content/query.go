package content

import (
	"math"
	"sort"
	"strings"
)

// WordsPerMinute is the reading speed ReadingTime assumes.
const WordsPerMinute = 200

// AllPosts returns the published posts, newest first. Posts sharing a
// publish date keep their collection order.
func AllPosts(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Published() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	return out
}

// FeaturedPosts returns the featured posts among posts, keeping their order,
// truncated to limit when limit is positive.
func FeaturedPosts(posts []Post, limit int) []Post {
	var out []Post
	for _, p := range posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return truncate(out, limit)
}

// ReadingTime estimates minutes to read text at WordsPerMinute, never less
// than one minute.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PostFilter selects posts for listings. Zero fields do not filter.
type PostFilter struct {
	Search   string
	Category string // category id or slug
	Tag      string // tag id or slug
	Author   string // author id or slug
	Featured *bool
	Status   string // StatusDraft, StatusPublished, or "" / "all"
}

// Apply returns the posts of s matching f, keeping their order.
func (f PostFilter) Apply(s *Snapshot, posts []Post) []Post {
	categoryID := resolveKey(f.Category, func(k string) (string, bool) {
		c, ok := FindCategory(s.Categories, k)
		return c.ID, ok
	})
	tagID := resolveKey(f.Tag, func(k string) (string, bool) {
		t, ok := FindTag(s.Tags, k)
		return t.ID, ok
	})
	authorID := resolveKey(f.Author, func(k string) (string, bool) {
		a, ok := FindAuthor(s.Authors, k)
		return a.ID, ok
	})
	search := strings.ToLower(strings.TrimSpace(f.Search))
	status := strings.ToLower(strings.TrimSpace(f.Status))

	var out []Post
	for _, p := range posts {
		if status != "" && status != "all" && p.Status != status {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if categoryID != "" && p.Category.String() != categoryID {
			continue
		}
		if tagID != "" && !refsContain(p.Tags, tagID) {
			continue
		}
		if authorID != "" && p.Author.String() != authorID {
			continue
		}
		if search != "" && !MatchesSearch(search, p.Title, p.Description) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// resolveKey maps an id-or-slug to an id; unknown keys are kept verbatim so
// that references to missing entries still filter.
func resolveKey(key string, find func(string) (string, bool)) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if id, ok := find(key); ok {
		return id
	}
	return key
}

// MatchesSearch reports whether any field contains the lowercase needle,
// ignoring case.
func MatchesSearch(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// SortPosts orders posts in place by field ("pubDate", "updatedDate" or
// "title"). Unknown fields sort by publish date.
func SortPosts(posts []Post, field string, desc bool) {
	var less func(a, b Post) bool
	switch field {
	case "title":
		less = func(a, b Post) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case "updatedDate":
		less = func(a, b Post) bool { return a.LastModified().Before(b.LastModified()) }
	default:
		less = func(a, b Post) bool { return a.PubDate.Before(b.PubDate) }
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if desc {
			return less(posts[j], posts[i])
		}
		return less(posts[i], posts[j])
	})
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
