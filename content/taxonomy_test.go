package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesWithCountsUndercountsDanglingRefs(t *testing.T) {
	s := testSnapshot()

	got := CategoriesWithCounts(s)
	require.Len(t, got, 2, "python has no posts and is excluded")
	assert.Equal(t, "go", got[0].Item.ID)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "rust", got[1].Item.ID)
	assert.Equal(t, 1, got[1].Count)

	sum := 0
	for _, c := range got {
		sum += c.Count
	}
	published := len(s.PublishedPosts())
	assert.Equal(t, 4, published)
	assert.Equal(t, published-1, sum, "the post with an unknown category is not counted")
}

func TestTagsWithCounts(t *testing.T) {
	s := testSnapshot()
	got := TagsWithCounts(s)
	require.Len(t, got, 2)
	assert.Equal(t, "tutorial", got[0].Item.ID)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, "generics", got[1].Item.ID)
	assert.Equal(t, 1, got[1].Count, "draft posts are not counted")
}

func TestAuthorsWithCountsKeepsEmptyAuthors(t *testing.T) {
	s := testSnapshot()
	got := AuthorsWithCounts(s)
	require.Len(t, got, 3)
	assert.Equal(t, "jane", got[0].Item.ID)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "sam", got[1].Item.ID)
	assert.Equal(t, "lee", got[2].Item.ID)
	assert.Equal(t, 0, got[2].Count)
}

func TestCountsTieKeepsCollectionOrder(t *testing.T) {
	s := &Snapshot{
		Posts: []Post{
			{ID: "a", Status: StatusPublished, Category: "b"},
			{ID: "b", Status: StatusPublished, Category: "a"},
		},
		Categories: []Category{{ID: "a"}, {ID: "b"}},
	}
	got := CategoriesWithCounts(s)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Item.ID)
	assert.Equal(t, "b", got[1].Item.ID)
}

func TestCategoryPathsIncludeEmptyCategories(t *testing.T) {
	s := testSnapshot()
	got := CategoryPaths(s, 1)

	var paths []string
	for _, p := range got {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"/category/go", "/category/go/2", "/category/rust", "/category/python"}, paths)
	assert.Equal(t, 0, got[3].Total)
	assert.Equal(t, 0, got[3].LastPage)
}

func TestTagPaths(t *testing.T) {
	s := testSnapshot()
	got := TagPaths(s, 2)
	var paths []string
	for _, p := range got {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"/tag/tutorial", "/tag/tutorial/2", "/tag/generics", "/tag/empty"}, paths)
}

func TestAllPaths(t *testing.T) {
	s := testSnapshot()
	s.Pages = []Page{
		{ID: "privacy", Slug: "privacy", Status: StatusPublished},
		{ID: "wip", Slug: "wip", Status: StatusDraft},
	}
	got := AllPaths(s, 10)

	kinds := map[string]int{}
	for _, p := range got {
		kinds[p.Kind]++
	}
	assert.Equal(t, 1, kinds[KindHome])
	assert.Equal(t, 1, kinds[KindBlog])
	assert.Equal(t, 4, kinds[KindPost])
	assert.Equal(t, 3, kinds[KindCategory])
	assert.Equal(t, 3, kinds[KindTag])
	assert.Equal(t, 3, kinds[KindAuthor])
	assert.Equal(t, 1, kinds[KindPage])
	assert.Equal(t, "/privacy", got[len(got)-1].Path)
}
