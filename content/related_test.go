package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRelated(t *testing.T) {
	current := Post{ID: "cur", Category: "go", Tags: []Ref{"a", "b"}}
	posts := []Post{
		current,
		{ID: "cat-only", Category: "go"},
		{ID: "cat-and-tag", Category: "go", Tags: []Ref{"a"}},
		{ID: "two-tags", Category: "rust", Tags: []Ref{"b", "a"}},
		{ID: "unrelated", Category: "rust", Tags: []Ref{"z"}},
		{ID: "dup-tag", Category: "rust", Tags: []Ref{"a", "a"}},
	}

	got := ScoreRelated(current, posts)
	require.Len(t, got, 4)

	scores := map[string]int{}
	var order []string
	for _, s := range got {
		scores[s.Post.ID] = s.Score
		order = append(order, s.Post.ID)
	}
	assert.Equal(t, 3, scores["cat-only"])
	assert.Equal(t, 4, scores["cat-and-tag"])
	assert.Equal(t, 2, scores["two-tags"])
	assert.Equal(t, 1, scores["dup-tag"], "a repeated tag counts once")
	assert.Equal(t, []string{"cat-and-tag", "cat-only", "two-tags", "dup-tag"}, order)
}

func TestRelatedPostsCategoryPlusTagOutranksCategoryOnly(t *testing.T) {
	current := Post{ID: "cur", Category: "go", Tags: []Ref{"x"}}
	// The category-only post comes first in the collection; it must still
	// rank below the post that also shares a tag.
	posts := []Post{
		{ID: "cat-only", Category: "go"},
		{ID: "cat-tag", Category: "go", Tags: []Ref{"x"}},
	}
	got := RelatedPosts(current, posts, 10)
	assert.Equal(t, []string{"cat-tag", "cat-only"}, ids(got))
}

func TestRelatedPostsLimitAndExclusion(t *testing.T) {
	current := Post{ID: "cur", Category: "go"}
	posts := []Post{current, {ID: "a", Category: "go"}, {ID: "b", Category: "go"}, {ID: "c", Category: "go"}}

	got := RelatedPosts(current, posts, 2)
	assert.Equal(t, []string{"a", "b"}, ids(got), "ties keep collection order")

	assert.Empty(t, RelatedPosts(Post{ID: "lonely"}, posts, 3), "no category and no tags scores nothing")
}
