package content

import "sort"

// Related-post weights.
const (
	sameCategoryScore = 3
	sharedTagScore    = 1
)

// Scored pairs a post with its relevance score.
type Scored struct {
	Post  Post `json:"post"`
	Score int  `json:"score"`
}

// ScoreRelated scores every other post against current: three points for
// the same category and one per shared tag. Posts scoring zero are dropped
// and the rest are ordered by score, ties keeping the order of posts.
func ScoreRelated(current Post, posts []Post) []Scored {
	tagSet := make(map[Ref]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		if !t.IsZero() {
			tagSet[t] = struct{}{}
		}
	}

	var scored []Scored
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		score := 0
		if !current.Category.IsZero() && p.Category == current.Category {
			score += sameCategoryScore
		}
		counted := make(map[Ref]bool, len(p.Tags))
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok && !counted[t] {
				counted[t] = true
				score += sharedTagScore
			}
		}
		if score > 0 {
			scored = append(scored, Scored{Post: p, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// RelatedPosts returns up to limit posts most related to current.
func RelatedPosts(current Post, posts []Post, limit int) []Post {
	scored := truncate(ScoreRelated(current, posts), limit)
	out := make([]Post, len(scored))
	for i, s := range scored {
		out[i] = s.Post
	}
	return out
}
