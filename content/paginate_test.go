package content

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{5, 0, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPaginateLengthLaw(t *testing.T) {
	for total := 0; total <= 23; total++ {
		for size := 1; size <= 7; size++ {
			items := seq(total)
			last := TotalPages(total, size)
			for page := 1; page <= last+2; page++ {
				p := Paginate(items, page, size, "/blog")
				want := min(size, total-(page-1)*size)
				if want < 0 {
					want = 0
				}
				if len(p.Data) != want {
					t.Fatalf("total=%d size=%d page=%d: len(Data) = %d, want %d", total, size, page, len(p.Data), want)
				}
				if p.LastPage != last {
					t.Fatalf("total=%d size=%d: LastPage = %d, want %d", total, size, p.LastPage, last)
				}
				if p.Total != total {
					t.Fatalf("Total = %d, want %d", p.Total, total)
				}
			}
		}
	}
}

func TestPaginateURLs(t *testing.T) {
	items := seq(25)

	first := Paginate(items, 1, 10, "/blog")
	assert.Empty(t, first.URL.Prev, "page 1 has no prev")
	assert.Equal(t, "/blog/2", first.URL.Next)
	assert.Equal(t, "/blog", first.URL.Current)
	assert.Equal(t, "/blog", first.URL.First)
	assert.Equal(t, "/blog/3", first.URL.Last)

	second := Paginate(items, 2, 10, "/blog")
	assert.Equal(t, "/blog", second.URL.Prev, "page 2 links back to the bare base path")
	assert.Equal(t, "/blog/3", second.URL.Next)

	last := Paginate(items, 3, 10, "/blog")
	assert.Equal(t, "/blog/2", last.URL.Prev)
	assert.Empty(t, last.URL.Next, "last page has no next")
	assert.Equal(t, []int{21, 22, 23, 24, 25}, last.Data)
}

func TestPaginateMiddlePages(t *testing.T) {
	items := seq(50)
	for page := 2; page < 5; page++ {
		p := Paginate(items, page, 10, "/tag/go")
		require.True(t, p.HasPrev())
		require.True(t, p.HasNext())
		assert.Equal(t, PageURL("/tag/go", page-1), p.URL.Prev)
		assert.Equal(t, PageURL("/tag/go", page+1), p.URL.Next)
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]int{}, 1, 10, "/blog")
	want := Paged[int]{
		Data:        []int{},
		Size:        10,
		CurrentPage: 1,
		URL:         PageURLs{Current: "/blog"},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Paginate(empty) mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestPaginateClampsAndNonPositiveSize(t *testing.T) {
	p := Paginate(seq(3), 0, 2, "")
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, "/", p.URL.Current)
	assert.Equal(t, "/2", p.URL.Next)

	all := Paginate(seq(7), 1, 0, "/blog")
	assert.Len(t, all.Data, 7)
	assert.Equal(t, 1, all.LastPage)
	assert.Empty(t, all.URL.Next)
}

func TestPaginateFarPastTheEnd(t *testing.T) {
	for _, page := range []int{4, 1 << 40, math.MaxInt} {
		p := Paginate(seq(25), page, 10, "/blog")
		assert.Empty(t, p.Data, "page %d", page)
		assert.Equal(t, 25, p.Start)
		assert.Equal(t, 25, p.End)
		assert.Equal(t, 3, p.LastPage)
		assert.Equal(t, page, p.CurrentPage)
		assert.False(t, p.HasNext())
		assert.False(t, p.HasPrev())
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		base string
		n    int
		want string
	}{
		{"/blog", 1, "/blog"},
		{"/blog", 2, "/blog/2"},
		{"", 1, "/"},
		{"/category/go", 0, "/category/go"},
	}
	for _, tt := range tests {
		if got := PageURL(tt.base, tt.n); got != tt.want {
			t.Errorf("PageURL(%q, %d) = %q, want %q", tt.base, tt.n, got, tt.want)
		}
	}
}
