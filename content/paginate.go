package content

import "strconv"

// PageURLs are the navigation links of one page of a listing. Empty strings
// mean the link does not exist.
type PageURLs struct {
	Current string `json:"current"`
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
	First   string `json:"first,omitempty"`
	Last    string `json:"last,omitempty"`
}

// Paged is one page of an ordered listing.
type Paged[T any] struct {
	Data        []T      `json:"data"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Size        int      `json:"size"`
	Total       int      `json:"total"`
	CurrentPage int      `json:"currentPage"`
	LastPage    int      `json:"lastPage"`
	URL         PageURLs `json:"url"`
}

// HasPrev reports whether a previous page exists.
func (p Paged[T]) HasPrev() bool { return p.URL.Prev != "" }

// HasNext reports whether a next page exists.
func (p Paged[T]) HasNext() bool { return p.URL.Next != "" }

// TotalPages is the ceiling of total/size, 0 when there is nothing to show.
// A non-positive size means a single page.
func TotalPages(total, size int) int {
	if total <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// PageURL returns the link to page n of the listing at basePath. Page 1 is
// basePath itself.
func PageURL(basePath string, n int) string {
	if n <= 1 {
		if basePath == "" {
			return "/"
		}
		return basePath
	}
	return basePath + "/" + strconv.Itoa(n)
}

// Paginate slices items for the 1-based page and builds its links under
// basePath. Pages below 1 are treated as 1; pages past the end are empty.
func Paginate[T any](items []T, page, size int, basePath string) Paged[T] {
	if page < 1 {
		page = 1
	}
	total := len(items)
	if size <= 0 {
		size = total
	}
	last := TotalPages(total, size)

	// Past the end the product (page-1)*size can overflow.
	start, end := total, total
	if page <= last {
		start = (page - 1) * size
		end = min(start+size, total)
	}

	p := Paged[T]{
		Data:        items[start:end:end],
		Start:       start,
		End:         end,
		Size:        size,
		Total:       total,
		CurrentPage: page,
		LastPage:    last,
		URL:         PageURLs{Current: PageURL(basePath, page)},
	}
	if last == 0 {
		return p
	}
	p.URL.First = PageURL(basePath, 1)
	p.URL.Last = PageURL(basePath, last)
	if page > 1 && page <= last {
		p.URL.Prev = PageURL(basePath, page-1)
	}
	if page < last {
		p.URL.Next = PageURL(basePath, page+1)
	}
	return p
}
