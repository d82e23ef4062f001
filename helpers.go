package inkwell

import (
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/content"
)

const defaultPerPage = 10

// listParams are the paging and ordering query parameters shared by the
// list endpoints. Malformed values fall back to defaults.
type listParams struct {
	Page    int
	PerPage int
	SortBy  string
	Desc    bool
}

func (p listParams) order() string {
	if p.Desc {
		return "desc"
	}
	return "asc"
}

// listParams reads page, perPage, sortBy and sortOrder. sortBy values not
// in allowed fall back to allowed[0].
func (a *App) listParams(c echo.Context, defaultDesc bool, allowed ...string) listParams {
	p := listParams{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "perPage", defaultPerPage),
		Desc:    defaultDesc,
	}
	if p.PerPage > a.Config.API.MaxPerPage {
		p.PerPage = a.Config.API.MaxPerPage
	}
	if len(allowed) > 0 {
		p.SortBy = allowed[0]
		sortBy := c.QueryParam("sortBy")
		for _, f := range allowed {
			if f == sortBy {
				p.SortBy = f
				break
			}
		}
	}
	switch strings.ToLower(c.QueryParam("sortOrder")) {
	case "asc":
		p.Desc = false
	case "desc":
		p.Desc = true
	}
	return p
}

func (p listParams) filters() map[string]any {
	return map[string]any{"sortBy": p.SortBy, "sortOrder": p.order()}
}

// queryInt returns the positive integer query parameter name, or def.
func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// queryBool returns nil when name is absent or not a boolean.
func queryBool(c echo.Context, name string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return nil
	}
	return &b
}

// queryFloat returns nil when name is absent or not a number.
func queryFloat(c echo.Context, name string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(c.QueryParam(name)), 64)
	if err != nil {
		return nil
	}
	return &f
}

// setFilter records a non-empty filter value in the response envelope.
func setFilter(filters map[string]any, key string, v any) {
	switch v := v.(type) {
	case string:
		if v == "" {
			return
		}
	case *bool:
		if v == nil {
			return
		}
		filters[key] = *v
		return
	case *float64:
		if v == nil {
			return
		}
		filters[key] = *v
		return
	}
	filters[key] = v
}

// paginate slices items into the requested page and builds the envelope
// pagination block.
func paginate[T any](items []T, p listParams) ([]T, *Pagination) {
	pg := content.Paginate(items, p.Page, p.PerPage, "")
	data := pg.Data
	if data == nil {
		data = []T{}
	}
	return data, &Pagination{
		Page:       pg.CurrentPage,
		PerPage:    pg.Size,
		Total:      pg.Total,
		TotalPages: pg.LastPage,
		HasNext:    pg.CurrentPage < pg.LastPage,
		HasPrev:    pg.CurrentPage > 1,
	}
}

func sortItems[T any](items []T, desc bool, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// trimJSON strips the ".json" suffix from a route parameter.
func trimJSON(param string) string {
	return strings.TrimSuffix(param, ".json")
}

// siteURL prefers the configured site URL over the one in settings.
func (a *App) siteURL(s *content.Snapshot) string {
	u := a.Config.Site.URL
	if u == "" && s != nil {
		u = s.Settings.SiteURL
	}
	return trimSlash(u)
}

func trimSlash(u string) string {
	return strings.TrimRight(u, "/")
}
