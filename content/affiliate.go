package content

import (
	"sort"
	"strings"
)

// ProductFilter selects affiliate products. Zero fields do not filter.
type ProductFilter struct {
	Search    string
	Brand     string
	Featured  *bool
	MinRating float64
	MinPrice  *float64
	MaxPrice  *float64
}

// Apply returns the products matching f, keeping their order.
func (f ProductFilter) Apply(products []AffiliateProduct) []AffiliateProduct {
	search := strings.TrimSpace(f.Search)
	brand := strings.TrimSpace(f.Brand)
	var out []AffiliateProduct
	for _, p := range products {
		if brand != "" && !strings.EqualFold(p.Brand, brand) {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if p.Rating < f.MinRating {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if search != "" && !MatchesSearch(search, p.Name, p.Brand, p.Description) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders products in place by "rating", "price" or "name".
// Unknown fields sort by rating.
func SortProducts(products []AffiliateProduct, field string, desc bool) {
	var less func(a, b AffiliateProduct) bool
	switch field {
	case "price":
		less = func(a, b AffiliateProduct) bool { return a.Price < b.Price }
	case "name":
		less = func(a, b AffiliateProduct) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b AffiliateProduct) bool { return a.Rating < b.Rating }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// ComparedProduct is a product placed in a comparison table.
type ComparedProduct struct {
	AffiliateProduct
	Rank int `json:"rank"`
	// Values holds one entry per comparison spec key; missing specs are "".
	Values []string `json:"values"`
}

// Comparison is a side-by-side view of the best rated products of one
// affiliate category.
type Comparison struct {
	Category    AffiliateCategory `json:"category"`
	SpecKeys    []string          `json:"specKeys"`
	Products    []ComparedProduct `json:"products"`
	BestRated   string            `json:"bestRated,omitempty"`
	LowestPrice string            `json:"lowestPrice,omitempty"`
}

// Compare ranks the active products of category by rating and lines up
// their specs. limit caps the number of products when positive.
func Compare(s *Snapshot, category AffiliateCategory, limit int) Comparison {
	products := append([]AffiliateProduct(nil), s.Index().ProductsByCategory(category.ID)...)
	SortProducts(products, "rating", true)
	products = truncate(products, limit)

	keySet := make(map[string]struct{})
	for _, p := range products {
		for k := range p.Specs {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmp := Comparison{Category: category, SpecKeys: keys, Products: make([]ComparedProduct, 0, len(products))}
	var cheapest *AffiliateProduct
	for i, p := range products {
		values := make([]string, len(keys))
		for j, k := range keys {
			values[j] = p.Specs[k]
		}
		cmp.Products = append(cmp.Products, ComparedProduct{AffiliateProduct: p, Rank: i + 1, Values: values})
		if p.Price > 0 && (cheapest == nil || p.Price < cheapest.Price) {
			cheapest = &products[i]
		}
	}
	if len(products) > 0 {
		cmp.BestRated = products[0].ID
	}
	if cheapest != nil {
		cmp.LowestPrice = cheapest.ID
	}
	return cmp
}
