package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productSnapshot() *Snapshot {
	return &Snapshot{
		AffiliateCategories: []AffiliateCategory{{ID: "desks", Slug: "standing-desks", Name: "Desks"}},
		AffiliateProducts: []AffiliateProduct{
			{ID: "a", Name: "Alpha", Category: "desks", Brand: "Uplift", Price: 600, Rating: 4.2, Specs: map[string]string{"width": "120cm"}},
			{ID: "b", Name: "Bravo", Category: "desks", Brand: "Flexi", Price: 450, Rating: 4.7, Featured: true, Specs: map[string]string{"motor": "dual"}},
			{ID: "c", Name: "Charlie", Category: "desks", Brand: "uplift", Price: 0, Rating: 3.9},
			{ID: "d", Name: "Delta", Category: "desks", Brand: "Flexi", Price: 100, Rating: 5, Status: StatusInactive},
		},
	}
}

func TestProductFilter(t *testing.T) {
	s := productSnapshot()
	products := s.Index().ProductsByCategory("desks")
	require.Len(t, products, 3, "inactive products are not indexed")

	names := func(ps []AffiliateProduct) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	lo, hi := 400.0, 700.0
	featured := true
	assert.Equal(t, []string{"a", "c"}, names(ProductFilter{Brand: "UPLIFT"}.Apply(products)))
	assert.Equal(t, []string{"a", "b"}, names(ProductFilter{MinPrice: &lo, MaxPrice: &hi}.Apply(products)))
	assert.Equal(t, []string{"b"}, names(ProductFilter{Featured: &featured}.Apply(products)))
	assert.Equal(t, []string{"a", "b"}, names(ProductFilter{MinRating: 4}.Apply(products)))
	assert.Equal(t, []string{"c"}, names(ProductFilter{Search: "char"}.Apply(products)))
}

func TestSortProducts(t *testing.T) {
	products := append([]AffiliateProduct(nil), productSnapshot().AffiliateProducts[:3]...)
	SortProducts(products, "price", false)
	assert.Equal(t, "c", products[0].ID)
	SortProducts(products, "bogus", true)
	assert.Equal(t, "b", products[0].ID, "unknown fields sort by rating")
	SortProducts(products, "name", true)
	assert.Equal(t, "c", products[0].ID)
}

func TestCompare(t *testing.T) {
	s := productSnapshot()
	cat, ok := s.Index().AffiliateCategory("standing-desks")
	require.True(t, ok, "affiliate categories resolve by slug")

	cmp := Compare(s, cat, 0)
	assert.Equal(t, []string{"motor", "width"}, cmp.SpecKeys)
	require.Len(t, cmp.Products, 3)
	assert.Equal(t, "b", cmp.Products[0].ID)
	assert.Equal(t, 1, cmp.Products[0].Rank)
	assert.Equal(t, []string{"dual", ""}, cmp.Products[0].Values)
	assert.Equal(t, "b", cmp.BestRated)
	assert.Equal(t, "b", cmp.LowestPrice, "unpriced products are skipped")

	cmp = Compare(s, cat, 1)
	assert.Len(t, cmp.Products, 1)
	assert.Equal(t, []string{"motor"}, cmp.SpecKeys)

	empty := Compare(&Snapshot{}, AffiliateCategory{ID: "none"}, 5)
	assert.Empty(t, empty.Products)
	assert.Empty(t, empty.BestRated)
}
