package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cameroonmark/internal/domain/product"
	"cameroonmark/internal/infrastructure/repository"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func newCatalogTest() Service {
	return NewService(repository.NewCatalogRepository([]product.Product{
		{ID: "p1", Title: "Penja pepper", Description: "White pepper", Price: 3500, CategoryID: "food", Location: "Penja", Rating: 4.8, CreatedAt: day(3)},
		{ID: "p2", Title: "Ndop cloth", Description: "Hand-woven fabric", Price: 15000, CategoryID: "textiles", Location: "Bamenda", CreatedAt: day(5)},
		{ID: "p3", Title: "Arabica coffee", Description: "Roasted beans from the west", Price: 2750, CategoryID: "food", Location: "Dschang", Rating: 4.1, CreatedAt: day(1)},
		{ID: "p4", Title: "Bamileke mask", Description: "Carved wood", Price: 45000, CategoryID: "crafts", Location: "Bafoussam", Rating: 5, CreatedAt: day(2)},
	}))
}

func ids(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestList_DefaultSortsLatestFirst(t *testing.T) {
	got, err := newCatalogTest().List(product.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1", "p4", "p3"}, ids(got))
}

func TestList_Query(t *testing.T) {
	svc := newCatalogTest()

	got, err := svc.List(product.Filter{Query: "PEPPER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(got))

	// location matches too
	got, err = svc.List(product.Filter{Query: "bamenda"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(got))
}

func TestList_CategoryAndPrice(t *testing.T) {
	svc := newCatalogTest()

	got, err := svc.List(product.Filter{CategoryID: "food", Sort: product.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1"}, ids(got))

	got, err = svc.List(product.Filter{MinPrice: 3500, MaxPrice: 15000, Sort: product.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids(got))
}

func TestList_Rating(t *testing.T) {
	got, err := newCatalogTest().List(product.Filter{Sort: product.SortRating})
	require.NoError(t, err)
	assert.Equal(t, []string{"p4", "p1", "p3", "p2"}, ids(got))
}

func TestGet(t *testing.T) {
	svc := newCatalogTest()

	p, err := svc.Get("p4")
	require.NoError(t, err)
	assert.Equal(t, "Bamileke mask", p.Title)

	_, err = svc.Get("nope")
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}
