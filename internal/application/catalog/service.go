package catalog

import (
	"sort"
	"strings"

	"cameroonmark/internal/domain/product"
)

// Service defines the product browsing interface
type Service interface {
	List(filter product.Filter) ([]product.Product, error)
	Get(id string) (*product.Product, error)
}

type service struct {
	repo product.Repository
}

// NewService creates a new catalog service
func NewService(repo product.Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(id string) (*product.Product, error) {
	return s.repo.GetByID(id)
}

// List applies search, category and price filters, then sorts. The repository order is never mutated.
func (s *service) List(filter product.Filter) ([]product.Product, error) {
	all, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	results := make([]product.Product, 0, len(all))
	for _, p := range all {
		if query != "" && !matches(p, query) {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if p.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		results = append(results, p)
	}

	sortProducts(results, filter.Sort)
	return results, nil
}

func matches(p product.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Location), query)
}

func sortProducts(products []product.Product, order product.SortOrder) {
	switch order {
	case product.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case product.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case product.SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	default:
		sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	}
}
