package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"cameroonmark/internal/domain/product"
)

type catalogRepository struct {
	mu       sync.RWMutex
	products []product.Product
	byID     map[string]int
}

// NewCatalogRepository creates an in-memory catalog from a product list
func NewCatalogRepository(products []product.Product) product.Repository {
	r := &catalogRepository{
		products: make([]product.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if i, ok := r.byID[p.ID]; ok {
			r.products[i] = p
			continue
		}
		r.byID[p.ID] = len(r.products)
		r.products = append(r.products, p)
	}
	return r
}

// LoadCatalog reads a product list from a .json, .yaml or .yml file.
// An empty path yields an empty catalog.
func LoadCatalog(path string) (product.Repository, error) {
	if path == "" {
		return NewCatalogRepository(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []product.Product
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &products)
	case ".json":
		err = json.Unmarshal(data, &products)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", product.ErrInvalidCatalog, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", product.ErrInvalidCatalog, err)
	}

	return NewCatalogRepository(products), nil
}

func (r *catalogRepository) List() ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *catalogRepository) GetByID(id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}
