package handler

import (
	"net/http"
	"strconv"

	"cameroonmark/internal/application/catalog"
	"cameroonmark/internal/domain/product"
)

type ProductHandler struct {
	service catalog.Service
}

func NewProductHandler(service catalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products?q=&category=&minPrice=&maxPrice=&sort=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := product.Filter{
		Query:      q.Get("q"),
		CategoryID: q.Get("category"),
		Sort:       product.SortOrder(q.Get("sort")),
	}
	var err error
	if filter.MinPrice, err = parsePrice(q.Get("minPrice")); err != nil {
		SendError(w, "Invalid minPrice", http.StatusBadRequest)
		return
	}
	if filter.MaxPrice, err = parsePrice(q.Get("maxPrice")); err != nil {
		SendError(w, "Invalid maxPrice", http.StatusBadRequest)
		return
	}

	products, err := h.service.List(filter)
	if err != nil {
		SendFailure(w, err, "Failed to list products")
		return
	}

	SendSuccess(w, "", products)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, err := h.service.Get(r.PathValue("id"))
	if err != nil {
		SendFailure(w, err, "Failed to load product")
		return
	}

	SendSuccess(w, "", p)
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
