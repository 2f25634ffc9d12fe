package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	cartService "cameroonmark/internal/application/cart"
	"cameroonmark/internal/application/catalog"
	"cameroonmark/internal/domain/cart"
)

// CartHandler serves the cart. Stock limits are enforced here, the cart store itself accepts any quantity.
type CartHandler struct {
	cart        cartService.Service
	catalog     catalog.Service
	shippingFee float64

	// stockMu makes each stock check and the mutation it guards one step
	stockMu sync.Mutex
}

func NewCartHandler(cart cartService.Service, catalog catalog.Service, shippingFee float64) *CartHandler {
	return &CartHandler{
		cart:        cart,
		catalog:     catalog,
		shippingFee: shippingFee,
	}
}

// Cart handles GET /api/cart and DELETE /api/cart
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		SendSuccess(w, "", h.cart.Summary(h.shippingFee))
	case http.MethodDelete:
		h.cart.ClearCart(r.Context())
		SendSuccess(w, "Cart cleared", h.cart.Summary(h.shippingFee))
	default:
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cart.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		SendError(w, "productId is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = cart.DefaultQuantity
	}

	p, err := h.catalog.Get(req.ProductID)
	if err != nil {
		SendFailure(w, err, "Failed to load product")
		return
	}

	h.stockMu.Lock()
	inCart := 0
	if item, ok := h.cart.Item(p.ID); ok {
		inCart = item.Quantity
	}
	if inCart+req.Quantity > p.Stock {
		h.stockMu.Unlock()
		SendFailure(w, cart.ErrInsufficientStock, "")
		return
	}
	h.cart.AddToCart(r.Context(), *p, req.Quantity)
	h.stockMu.Unlock()

	SendSuccess(w, "Added to cart", h.cart.Summary(h.shippingFee))
}

// Item handles PUT and DELETE /api/cart/items/{id}
func (h *CartHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var req cart.UpdateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			SendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		h.stockMu.Lock()
		item, ok := h.cart.Item(id)
		if !ok {
			h.stockMu.Unlock()
			SendFailure(w, cart.ErrItemNotFound, "")
			return
		}
		if req.Quantity > 0 {
			stock := item.Product.Stock
			if p, err := h.catalog.Get(id); err == nil {
				stock = p.Stock
			}
			if req.Quantity > stock {
				h.stockMu.Unlock()
				SendFailure(w, cart.ErrInsufficientStock, "")
				return
			}
		}
		h.cart.UpdateQuantity(r.Context(), id, req.Quantity)
		h.stockMu.Unlock()

		SendSuccess(w, "Cart updated", h.cart.Summary(h.shippingFee))
	case http.MethodDelete:
		h.cart.RemoveFromCart(r.Context(), id)
		SendSuccess(w, "Item removed", h.cart.Summary(h.shippingFee))
	default:
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
