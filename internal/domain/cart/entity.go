package cart

import "cameroonmark/internal/domain/product"

// DefaultQuantity is used when an add does not name a positive quantity
const DefaultQuantity = 1

// Item is one cart line, keyed by ProductID
type Item struct {
	ProductID string          `json:"productId"`
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns quantity times unit price
func (i Item) LineTotal() float64 {
	return float64(i.Quantity) * i.Product.Price
}

// Summary is the checkout view of the cart
type Summary struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"totalItems"`
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Total      float64 `json:"total"`
}

// AddItemRequest represents a request to add a catalog product to the cart
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest represents a request to set a line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}
