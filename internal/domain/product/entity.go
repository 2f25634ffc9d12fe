package product

import "time"

// Product is a marketplace listing as served by the API
type Product struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	Images      []string  `json:"images" yaml:"images"`
	CategoryID  string    `json:"categoryId" yaml:"categoryId"`
	SellerID    string    `json:"sellerId" yaml:"sellerId"`
	Rating      float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Stock       int       `json:"stock" yaml:"stock"`
	Location    string    `json:"location" yaml:"location"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	Featured    bool      `json:"featured,omitempty" yaml:"featured,omitempty"`
}

// SortOrder selects the ordering of a product listing
type SortOrder string

const (
	SortLatest    SortOrder = "latest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
)

// Filter narrows a product listing. A zero MaxPrice means no upper bound.
type Filter struct {
	Query      string
	CategoryID string
	MinPrice   float64
	MaxPrice   float64
	Sort       SortOrder
}
