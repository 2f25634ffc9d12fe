package cart

import "errors"

var (
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
)
