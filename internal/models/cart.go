package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a cart: a product reference and a quantity.
// Prices are never stored on the cart; they are resolved at read time.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FindItem returns the index of the line holding productID, or -1.
func (c *Cart) FindItem(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}

	return -1
}

// ResolvedCartItem is a cart line joined with its product. Product is nil
// when the referenced product no longer exists.
type ResolvedCartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
}

// ResolvedCart is what cart endpoints return: the stored lines expanded
// with product details. A caller without a cart gets an empty item list.
type ResolvedCart struct {
	ID        uuid.UUID          `json:"id,omitempty"`
	UserID    uuid.UUID          `json:"user_id,omitempty"`
	Items     []ResolvedCartItem `json:"items"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// UpdateCartItemRequest carries the replacement quantity. It is stored
// as submitted; zero and negative values are legal.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
