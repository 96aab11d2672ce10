package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultProductImage    = "https://via.placeholder.com/400x300?text=No+Image"
	DefaultProductCategory = "General"
)

type Product struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Image       string       `json:"image"`
	Category    string       `json:"category"`
	InStock     bool         `json:"in_stock"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	Creator     *UserSummary `json:"creator,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Image       string   `json:"image,omitempty" validate:"omitempty,url"`
	Category    string   `json:"category,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
}

// UpdateProductRequest carries only the fields the caller wants changed.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,url"`
	Category    *string  `json:"category,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
}

type ListProductsQuery struct {
	Search string
	Page   int
	Limit  int // 0 means no limit
}

type ProductListResponse struct {
	Products   []*Product `json:"products"`
	Pagination Pagination `json:"pagination"`
}
