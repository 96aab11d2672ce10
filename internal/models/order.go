package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusUnpaid    OrderStatus = "unpaid"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// OrderItem is a by-value snapshot of a product at order-creation time.
// Later edits or deletions of the product never alter it.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

type Order struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Items       []OrderItem  `json:"items"`
	TotalAmount float64      `json:"total_amount"`
	Status      OrderStatus  `json:"status"`
	User        *UserSummary `json:"user,omitempty"` // resolved on the admin listing only
	CreatedAt   time.Time    `json:"created_at"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=unpaid paid pending shipped delivered"`
}

type SimulatePaymentRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
}
